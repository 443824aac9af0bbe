package transport

import (
	"bytes"
	"io"
	"mime/multipart"

	"github.com/pkg/errors"
)

// Multipart accumulates a multipart/form-data body. It is recognised by the
// transports, which send it with the writer's boundary content type instead
// of forcing JSON.
type Multipart struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	closed bool
}

func NewMultipart() *Multipart {
	m := &Multipart{}
	m.writer = multipart.NewWriter(&m.buf)
	return m
}

// WriteField adds a plain form field.
func (m *Multipart) WriteField(name, value string) error {
	return errors.Wrapf(m.writer.WriteField(name, value), "multipart field %q", name)
}

// WriteFile adds a file part streamed from r.
func (m *Multipart) WriteFile(field, filename string, r io.Reader) error {
	part, err := m.writer.CreateFormFile(field, filename)
	if err != nil {
		return errors.Wrapf(err, "multipart file %q", field)
	}
	if _, err := io.Copy(part, r); err != nil {
		return errors.Wrapf(err, "multipart file %q", field)
	}
	return nil
}

// reader returns a fresh reader over the finished body. Each call starts at
// the beginning so a re-sent request uploads the identical payload.
func (m *Multipart) reader() io.Reader {
	m.close()
	return bytes.NewReader(m.buf.Bytes())
}

func (m *Multipart) contentType() string {
	m.close()
	return m.writer.FormDataContentType()
}

func (m *Multipart) close() {
	if !m.closed {
		m.writer.Close()
		m.closed = true
	}
}
