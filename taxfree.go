// Package taxfree is the composition root of the Tax Free RDC client. It
// detects the runtime environment once, wires the matching transport into a
// request client with the maintenance and auth interceptors, and exposes the
// per-resource API services over it.
package taxfree

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/taxfree-rdc/taxfree-go/api"
	"github.com/taxfree-rdc/taxfree-go/client"
	"github.com/taxfree-rdc/taxfree-go/internal/config"
	apperrors "github.com/taxfree-rdc/taxfree-go/internal/errors"
	"github.com/taxfree-rdc/taxfree-go/session"
	"github.com/taxfree-rdc/taxfree-go/transport"
)

// Platform is the assembled client: one session store, one request client,
// and the API services bound to it.
type Platform struct {
	Config      config.Config
	Sessions    *session.Store
	Client      *client.Client
	API         *api.API
	Maintenance *client.MaintenanceInterceptor

	log zerolog.Logger
}

// Option modifies the Platform during assembly.
type Option func(*options)

type options struct {
	config    config.Config
	storage   session.Storage
	navigator client.Navigator
	routes    *client.Routes
	transport transport.Transport
	logger    *zerolog.Logger
}

// WithConfig supplies a pre-built configuration instead of reading the
// environment.
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithStorage overrides session persistence (tests use memory storage).
func WithStorage(storage session.Storage) Option {
	return func(o *options) { o.storage = storage }
}

// WithNavigator connects the hosting UI's router.
func WithNavigator(nav client.Navigator) Option {
	return func(o *options) { o.navigator = nav }
}

// WithRoutes overrides the UI route table seen by the interceptors.
func WithRoutes(routes client.Routes) Option {
	return func(o *options) { o.routes = &routes }
}

// WithTransport overrides the transport chosen by environment detection.
func WithTransport(t transport.Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithLogger enables request-layer logging.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.logger = &log }
}

// New assembles the platform client. Environment detection runs once here;
// it is never re-evaluated per request.
func New(opts ...Option) (*Platform, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg := o.config
	if cfg == nil {
		loaded, err := config.New()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	log := zerolog.Nop()
	if o.logger != nil {
		log = *o.logger
	}

	storage := o.storage
	if storage == nil {
		path, err := cfg.GetSessionFile()
		if err != nil {
			return nil, apperrors.Wrapf(err, "resolve session file")
		}
		storage = session.NewFileStorage(path)
	}
	sessions := session.NewStore(storage)
	if err := sessions.Load(); err != nil {
		return nil, err
	}

	nav := o.navigator
	if nav == nil {
		nav = client.NopNavigator{}
	}
	routes := client.DefaultRoutes()
	if o.routes != nil {
		routes = *o.routes
	}

	tr := o.transport
	if tr == nil {
		tr = newTransport(cfg)
	}

	maintenance := client.NewMaintenanceInterceptor(nav, routes, log)
	auth := client.NewAuthInterceptor(sessions, tr, nav, routes, log)
	requestClient := client.New(tr,
		client.WithLogger(log),
		client.WithInterceptors(maintenance, auth),
	)

	return &Platform{
		Config:      cfg,
		Sessions:    sessions,
		Client:      requestClient,
		API:         api.New(requestClient),
		Maintenance: maintenance,
		log:         log,
	}, nil
}

// newTransport picks the transport for the detected runtime. Inside the
// desktop shell requests tunnel through the bridge against the fixed remote
// origin; otherwise plain HTTP against the configured origin.
func newTransport(cfg config.Config) transport.Transport {
	if config.IsDesktopRuntime() {
		setup := transport.DialBridge(cfg.GetBridgeAddr(), cfg.GetBridgeDialTimeout(), cfg.GetRequestTimeout())
		return transport.NewBridge(cfg.GetDesktopBaseURL()+"/api", setup)
	}
	return transport.NewHTTP(cfg.GetBaseURL()+"/api", cfg.GetRequestTimeout())
}

// Login runs the full two-step login and writes the resulting session.
func (p *Platform) Login(ctx context.Context, email, password string) (*api.LoginChallenge, error) {
	return p.API.Auth.Login(ctx, email, password)
}

// VerifyOTP completes the login and persists the session state.
func (p *Platform) VerifyOTP(ctx context.Context, email, code string) (*api.LoginResult, error) {
	result, err := p.API.Auth.VerifyOTP(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if err := p.Sessions.SetSession(result.Access, result.Refresh, result.User); err != nil {
		return nil, err
	}
	return result, nil
}

// Logout revokes the refresh token server side and clears local state. The
// local session is cleared even when the server call fails.
func (p *Platform) Logout(ctx context.Context) error {
	refreshToken := p.Sessions.RefreshToken()
	var serverErr error
	if refreshToken != "" {
		serverErr = p.API.Auth.Logout(ctx, refreshToken)
	}
	if err := p.Sessions.Clear(); err != nil {
		return err
	}
	return serverErr
}
