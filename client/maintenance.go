package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taxfree-rdc/taxfree-go/transport"
)

// MaintenanceCode is the machine-readable marker the backend puts in 503
// bodies while maintenance mode is active.
const MaintenanceCode = "maintenance_mode"

// logoutPath is exempt from the maintenance redirect so a user mid-logout is
// not yanked to the maintenance page.
const logoutPath = "/auth/logout/"

// MaintenanceInterceptor watches for the maintenance sentinel and redirects
// the UI to the maintenance page, keeping the server's message for display.
// The original error always propagates to the caller. Installed first in the
// pipeline, so its After unwinds last and also covers responses produced by
// the auth retry.
type MaintenanceInterceptor struct {
	nav    Navigator
	routes Routes
	log    zerolog.Logger

	mu      sync.RWMutex
	message string
}

var _ Interceptor = (*MaintenanceInterceptor)(nil)

func NewMaintenanceInterceptor(nav Navigator, routes Routes, log zerolog.Logger) *MaintenanceInterceptor {
	return &MaintenanceInterceptor{nav: nav, routes: routes, log: log}
}

func (i *MaintenanceInterceptor) Before(context.Context, *transport.Request) error {
	return nil
}

func (i *MaintenanceInterceptor) After(_ context.Context, req *transport.Request, resp *transport.Response, err error) (*transport.Response, error) {
	if err == nil {
		return resp, nil
	}
	se, ok := transport.AsStatusError(err)
	if !ok || se.Status != http.StatusServiceUnavailable || se.Code() != MaintenanceCode {
		return resp, err
	}
	if req.Path == logoutPath || routeIn(i.nav.CurrentRoute(), i.routes.MaintenanceExempt) {
		return resp, err
	}

	i.mu.Lock()
	i.message = se.Detail()
	i.mu.Unlock()

	i.log.Warn().Str("path", req.Path).Msg("maintenance mode active, redirecting")
	i.nav.Replace(i.routes.Maintenance)
	return resp, err
}

// Message returns the last server-supplied maintenance message, for the
// maintenance page to display.
func (i *MaintenanceInterceptor) Message() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.message
}
