package admin

import (
	"context"
	"fmt"
	"log/slog"
)

type ResolveAdminRouteUC struct {
	log  *slog.Logger
	gate *Gate
}

func NewResolveAdminRouteUC(log *slog.Logger, gate *Gate) *ResolveAdminRouteUC {
	return &ResolveAdminRouteUC{log: log, gate: gate}
}

// Invoke returns the admin page the caller belongs on: the login page, the
// not-authorized page or the dashboard.
func (uc *ResolveAdminRouteUC) Invoke(ctx context.Context, accessToken string) string {
	d := uc.gate.Route(ctx, accessToken)
	uc.log.Info(fmt.Sprintf("[resolve-admin-route-uc] Redirecting to %s.", d.Redirect))
	return d.Redirect
}
