package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SpicyTech2823/Car-rental/applications/auth"

	"github.com/google/uuid"
)

type GateState string

const (
	Checking     GateState = "checking"
	Authorized   GateState = "authorized"
	Unauthorized GateState = "unauthorized"
)

const (
	RouteLogin         = "/admin/login"
	RouteNotAuthorized = "/not-authorized"
	RouteDashboard     = "/admin/dashboard"
)

// Decision is the outcome of one gate run.
type Decision struct {
	State    GateState      `json:"state"`
	Identity *auth.Identity `json:"-"`
	Redirect string         `json:"redirect"`
	// SignedOut is set when the gate ended the caller's session.
	SignedOut bool `json:"signedOut"`
}

func (d Decision) Allowed() bool { return d.State == Authorized }

// SessionAuthority is the slice of the auth service the gate uses.
type SessionAuthority interface {
	GetSession(ctx context.Context, accessToken string) (*auth.Identity, error)
	SignOut(ctx context.Context, id *auth.Identity) error
}

type Membership interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Gate decides whether a caller may use the admin panel. Nothing is
// cached: every call reads the session and the admins table again.
type Gate struct {
	log      *slog.Logger
	sessions SessionAuthority
	members  Membership
}

func NewGate(log *slog.Logger, sessions SessionAuthority, members Membership) *Gate {
	return &Gate{log: log, sessions: sessions, members: members}
}

// Check is the full gate: a caller with a session but no admin row is
// signed out.
func (g *Gate) Check(ctx context.Context, accessToken string) Decision {
	return g.run(ctx, accessToken, true)
}

// Route reports where an /admin visit should land without ending any
// session.
func (g *Gate) Route(ctx context.Context, accessToken string) Decision {
	return g.run(ctx, accessToken, false)
}

func (g *Gate) run(ctx context.Context, accessToken string, forceSignOut bool) Decision {
	id, err := g.sessions.GetSession(ctx, accessToken)
	if err != nil || id == nil {
		g.log.Info("[admin-gate] No session, sending to admin login.")
		return Decision{State: Unauthorized, Redirect: RouteLogin}
	}

	ok, err := g.members.IsAdmin(ctx, id.UserID)
	if err != nil || !ok {
		if err != nil {
			g.log.Error(fmt.Sprintf("[admin-gate] Membership lookup failed for %s: %v", id.Email, err))
		} else {
			g.log.Warn(fmt.Sprintf("[admin-gate] %s is not an admin.", id.Email))
		}
		d := Decision{State: Unauthorized, Identity: id, Redirect: RouteNotAuthorized}
		if !forceSignOut {
			return d
		}
		if err := g.sessions.SignOut(ctx, id); err != nil {
			g.log.Error(fmt.Sprintf("[admin-gate] Forced sign-out of %s failed: %v", id.Email, err))
		} else {
			d.SignedOut = true
		}
		return d
	}

	return Decision{State: Authorized, Identity: id, Redirect: RouteDashboard}
}
