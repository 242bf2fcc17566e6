package admin

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/donmariogerlin/gerlin/backend"
)

// Context is what an authenticated admin request carries: the session the
// guard resolved and the workspace of that session.
type Context struct {
	Session   *backend.Session
	Workspace *Workspace
}

// Guard admits requests that carry a live session token.
type Guard struct {
	auth   backend.Auth
	logger zerolog.Logger
}

func NewGuard(auth backend.Auth, logger zerolog.Logger) *Guard {
	return &Guard{auth: auth, logger: logger}
}

// Check resolves token into its session. Any failure, including an
// unreachable auth service, is reported as no session.
func (g *Guard) Check(ctx context.Context, token string) (*backend.Session, bool) {
	if token == "" {
		return nil, false
	}
	sess, err := g.auth.GetSession(ctx, token)
	if err != nil {
		g.logger.Debug().Err(err).Msg("admin session rejected")
		return nil, false
	}
	return sess, true
}
