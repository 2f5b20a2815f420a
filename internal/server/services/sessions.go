package services

import (
	"context"

	"github.com/landchain/landchain/internal/common"
	"github.com/landchain/landchain/internal/logging"
	"github.com/landchain/landchain/internal/server/auth"
	"github.com/landchain/landchain/internal/server/models"
)

// SessionService turns sessions into cookie tokens and back, and decides
// who may see which dashboard.
type SessionService struct {
	codec  *auth.SessionCodec
	logger logging.Logger
}

func NewSessionService(codec *auth.SessionCodec, logger logging.Logger) *SessionService {
	return &SessionService{codec: codec, logger: logger.With("module", "sessions")}
}

// Issue returns the signed token for sess.
func (s *SessionService) Issue(ctx context.Context, sess *models.Session) (string, error) {
	token, err := s.codec.Issue(sess)
	if err != nil {
		s.logger.Error(ctx, "session signing failed", "error", err)
		return "", common.ErrorInternal
	}
	return token, nil
}

// Resolve returns the session carried by token. Any problem with the token
// is common.ErrorUnauthorized.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}
	sess, err := s.codec.Parse(token)
	if err != nil {
		s.logger.Debug(ctx, "session rejected", "error", err)
		return nil, common.ErrorUnauthorized
	}
	return sess, nil
}

// AccessDashboard grants the dashboard of requested only to a session
// holding exactly that role.
func (s *SessionService) AccessDashboard(ctx context.Context, sess *models.Session, requested models.Role) (*models.Dashboard, error) {
	if sess == nil || !requested.Valid() || sess.Role != requested {
		if sess != nil {
			s.logger.Warn(ctx, "dashboard denied", "unique_id", sess.UniqueID, "role", string(sess.Role), "requested", string(requested))
		}
		return nil, common.ErrorUnauthorized
	}

	return &models.Dashboard{
		Role:     requested,
		Username: sess.Username,
		UniqueID: sess.UniqueID,
		Path:     requested.DashboardPath(),
	}, nil
}

// Logout ends sess. Sessions are stateless signed tokens, so this only
// records the event; the transport drops the cookie.
func (s *SessionService) Logout(ctx context.Context, sess *models.Session) {
	if sess != nil {
		s.logger.Info(ctx, "logout", "unique_id", sess.UniqueID)
	}
}
