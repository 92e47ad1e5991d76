package context

import (
	"context"

	"partelog/infrastructure/rbac"
	"partelog/models"
)

type sessionKey struct{}

func NewContextWithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func GetSessionFromContext(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(models.Session)
	return s, ok
}

// GetScopeFromContext derives the tenancy scope from the stored session.
// The bool is false when there is no session or the role fails to parse;
// callers treat that as unauthenticated.
func GetScopeFromContext(ctx context.Context) (rbac.Scope, bool) {
	s, ok := GetSessionFromContext(ctx)
	if !ok {
		return rbac.Scope{}, false
	}
	role, ok := rbac.Parse(s.User.Role)
	if !ok {
		return rbac.Scope{}, false
	}
	return rbac.Scope{
		UserID:    s.UserID,
		CompanyID: s.User.CompanyID,
		Role:      role,
		Username:  s.User.Username,
	}, true
}
