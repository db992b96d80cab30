package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"session-auth/internal/metrics"
	"session-auth/internal/model"
	"session-auth/pkg/apierror"
)

type tokenParser interface {
	Parse(tokenString string) (model.AuthClaims, error)
}

type userFinder interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

// Authorizer decides whether a request may reach an admin handler and
// returns the caller's current user record. Rejections are reported as
// model.ErrTokenMissing, model.ErrTokenInvalid or model.ErrForbidden; any
// other error is a store failure.
type Authorizer interface {
	Authorize(r *http.Request) (model.User, error)
}

type contextKey string

const authUserContextKey contextKey = "auth_user"

// AdminGuard trusts the token for identity and expiry only. The role is read
// from the store on every request, so a demoted admin loses access before
// their token expires.
type AdminGuard struct {
	tokens tokenParser
	users  userFinder
	header string
}

func NewAdminGuard(tokens tokenParser, users userFinder, header string) *AdminGuard {
	if strings.TrimSpace(header) == "" {
		header = "x-access-token"
	}
	return &AdminGuard{tokens: tokens, users: users, header: header}
}

func (g *AdminGuard) Authorize(r *http.Request) (model.User, error) {
	token := g.tokenFromRequest(r)
	if token == "" {
		return model.User{}, model.ErrTokenMissing
	}

	claims, err := g.tokens.Parse(token)
	if err != nil {
		return model.User{}, err
	}

	user, err := g.users.FindByUsername(r.Context(), claims.Username)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, fmt.Errorf("%w: unknown user %q", model.ErrForbidden, claims.Username)
	}
	if err != nil {
		return model.User{}, err
	}

	if !user.IsAdmin() {
		return model.User{}, fmt.Errorf("%w: %q has role %q", model.ErrForbidden, user.Username, user.Role)
	}

	return user, nil
}

// tokenFromRequest prefers the configured header and falls back to a
// standard "Authorization: Bearer" header.
func (g *AdminGuard) tokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(g.header)); token != "" {
		return token
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}

	return ""
}

// RequireAdmin runs the authorizer before next and hands the fresh user
// record to it through the request context.
func RequireAdmin(authorizer Authorizer, rec *metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authorizer.Authorize(r)
			if err != nil {
				status := writeGuardError(w, err)
				rec.GuardDenied(status)
				return
			}

			ctx := context.WithValue(r.Context(), authUserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(authUserContextKey).(model.User)
	return user, ok
}

func writeGuardError(w http.ResponseWriter, err error) int {
	var apiErr *apierror.APIError
	switch {
	case errors.Is(err, model.ErrTokenMissing):
		apiErr = apierror.Unauthorized("Token is missing")
	case errors.Is(err, model.ErrTokenInvalid):
		apiErr = apierror.Unauthorized("Token is invalid or expired")
	case errors.Is(err, model.ErrForbidden):
		slog.Debug("admin guard denied", "error", err.Error())
		apiErr = apierror.Forbidden("Admin privileges required")
	case errors.As(err, &apiErr):
	default:
		slog.Error("admin guard failed", "error", err.Error())
		apiErr = apierror.Internal("An internal error occurred")
	}

	writeJSONError(w, apiErr.HTTPStatus, model.ErrorResponse{
		Error: apiErr.Message,
		Code:  apiErr.Code,
	})
	return apiErr.HTTPStatus
}
