package middleware

import (
	"context"
	"contacts/internal/domain/models"
	"contacts/internal/http/response"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ctxKey int

const (
	userKey ctxKey = iota
	contactKey
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

type OwnerChecker interface {
	CheckOwner(ctx context.Context, id string, owner uuid.UUID) (models.Contact, error)
}

// Authenticate resolves the bearer token to a user and stores it in the
// request context. Any failure ends the request with 401.
func Authenticate(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.Error(w, http.StatusUnauthorized, response.MsgNotAuthorized)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				log.Debug("authentication failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
				response.FromError(w, r, log, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserFromContext returns the user attached by Authenticate.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

// RequireContactOwner lets the request through only when the authenticated
// user owns the contact named by the {id} route parameter. It must run after
// Authenticate.
func RequireContactOwner(checker OwnerChecker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				response.Error(w, http.StatusUnauthorized, response.MsgNotAuthorized)
				return
			}

			contact, err := checker.CheckOwner(r.Context(), chi.URLParam(r, "id"), user.ID)
			if err != nil {
				response.FromError(w, r, log, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contactKey, contact)))
		})
	}
}

// ContactFromContext returns the contact loaded by RequireContactOwner.
func ContactFromContext(ctx context.Context) (models.Contact, bool) {
	contact, ok := ctx.Value(contactKey).(models.Contact)
	return contact, ok
}
