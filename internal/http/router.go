package http

import (
	"context"
	"contacts/internal/config"
	contacthandlers "contacts/internal/http/handlers/contacts"
	userhandlers "contacts/internal/http/handlers/users"
	"contacts/internal/http/middleware"
	"contacts/internal/http/response"
	"contacts/internal/http/swagger"
	"contacts/internal/lib/logger/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type AuthService interface {
	middleware.Authenticator
	userhandlers.AuthService
}

type ContactService interface {
	middleware.OwnerChecker
	contacthandlers.ContactService
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	// ContactReadPolicy is config.ReadPolicyOwner or
	// config.ReadPolicyAuthenticated.
	ContactReadPolicy string
	// AvatarDir is served under /avatars/ when set.
	AvatarDir string
}

type Services struct {
	Auth     AuthService
	Users    userhandlers.UserService
	Contacts ContactService
	Uploads  userhandlers.Stager
	DB       Pinger
}

func NewRouter(log *slog.Logger, cfg RouterConfig, svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.CORS)

	notFound := func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, response.MsgNotFound)
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/healthz", healthz(log, svc.DB))
	swagger.Mount(r)

	if cfg.AvatarDir != "" {
		r.Handle("/avatars/*", http.StripPrefix("/avatars/", http.FileServer(http.Dir(cfg.AvatarDir))))
	}

	authenticate := middleware.Authenticate(svc.Auth, log)
	owner := middleware.RequireContactOwner(svc.Contacts, log)

	uh := userhandlers.New(log, svc.Auth, svc.Users, svc.Uploads)
	r.Route("/users", func(r chi.Router) {
		r.Post("/register", uh.Register)
		r.Post("/login", uh.Login)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/logout", uh.Logout)
			r.Get("/current", uh.Current)
			r.Patch("/", uh.UpdateSubscription)
			r.Patch("/avatars", uh.UpdateAvatar)
		})
	})

	ch := contacthandlers.New(log, svc.Contacts)
	r.Route("/api/contacts", func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/", ch.List)
		r.Post("/", ch.Create)

		if cfg.ContactReadPolicy == config.ReadPolicyAuthenticated {
			r.Get("/{id}", ch.Get)
		} else {
			r.With(owner).Get("/{id}", ch.Get)
		}

		r.With(owner).Put("/{id}", ch.Update)
		r.With(owner).Delete("/{id}", ch.Delete)
		r.With(owner).Patch("/{id}/favorite", ch.UpdateFavorite)
	})

	return r
}

func healthz(log *slog.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				log.Error("health check failed", sl.Err(err))
				response.Error(w, http.StatusServiceUnavailable, "Database unavailable")
				return
			}
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
