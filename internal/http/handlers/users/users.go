package users

import (
	"context"
	"contacts/internal/domain/models"
	"contacts/internal/http/middleware"
	"contacts/internal/http/request"
	"contacts/internal/http/response"
	"contacts/internal/http/upload"
	"contacts/internal/lib/logger/sl"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

const msgEmptyBody = "The request body must contain at least one field"

type AuthService interface {
	RegisterNewUser(ctx context.Context, email string, password string) (models.User, error)
	Login(ctx context.Context, email string, password string) (string, models.User, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type UserService interface {
	UpdateSubscription(ctx context.Context, userID uuid.UUID, subscription string) (models.User, error)
	UpdateAvatar(ctx context.Context, user models.User, tempPath, originalName string) (models.User, error)
}

type Stager interface {
	Stage(w http.ResponseWriter, r *http.Request, field string) (*upload.File, error)
}

type Handler struct {
	log     *slog.Logger
	auth    AuthService
	users   UserService
	uploads Stager
}

func New(log *slog.Logger, auth AuthService, users UserService, uploads Stager) *Handler {
	return &Handler{
		log:     log,
		auth:    auth,
		users:   users,
		uploads: uploads,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	User models.PublicUser `json:"user"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type currentResponse struct {
	Email        string              `json:"email"`
	Subscription models.Subscription `json:"subscription"`
}

type avatarResponse struct {
	AvatarURL string `json:"avatarURL"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := request.Decode(w, r, &in, request.Options{EmptyMessage: msgEmptyBody, AllowUnknown: true}); err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	user, err := h.auth.RegisterNewUser(r.Context(), in.Email, in.Password)
	if err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	response.JSON(w, http.StatusCreated, userResponse{User: user.Public()})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := request.Decode(w, r, &in, request.Options{AllowUnknown: true}); err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	token, user, err := h.auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, loginResponse{Token: token, User: user.Public()})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if err := h.auth.Logout(r.Context(), user.ID); err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	response.JSON(w, http.StatusOK, currentResponse{
		Email:        user.Email,
		Subscription: user.Subscription,
	})
}

func (h *Handler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var in struct {
		Subscription string `json:"subscription"`
	}
	if err := request.Decode(w, r, &in, request.Options{AllowUnknown: true}); err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	updated, err := h.users.UpdateSubscription(r.Context(), user.ID, in.Subscription)
	if err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, userResponse{User: updated.Public()})
}

func (h *Handler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	file, err := h.uploads.Stage(w, r, "avatar")
	if err != nil {
		response.FromError(w, r, h.log, err)
		return
	}
	defer func() {
		if err := file.Remove(); err != nil {
			h.log.Warn("failed to remove staged upload", slog.String("path", file.Path), sl.Err(err))
		}
	}()

	updated, err := h.users.UpdateAvatar(r.Context(), user, file.Path, file.Name)
	if err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, avatarResponse{AvatarURL: updated.AvatarURL})
}
