package contacts

import (
	"context"
	"contacts/internal/domain/models"
	"contacts/internal/http/middleware"
	"contacts/internal/http/request"
	"contacts/internal/http/response"
	contactsvc "contacts/internal/services/contacts"
	"contacts/internal/validator"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	msgEmptyBody       = "Body must have at least one field"
	msgInvalidFavorite = "Invalid favorite value"
)

type ContactService interface {
	ListContacts(ctx context.Context, owner uuid.UUID, page, limit int) (contactsvc.Page, error)
	ListFavorite(ctx context.Context, owner uuid.UUID, favorite bool) ([]models.Contact, error)
	GetContact(ctx context.Context, id string) (models.Contact, error)
	CreateContact(ctx context.Context, owner uuid.UUID, fields models.ContactFields) (models.Contact, error)
	UpdateContact(ctx context.Context, id string, fields models.ContactFields) (models.Contact, error)
	UpdateFavorite(ctx context.Context, id string, favorite bool) (models.Contact, error)
	DeleteContact(ctx context.Context, id string) (models.Contact, error)
}

type Handler struct {
	log      *slog.Logger
	contacts ContactService
}

func New(log *slog.Logger, contacts ContactService) *Handler {
	return &Handler{
		log:      log,
		contacts: contacts,
	}
}

type listResponse struct {
	Page          int              `json:"page"`
	Limit         int              `json:"limit"`
	TotalContacts int              `json:"totalContacts"`
	Contacts      []models.Contact `json:"contacts"`
}

// List returns a page of the caller's contacts, or with ?favorite= the
// matching subset as a plain array.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	q := r.URL.Query()

	if fav := q.Get("favorite"); fav != "" {
		favorite, err := parseFavorite(fav)
		if err != nil {
			response.FromError(w, r, h.log, err)
			return
		}

		list, err := h.contacts.ListFavorite(r.Context(), user.ID, favorite)
		if err != nil {
			response.FromError(w, r, h.log, err)
			return
		}

		response.JSON(w, http.StatusOK, list)
		return
	}

	// non-numeric values fall back to the defaults
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.contacts.ListContacts(r.Context(), user.ID, page, limit)
	if err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, listResponse{
		Page:          result.Page,
		Limit:         result.Limit,
		TotalContacts: len(result.Contacts),
		Contacts:      result.Contacts,
	})
}

func parseFavorite(v string) (bool, error) {
	switch v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, validator.Single("favorite", msgInvalidFavorite)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	// already loaded when the ownership guard ran
	if c, ok := middleware.ContactFromContext(r.Context()); ok {
		response.JSON(w, http.StatusOK, c)
		return
	}

	c, err := h.contacts.GetContact(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, c)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var in models.ContactFields
	if err := request.Decode(w, r, &in, request.Options{}); err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	c, err := h.contacts.CreateContact(r.Context(), user.ID, in)
	if err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	response.JSON(w, http.StatusCreated, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.ContactFields
	if err := request.Decode(w, r, &in, request.Options{EmptyMessage: msgEmptyBody}); err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	c, err := h.contacts.UpdateContact(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateFavorite(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Favorite *bool `json:"favorite"`
	}
	if err := request.Decode(w, r, &in, request.Options{}); err != nil {
		response.FromError(w, r, h.log, err)
		return
	}
	if in.Favorite == nil {
		response.FromError(w, r, h.log, validator.Single("favorite", `"favorite" is required`))
		return
	}

	c, err := h.contacts.UpdateFavorite(r.Context(), chi.URLParam(r, "id"), *in.Favorite)
	if err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	c, err := h.contacts.DeleteContact(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, r, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, c)
}
