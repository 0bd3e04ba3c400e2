package contacts

import (
	"context"
	"contacts/internal/domain/models"
	"contacts/internal/lib/logger/sl"
	"contacts/internal/storage"
	"contacts/internal/validator"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 1000
)

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrForbidden       = errors.New("contact belongs to another user")
)

type ContactRepository interface {
	SaveContact(ctx context.Context, c models.Contact) (models.Contact, error)
	Contact(ctx context.Context, id uuid.UUID) (models.Contact, error)
	Contacts(ctx context.Context, filter models.ContactsFilter) ([]models.Contact, error)
	UpdateContact(ctx context.Context, id uuid.UUID, upd models.ContactFields) (models.Contact, error)
	DeleteContact(ctx context.Context, id uuid.UUID) (models.Contact, error)
}

type Page struct {
	Page     int
	Limit    int
	Contacts []models.Contact
}

type Contacts struct {
	log  *slog.Logger
	repo ContactRepository
}

func New(log *slog.Logger, repo ContactRepository) *Contacts {
	return &Contacts{
		log:  log,
		repo: repo,
	}
}

// NormalizePage replaces out-of-range paging values with the defaults and
// caps the limit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrContactNotFound
	}
	return parsed, nil
}

func (s *Contacts) ListContacts(ctx context.Context, owner uuid.UUID, page, limit int) (Page, error) {
	const op = "Contacts.ListContacts"

	page, limit = NormalizePage(page, limit)

	list, err := s.repo.Contacts(ctx, models.ContactsFilter{
		Owner:  owner,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		s.log.Error("failed to list contacts", slog.String("op", op), sl.Err(err))
		return Page{}, fmt.Errorf("%s: %w", op, err)
	}

	return Page{Page: page, Limit: limit, Contacts: list}, nil
}

// ListFavorite returns every contact of owner whose favorite flag equals
// favorite, without paging.
func (s *Contacts) ListFavorite(ctx context.Context, owner uuid.UUID, favorite bool) ([]models.Contact, error) {
	const op = "Contacts.ListFavorite"

	list, err := s.repo.Contacts(ctx, models.ContactsFilter{
		Owner:    owner,
		Favorite: &favorite,
	})
	if err != nil {
		s.log.Error("failed to list contacts", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}

func (s *Contacts) GetContact(ctx context.Context, id string) (models.Contact, error) {
	const op = "Contacts.GetContact"

	contactID, err := parseID(id)
	if err != nil {
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.repo.Contact(ctx, contactID)
	if err != nil {
		return models.Contact{}, s.wrap(op, err)
	}

	return c, nil
}

// CheckOwner loads the contact and reports ErrForbidden when owner does not
// own it.
func (s *Contacts) CheckOwner(ctx context.Context, id string, owner uuid.UUID) (models.Contact, error) {
	const op = "Contacts.CheckOwner"

	c, err := s.GetContact(ctx, id)
	if err != nil {
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	if c.Owner != owner {
		s.log.Warn("access to foreign contact denied",
			slog.String("op", op),
			slog.String("contactID", c.ID.String()),
			slog.String("userID", owner.String()),
		)
		return models.Contact{}, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	return c, nil
}

func (s *Contacts) CreateContact(ctx context.Context, owner uuid.UUID, fields models.ContactFields) (models.Contact, error) {
	const op = "Contacts.CreateContact"

	log := s.log.With(
		slog.String("op", op),
		slog.String("userID", owner.String()),
	)

	v := validator.New()
	validator.ValidateNewContact(v, fields)
	if err := v.Err(); err != nil {
		log.Info("invalid contact", slog.Any("errors", v.Errors))
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	c := models.Contact{
		Name:  *fields.Name,
		Email: *fields.Email,
		Phone: *fields.Phone,
		Owner: owner,
	}
	if fields.Favorite != nil {
		c.Favorite = *fields.Favorite
	}

	saved, err := s.repo.SaveContact(ctx, c)
	if err != nil {
		log.Error("failed to save contact", sl.Err(err))
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("contact created", slog.String("contactID", saved.ID.String()))

	return saved, nil
}

func (s *Contacts) UpdateContact(ctx context.Context, id string, fields models.ContactFields) (models.Contact, error) {
	const op = "Contacts.UpdateContact"

	contactID, err := parseID(id)
	if err != nil {
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	v := validator.New()
	validator.ValidateContactUpdate(v, fields)
	if err := v.Err(); err != nil {
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.repo.UpdateContact(ctx, contactID, fields)
	if err != nil {
		return models.Contact{}, s.wrap(op, err)
	}

	return c, nil
}

func (s *Contacts) UpdateFavorite(ctx context.Context, id string, favorite bool) (models.Contact, error) {
	const op = "Contacts.UpdateFavorite"

	contactID, err := parseID(id)
	if err != nil {
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.repo.UpdateContact(ctx, contactID, models.ContactFields{Favorite: &favorite})
	if err != nil {
		return models.Contact{}, s.wrap(op, err)
	}

	return c, nil
}

func (s *Contacts) DeleteContact(ctx context.Context, id string) (models.Contact, error) {
	const op = "Contacts.DeleteContact"

	contactID, err := parseID(id)
	if err != nil {
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.repo.DeleteContact(ctx, contactID)
	if err != nil {
		return models.Contact{}, s.wrap(op, err)
	}

	s.log.Info("contact deleted", slog.String("op", op), slog.String("contactID", c.ID.String()))

	return c, nil
}

func (s *Contacts) wrap(op string, err error) error {
	if errors.Is(err, storage.ErrContactNotFound) {
		return fmt.Errorf("%s: %w", op, ErrContactNotFound)
	}
	s.log.Error("contact store failed", slog.String("op", op), sl.Err(err))
	return fmt.Errorf("%s: %w", op, err)
}
