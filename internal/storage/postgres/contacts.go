package postgres

import (
	"context"
	"contacts/internal/domain/models"
	"contacts/internal/storage"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const contactColumns = `id, name, email, phone, favorite, owner`

func scanContact(row rowScanner) (models.Contact, error) {
	var c models.Contact
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Favorite, &c.Owner)
	return c, err
}

func (s *Storage) SaveContact(ctx context.Context, c models.Contact) (models.Contact, error) {
	const op = "storage.postgres.SaveContact"

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	query := `INSERT INTO contacts (id, name, email, phone, favorite, owner)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + contactColumns

	saved, err := scanContact(s.db.QueryRowContext(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.Favorite, c.Owner))
	if err != nil {
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	return saved, nil
}

func (s *Storage) Contact(ctx context.Context, id uuid.UUID) (models.Contact, error) {
	const op = "storage.postgres.Contact"

	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	c, err := scanContact(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contact{}, fmt.Errorf("%s: %w", op, storage.ErrContactNotFound)
		}
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

// Contacts lists the owner's contacts in creation order.
func (s *Storage) Contacts(ctx context.Context, filter models.ContactsFilter) ([]models.Contact, error) {
	const op = "storage.postgres.Contacts"

	where := []string{"owner = $1"}
	args := []any{filter.Owner}

	if filter.Favorite != nil {
		args = append(args, *filter.Favorite)
		where = append(where, fmt.Sprintf("favorite = $%d", len(args)))
	}

	query := `SELECT ` + contactColumns + ` FROM contacts WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at, id`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	contacts := make([]models.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return contacts, nil
}

// UpdateContact writes only the fields present in upd.
func (s *Storage) UpdateContact(ctx context.Context, id uuid.UUID, upd models.ContactFields) (models.Contact, error) {
	const op = "storage.postgres.UpdateContact"

	var setParts []string
	var args []any

	if upd.Name != nil {
		args = append(args, *upd.Name)
		setParts = append(setParts, fmt.Sprintf("name = $%d", len(args)))
	}
	if upd.Email != nil {
		args = append(args, *upd.Email)
		setParts = append(setParts, fmt.Sprintf("email = $%d", len(args)))
	}
	if upd.Phone != nil {
		args = append(args, *upd.Phone)
		setParts = append(setParts, fmt.Sprintf("phone = $%d", len(args)))
	}
	if upd.Favorite != nil {
		args = append(args, *upd.Favorite)
		setParts = append(setParts, fmt.Sprintf("favorite = $%d", len(args)))
	}

	if len(setParts) == 0 {
		return s.Contact(ctx, id)
	}

	setParts = append(setParts, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE contacts SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setParts, ", "), len(args), contactColumns)

	c, err := scanContact(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contact{}, fmt.Errorf("%s: %w", op, storage.ErrContactNotFound)
		}
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

// DeleteContact removes the contact and returns the deleted record.
func (s *Storage) DeleteContact(ctx context.Context, id uuid.UUID) (models.Contact, error) {
	const op = "storage.postgres.DeleteContact"

	query := `DELETE FROM contacts WHERE id = $1 RETURNING ` + contactColumns

	c, err := scanContact(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contact{}, fmt.Errorf("%s: %w", op, storage.ErrContactNotFound)
		}
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}
