package postgres

import (
	"context"
	"contacts/internal/domain/models"
	"contacts/internal/storage"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const userColumns = `id, email, password_hash, token, subscription, avatar_url`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user  models.User
		token sql.NullString
		sub   string
	)

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &token, &sub, &user.AvatarURL)
	if err != nil {
		return models.User{}, err
	}

	user.Token = token.String
	user.Subscription = models.Subscription(sub)

	return user, nil
}

func (s *Storage) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	const op = "storage.postgres.SaveUser"

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Subscription == "" {
		user.Subscription = models.SubscriptionStarter
	}

	query := `INSERT INTO users (id, email, password_hash, subscription, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	saved, err := scanUser(s.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, string(user.Subscription), user.AvatarURL))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return saved, nil
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.postgres.UserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// SetToken stores the session token; an empty token clears it.
func (s *Storage) SetToken(ctx context.Context, id uuid.UUID, token string) error {
	const op = "storage.postgres.SetToken"

	query := `UPDATE users SET token = $1, updated_at = now() WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, sql.NullString{String: token, Valid: token != ""}, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return nil
}

func (s *Storage) UpdateSubscription(ctx context.Context, id uuid.UUID, sub models.Subscription) (models.User, error) {
	const op = "storage.postgres.UpdateSubscription"

	query := `UPDATE users SET subscription = $1, updated_at = now() WHERE id = $2 RETURNING ` + userColumns

	user, err := scanUser(s.db.QueryRowContext(ctx, query, string(sub), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (models.User, error) {
	const op = "storage.postgres.UpdateAvatar"

	query := `UPDATE users SET avatar_url = $1, updated_at = now() WHERE id = $2 RETURNING ` + userColumns

	user, err := scanUser(s.db.QueryRowContext(ctx, query, avatarURL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}
