package auth

import (
	"context"
	"contacts/internal/domain/models"
	"contacts/internal/lib/gravatar"
	"contacts/internal/lib/jwt"
	"contacts/internal/lib/logger/sl"
	"contacts/internal/storage"
	"contacts/internal/validator"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost    = 10
	identiconSize = 200
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
)

type UserSaver interface {
	SaveUser(ctx context.Context, user models.User) (models.User, error)
	SetToken(ctx context.Context, id uuid.UUID, token string) error
}

type UserProvider interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

type Auth struct {
	log               *slog.Logger
	usrSaver          UserSaver
	usrProvider       UserProvider
	secret            string
	tokenTTL          time.Duration
	minPasswordLength int
}

func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	secret string,
	tokenTTL time.Duration,
	minPasswordLength int,
) *Auth {
	return &Auth{
		log:               log,
		usrSaver:          userSaver,
		usrProvider:       userProvider,
		secret:            secret,
		tokenTTL:          tokenTTL,
		minPasswordLength: minPasswordLength,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterNewUser creates an account with a default identicon avatar.
func (a *Auth) RegisterNewUser(ctx context.Context, email string, password string) (models.User, error) {
	const op = "Auth.RegisterNewUser"

	email = normalizeEmail(email)

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("registering user")

	v := validator.New()
	validator.ValidateRegistration(v, email, password, a.minPasswordLength)
	if err := v.Err(); err != nil {
		log.Info("invalid registration input", slog.Any("errors", v.Errors))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	_, err := a.usrProvider.UserByEmail(ctx, email)
	switch {
	case err == nil:
		log.Warn("email already in use")
		return models.User{}, fmt.Errorf("%s: %w", op, ErrUserExists)
	case !errors.Is(err, storage.ErrUserNotFound):
		log.Error("failed to look up user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := a.usrSaver.SaveUser(ctx, models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Subscription: models.SubscriptionStarter,
		AvatarURL:    gravatar.URL(email, identiconSize),
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists", sl.Err(err))
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		log.Error("failed to save user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("id", user.ID.String()))

	return user, nil
}

// Login checks the credentials, issues a token and stores it as the user's
// only live session.
func (a *Auth) Login(ctx context.Context, email string, password string) (string, models.User, error) {
	const op = "Auth.Login"

	email = normalizeEmail(email)

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("attempting to login user")

	v := validator.New()
	validator.ValidateLogin(v, email, password)
	if err := v.Err(); err != nil {
		return "", models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := a.usrProvider.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))
			return "", models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))
		return "", models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))
		return "", models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := jwt.NewToken(user, a.secret, a.tokenTTL)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		return "", models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.usrSaver.SetToken(ctx, user.ID, token); err != nil {
		log.Error("failed to store token", sl.Err(err))
		return "", models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	user.Token = token

	log.Info("user logged in successfully")

	return token, user, nil
}

// Logout clears the stored session token.
func (a *Auth) Logout(ctx context.Context, userID uuid.UUID) error {
	const op = "Auth.Logout"

	if err := a.usrSaver.SetToken(ctx, userID, ""); err != nil {
		a.log.Error("failed to clear token", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Authenticate resolves a bearer token to its user. The token must verify
// and must also be the one currently stored for that user.
func (a *Auth) Authenticate(ctx context.Context, token string) (models.User, error) {
	const op = "Auth.Authenticate"

	claims, err := jwt.ValidateToken(token, a.secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
		return models.User{}, fmt.Errorf("%s: %w: %v", op, ErrTokenInvalid, err)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrTokenInvalid)
	}

	user, err := a.usrProvider.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrNotAuthorized)
		}
		a.log.Error("failed to get user", slog.String("op", op), sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if user.Token == "" || user.Token != token {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrNotAuthorized)
	}

	return user, nil
}
