package auth

import (
	"context"
	"contacts/internal/domain/models"
	"contacts/internal/lib/jwt"
	"contacts/internal/storage"
	"contacts/internal/validator"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeUsers struct {
	byID map[uuid.UUID]models.User
	// forces SaveUser to report a unique violation
	raceOnSave bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uuid.UUID]models.User{}}
}

func (f *fakeUsers) SaveUser(_ context.Context, user models.User) (models.User, error) {
	if f.raceOnSave {
		return models.User{}, storage.ErrUserExists
	}
	for _, u := range f.byID {
		if u.Email == user.Email {
			return models.User{}, storage.ErrUserExists
		}
	}
	user.ID = uuid.New()
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUsers) SetToken(_ context.Context, id uuid.UUID, token string) error {
	u, ok := f.byID[id]
	if !ok {
		return storage.ErrUserNotFound
	}
	u.Token = token
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) UserByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, storage.ErrUserNotFound
}

func (f *fakeUsers) UserByID(_ context.Context, id uuid.UUID) (models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}
	return u, nil
}

func newAuth(users *fakeUsers) *Auth {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, users, users, testSecret, time.Hour, 6)
}

func randomPassword() string {
	return gofakeit.Password(true, true, true, false, false, 12)
}

func TestRegisterNewUser(t *testing.T) {
	users := newFakeUsers()
	a := newAuth(users)

	email := gofakeit.Email()
	user, err := a.RegisterNewUser(context.Background(), "  "+strings.ToUpper(email)+" ", randomPassword())
	require.NoError(t, err)

	assert.Equal(t, strings.ToLower(email), user.Email)
	assert.Equal(t, models.SubscriptionStarter, user.Subscription)
	assert.Contains(t, user.AvatarURL, "https://www.gravatar.com/avatar/")
	assert.Contains(t, user.AvatarURL, "d=identicon")
	assert.NotEmpty(t, user.PasswordHash)
	assert.Empty(t, user.Token)
}

func TestRegisterNewUser_DuplicateCaseInsensitive(t *testing.T) {
	users := newFakeUsers()
	a := newAuth(users)

	_, err := a.RegisterNewUser(context.Background(), "Ann@Example.com", randomPassword())
	require.NoError(t, err)

	_, err = a.RegisterNewUser(context.Background(), "ann@example.COM", randomPassword())
	require.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterNewUser_UniqueIndexRace(t *testing.T) {
	users := newFakeUsers()
	users.raceOnSave = true
	a := newAuth(users)

	_, err := a.RegisterNewUser(context.Background(), gofakeit.Email(), randomPassword())
	require.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterNewUser_Validation(t *testing.T) {
	a := newAuth(newFakeUsers())

	tests := []struct {
		name     string
		email    string
		password string
		want     string
	}{
		{"missing password", gofakeit.Email(), "", "Email and password are required"},
		{"missing email", "", "secret123", "Email and password are required"},
		{"bad email", "not-an-email", "secret123", "Invalid email format"},
		{"short password", gofakeit.Email(), "  abc  ", "Password must be a string with at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.RegisterNewUser(context.Background(), tt.email, tt.password)

			var verr *validator.Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Error())
		})
	}
}

func TestLogin(t *testing.T) {
	users := newFakeUsers()
	a := newAuth(users)

	email, password := gofakeit.Email(), randomPassword()
	registered, err := a.RegisterNewUser(context.Background(), email, password)
	require.NoError(t, err)

	token, user, err := a.Login(context.Background(), email, password)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, token, users.byID[user.ID].Token)

	claims, err := jwt.ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
}

func TestLogin_WrongCredentials(t *testing.T) {
	a := newAuth(newFakeUsers())

	email, password := gofakeit.Email(), randomPassword()
	_, err := a.RegisterNewUser(context.Background(), email, password)
	require.NoError(t, err)

	_, _, err = a.Login(context.Background(), email, password+"x")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = a.Login(context.Background(), gofakeit.Email(), password)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_Validation(t *testing.T) {
	a := newAuth(newFakeUsers())

	_, _, err := a.Login(context.Background(), "", "x")
	var verr *validator.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Email is required", verr.Error())

	_, _, err = a.Login(context.Background(), gofakeit.Email(), "   ")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Password is required", verr.Error())
}

func TestAuthenticate_LogoutInvalidatesToken(t *testing.T) {
	users := newFakeUsers()
	a := newAuth(users)

	email, password := gofakeit.Email(), randomPassword()
	_, err := a.RegisterNewUser(context.Background(), email, password)
	require.NoError(t, err)

	token, user, err := a.Login(context.Background(), email, password)
	require.NoError(t, err)

	got, err := a.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	require.NoError(t, a.Logout(context.Background(), user.ID))

	_, err = a.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestAuthenticate_SecondLoginReplacesSession(t *testing.T) {
	users := newFakeUsers()
	a := newAuth(users)

	email, password := gofakeit.Email(), randomPassword()
	_, err := a.RegisterNewUser(context.Background(), email, password)
	require.NoError(t, err)

	first, _, err := a.Login(context.Background(), email, password)
	require.NoError(t, err)
	second, _, err := a.Login(context.Background(), email, password)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = a.Authenticate(context.Background(), first)
	require.ErrorIs(t, err, ErrNotAuthorized)

	_, err = a.Authenticate(context.Background(), second)
	require.NoError(t, err)
}

func TestAuthenticate_TokenErrors(t *testing.T) {
	users := newFakeUsers()
	a := newAuth(users)

	user, err := users.SaveUser(context.Background(), models.User{Email: gofakeit.Email()})
	require.NoError(t, err)

	expired, err := jwt.NewToken(user, testSecret, -time.Minute)
	require.NoError(t, err)
	require.NoError(t, users.SetToken(context.Background(), user.ID, expired))

	_, err = a.Authenticate(context.Background(), expired)
	require.ErrorIs(t, err, ErrTokenExpired)

	_, err = a.Authenticate(context.Background(), "garbage")
	require.ErrorIs(t, err, ErrTokenInvalid)

	foreign, err := jwt.NewToken(models.User{ID: uuid.New()}, testSecret, time.Hour)
	require.NoError(t, err)
	_, err = a.Authenticate(context.Background(), foreign)
	require.ErrorIs(t, err, ErrNotAuthorized)
}
