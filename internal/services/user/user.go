package user

import (
	"bytes"
	"context"
	"contacts/internal/domain/models"
	"contacts/internal/lib/imaging"
	"contacts/internal/lib/logger/sl"
	"contacts/internal/storage"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const avatarSize = 250

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidSubscription = errors.New("invalid subscription value")
	ErrInvalidImage        = errors.New("invalid image")
)

type UserRepository interface {
	UpdateSubscription(ctx context.Context, id uuid.UUID, sub models.Subscription) (models.User, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (models.User, error)
}

type AvatarStore interface {
	Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error)
	Remove(ctx context.Context, url string) error
}

type User struct {
	log      *slog.Logger
	userRepo UserRepository
	avatars  AvatarStore
}

func New(log *slog.Logger, userRepo UserRepository, avatars AvatarStore) *User {
	return &User{
		log:      log,
		userRepo: userRepo,
		avatars:  avatars,
	}
}

func (u *User) UpdateSubscription(ctx context.Context, userID uuid.UUID, subscription string) (models.User, error) {
	const op = "User.UpdateSubscription"

	log := u.log.With(
		slog.String("op", op),
		slog.String("userID", userID.String()),
		slog.String("subscription", subscription),
	)

	sub := models.Subscription(subscription)
	if !sub.Valid() {
		log.Info("rejected subscription value")
		return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidSubscription)
	}

	user, err := u.userRepo.UpdateSubscription(ctx, userID, sub)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		log.Error("failed to update subscription", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("subscription updated")

	return user, nil
}

// UpdateAvatar resizes the staged upload at tempPath, stores it as
// <userID>_<originalName> and points the user's avatar URL at it.
func (u *User) UpdateAvatar(ctx context.Context, user models.User, tempPath, originalName string) (models.User, error) {
	const op = "User.UpdateAvatar"

	log := u.log.With(
		slog.String("op", op),
		slog.String("userID", user.ID.String()),
	)

	f, err := os.Open(tempPath)
	if err != nil {
		log.Error("failed to open upload", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	img, err := imaging.Resize(f, avatarSize, avatarSize)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedImage) {
			log.Info("upload is not a decodable image", sl.Err(err))
			return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidImage)
		}
		log.Error("failed to resize avatar", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	name := AvatarName(user.ID, originalName, img.Ext)

	url, err := u.avatars.Save(ctx, name, bytes.NewReader(img.Data), img.ContentType)
	if err != nil {
		log.Error("failed to store avatar", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := u.userRepo.UpdateAvatar(ctx, user.ID, url)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		log.Error("failed to update avatar url", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if user.AvatarURL != "" && user.AvatarURL != url {
		if err := u.avatars.Remove(ctx, user.AvatarURL); err != nil {
			log.Warn("failed to remove previous avatar", sl.Err(err))
		}
	}

	log.Info("avatar updated", slog.String("avatarURL", url))

	return updated, nil
}

// AvatarName builds the stored file name. The extension follows the encoded
// format, so a webp upload named face.webp is stored as <id>_face.png.
func AvatarName(userID uuid.UUID, originalName, ext string) string {
	base := filepath.Base(filepath.Clean("/" + originalName))
	if base == "/" || base == "." {
		base = "avatar"
	}

	origExt := strings.ToLower(filepath.Ext(base))
	if origExt == ext || (ext == ".jpg" && origExt == ".jpeg") {
		return userID.String() + "_" + base
	}

	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return userID.String() + "_" + stem + ext
}
