// Package response writes JSON bodies and maps service errors to HTTP
// status codes.
package response

import (
	"contacts/internal/http/upload"
	"contacts/internal/lib/logger/sl"
	"contacts/internal/services/auth"
	"contacts/internal/services/contacts"
	"contacts/internal/services/user"
	"contacts/internal/validator"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

const (
	MsgNotFound       = "Not found"
	MsgNotAuthorized  = "Not authorized"
	MsgInternal       = "Internal Server Error"
	MsgForbidden      = "Forbidden: You don't have permission to access this contact"
	MsgEmailInUse     = "Email is already in use"
	MsgWrongPassword  = "Email or password is wrong"
	MsgTokenExpired   = "Token expired"
	MsgInvalidToken   = "Invalid token"
	MsgInvalidSub     = "Invalid subscription value"
	MsgInvalidImage   = "Invalid image"
	MsgAvatarNotFound = "Avatar not found"
	MsgFileTooLarge   = "File too large"
)

type Message struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Message{Message: message})
}

// FromError writes the status and message matching err. Errors with no
// mapping become 500 and are logged.
func FromError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var (
		verr   *validator.Error
		extErr *upload.ExtensionError
	)

	switch {
	case errors.As(err, &verr):
		Error(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &extErr):
		Error(w, http.StatusBadRequest, fmt.Sprintf("%s file type not allowed", extErr.Ext))
	case errors.Is(err, upload.ErrNoFile):
		Error(w, http.StatusBadRequest, MsgAvatarNotFound)
	case errors.Is(err, upload.ErrTooLarge):
		Error(w, http.StatusRequestEntityTooLarge, MsgFileTooLarge)
	case errors.Is(err, auth.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, MsgWrongPassword)
	case errors.Is(err, auth.ErrUserExists):
		Error(w, http.StatusConflict, MsgEmailInUse)
	case errors.Is(err, auth.ErrTokenExpired):
		Error(w, http.StatusUnauthorized, MsgTokenExpired)
	case errors.Is(err, auth.ErrTokenInvalid):
		Error(w, http.StatusUnauthorized, MsgInvalidToken)
	case errors.Is(err, auth.ErrNotAuthorized), errors.Is(err, user.ErrUserNotFound):
		Error(w, http.StatusUnauthorized, MsgNotAuthorized)
	case errors.Is(err, user.ErrInvalidSubscription):
		Error(w, http.StatusBadRequest, MsgInvalidSub)
	case errors.Is(err, user.ErrInvalidImage):
		Error(w, http.StatusBadRequest, MsgInvalidImage)
	case errors.Is(err, contacts.ErrContactNotFound):
		Error(w, http.StatusNotFound, MsgNotFound)
	case errors.Is(err, contacts.ErrForbidden):
		Error(w, http.StatusForbidden, MsgForbidden)
	default:
		log.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			sl.Err(err),
		)
		Error(w, http.StatusInternalServerError, MsgInternal)
	}
}
