package models

import "github.com/google/uuid"

type Contact struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	Favorite bool      `json:"favorite"`
	Owner    uuid.UUID `json:"owner"`
}

// ContactFields carries the writable contact fields of a create or update
// request. Nil means the field was not sent.
type ContactFields struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
}

func (f ContactFields) Empty() bool {
	return f.Name == nil && f.Email == nil && f.Phone == nil && f.Favorite == nil
}

type ContactsFilter struct {
	Owner    uuid.UUID
	Favorite *bool
	// Limit of 0 means no limit
	Limit  int
	Offset int
}
