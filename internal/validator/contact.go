package validator

import (
	"contacts/internal/domain/models"
	"strings"
)

// ValidateNewContact requires name, email and phone; favorite is optional.
func ValidateNewContact(v *Validator, f models.ContactFields) {
	v.Check(f.Name != nil, "name", `"name" is required`)
	checkName(v, f.Name)

	v.Check(f.Email != nil, "email", `"email" is required`)
	checkEmail(v, f.Email)

	v.Check(f.Phone != nil, "phone", `"phone" is required`)
	checkPhone(v, f.Phone)
}

// ValidateContactUpdate accepts any subset of fields but at least one.
func ValidateContactUpdate(v *Validator, f models.ContactFields) {
	v.Check(!f.Empty(), "value", `"value" must have at least 1 key`)

	checkName(v, f.Name)
	checkEmail(v, f.Email)
	checkPhone(v, f.Phone)
}

func checkName(v *Validator, name *string) {
	if name == nil {
		return
	}
	trimmed := strings.TrimSpace(*name)
	v.Check(trimmed != "", "name", `"name" is not allowed to be empty`)
	v.Check(len(trimmed) <= 255, "name", `"name" length must be less than or equal to 255 characters long`)
}

func checkEmail(v *Validator, email *string) {
	if email == nil {
		return
	}
	trimmed := strings.TrimSpace(*email)
	v.Check(trimmed != "", "email", `"email" is not allowed to be empty`)
	v.Check(Matches(trimmed, EmailRX), "email", `"email" must be a valid email`)
}

func checkPhone(v *Validator, phone *string) {
	if phone == nil {
		return
	}
	v.Check(strings.TrimSpace(*phone) != "", "phone", `"phone" is not allowed to be empty`)
}
