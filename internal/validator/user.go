package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidateRegistration checks sign-up credentials. Missing credentials are
// reported alone; format and length problems are reported together.
func ValidateRegistration(v *Validator, email, password string, minPasswordLength int) {
	v.Check(email != "" && password != "", "credentials", "Email and password are required")
	if !v.Valid() {
		return
	}

	v.Check(utf8.RuneCountInString(email) <= 255, "email", "Email must be less than 255 characters")
	v.Check(Matches(email, EmailRX), "email", "Invalid email format")

	v.Check(
		utf8.RuneCountInString(strings.TrimSpace(password)) >= minPasswordLength,
		"password",
		fmt.Sprintf("Password must be a string with at least %d characters", minPasswordLength),
	)
	// bcrypt ignores everything past 72 bytes
	v.Check(len(password) <= 72, "password", "Password must be at most 72 bytes long")
}

func ValidateLogin(v *Validator, email, password string) {
	v.Check(email != "", "email", "Email is required")
	if !v.Valid() {
		return
	}
	v.Check(strings.TrimSpace(password) != "", "password", "Password is required")
}
