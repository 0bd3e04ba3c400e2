// Package gravatar builds default avatar URLs for new accounts.
package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

const baseURL = "https://www.gravatar.com/avatar/"

// URL returns the identicon avatar URL for email. The same address always
// yields the same URL regardless of case or surrounding spaces.
func URL(email string, size int) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))

	return fmt.Sprintf("%s%s?s=%d&r=pg&d=identicon", baseURL, hex.EncodeToString(sum[:]), size)
}
