package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/yukikurage/okr-dashboard/internal/constants"
)

// GeneratePassword returns a random URL-safe initial password for accounts
// created by an administrator.
func GeneratePassword() (string, error) {
	bytes := make([]byte, constants.GeneratedPasswordBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
