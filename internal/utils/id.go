package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateID returns an identifier in the form <prefix>_xxxxxxxx.
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, ShortID())
}

// ShortID returns 8 random hex characters.
func ShortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
