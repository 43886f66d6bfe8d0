package shared

import (
	"strings"

	"github.com/google/uuid"
)

// NewReference returns prefix-XXXX where XXXX is the first n upper-case hex
// characters of a random UUID.
func NewReference(prefix string, n int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n <= 0 || n > len(hex) {
		n = len(hex)
	}
	return prefix + "-" + strings.ToUpper(hex[:n])
}
