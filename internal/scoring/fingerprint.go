package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint returns the content hash of a submission: SHA-256 over the
// proposal type and the whitespace-trimmed text. Identical (type, text)
// pairs always hash identically, which is what makes resubmission
// deduplication possible.
func Fingerprint(proposalType, text string) string {
	sum := sha256.Sum256([]byte(proposalType + "::" + strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}
