package sentiment

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
)

// Fingerprint digests the case-folded concatenation of two text fields
// (headline+summary or title+body). MD5 keeps digests compatible with the
// rows already stored in sentiment.items; it is not a security boundary.
func Fingerprint(a, b string) contracts.Fingerprint {
	sum := md5.Sum([]byte(strings.ToLower(a + b)))
	return contracts.Fingerprint(hex.EncodeToString(sum[:]))
}

// Truncate cuts text to at most max runes
func Truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := 0
	for i := range text {
		if runes == max {
			return text[:i]
		}
		runes++
	}
	return text
}
