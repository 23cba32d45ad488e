package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	// md5("") well-known digest
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", string(Fingerprint("", "")))

	a := Fingerprint("Nvidia Beats Estimates", "Revenue up 40%")
	b := Fingerprint("nvidia beats estimates", "REVENUE UP 40%")
	assert.Equal(t, a, b, "fingerprint must be case-insensitive")
	assert.Len(t, string(a), 32)

	assert.NotEqual(t, a, Fingerprint("Nvidia misses estimates", "Revenue up 40%"))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 5, "hello"},
		{"runes", "héllo wörld", 7, "héllo w"},
		{"disabled", "hello", 0, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.max))
		})
	}
}
