package identifier

// Tenant and group identifiers are stored in bounded-length ASCII columns.
// A malformed identifier is a fatal request error, never retried.

const MaxLen = 256

// Valid reports whether s fits the identifier column format: non-empty
// printable ASCII of at most MaxLen bytes.
func Valid(s string) bool {
	if len(s) == 0 || len(s) > MaxLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
