package common

// WipeByteArray zeroes b in place. Used for secrets that should not linger
// in memory after use.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
