package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// HashIdentity returns a hex BLAKE2b-256 digest of a client identity, keyed by
// salt when one is given. Quota stores only ever see the digest.
func HashIdentity(identity string, salt []byte) string {
	if len(salt) > blake2b.Size {
		sum := blake2b.Sum256(salt)
		salt = sum[:]
	}

	h, err := blake2b.New256(salt)
	if err != nil {
		// Only reachable for keys longer than 64 bytes, which are folded above.
		sum := blake2b.Sum256([]byte(identity))
		return hex.EncodeToString(sum[:])
	}
	h.Write([]byte(identity))
	return hex.EncodeToString(h.Sum(nil))
}
