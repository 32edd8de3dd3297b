// Package ids generates the string identifiers used across collections.
package ids

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const suffixLength = 9

var base36 = []byte("0123456789abcdefghijklmnopqrstuvwxyz")

// New returns a prefixed identifier built from a base-36 encoding of
// the current timestamp plus a random base-36 suffix, e.g.
// "pres_m1x2abc_k3f9q0z1d". Unique enough for single-instance use;
// session ids use NewSession instead, which is collision-resistant.
func New(prefix string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return prefix + "_" + ts + "_" + randomSuffix(suffixLength)
}

// NewSession returns a collision-resistant session identifier.
func NewSession() string {
	return "session_" + uuid.NewString()
}

func randomSuffix(n int) string {
	max := big.NewInt(int64(len(base36)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform is broken;
			// fall back to a timestamp-derived byte.
			buf[i] = base36[time.Now().UnixNano()%int64(len(base36))]
			continue
		}
		buf[i] = base36[idx.Int64()]
	}
	return string(buf)
}
