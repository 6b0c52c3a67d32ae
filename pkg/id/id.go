// Package id generates run identifiers. ULIDs sort lexicographically
// by creation time, so run IDs double as a chronological index in both
// SQLite and CSV output.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy io.Reader
)

func init() {
	// ulid.Monotonic keeps IDs minted in the same millisecond strictly
	// increasing. The PRNG is seeded from crypto/rand once at startup.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	entropy = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// NewRunID returns a fresh time-sortable identifier for one backtest
// run. Safe for concurrent use.
func NewRunID() string {
	mu.Lock()
	defer mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(time.Now().UTC()), entropy)
	if err != nil {
		// Only possible if the entropy source fails.
		panic(err)
	}
	return u.String()
}
