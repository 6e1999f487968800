// Package ulid generates and parses ULIDs, the identifiers the chat service
// uses for users, channels, messages and nonces.
package ulid

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"sync"
	"time"
)

// EncodedLen is the length of the canonical Crockford base32 form.
const EncodedLen = 26

const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	ErrBadLength = errors.New("ulid: bad length")
	ErrBadChar   = errors.New("ulid: invalid character")
	ErrOverflow  = errors.New("ulid: value overflows 128 bits")
)

// ID is a 128-bit ULID.
//
// Layout (Crockford ULID spec):
//
//	[0-5]   48-bit Unix millisecond timestamp (big-endian)
//	[6-15]  80-bit random, monotonically incrementing within same ms
type ID [16]byte

// Gen generates monotonic ULIDs. Safe for concurrent use.
type Gen struct {
	mu   sync.Mutex
	last ID
}

// NewGen creates a new ULID generator.
func NewGen() *Gen {
	return &Gen{}
}

// Next returns a new ID, strictly greater than the previous one.
func (g *Gen) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := uint64(time.Now().UnixMilli())

	var id ID
	id[0] = byte(now >> 40)
	id[1] = byte(now >> 32)
	id[2] = byte(now >> 24)
	id[3] = byte(now >> 16)
	id[4] = byte(now >> 8)
	id[5] = byte(now)

	if [6]byte(id[:6]) == [6]byte(g.last[:6]) {
		// Same millisecond: increment the random part of the previous ID.
		copy(id[6:], g.last[6:])
		for i := 15; i >= 6; i-- {
			id[i]++
			if id[i] != 0 {
				break
			}
		}
	} else {
		rand.Read(id[6:])
	}

	g.last = id
	return id
}

// String returns the canonical 26-character form.
func (id ID) String() string {
	hi := binary.BigEndian.Uint64(id[:8])
	lo := binary.BigEndian.Uint64(id[8:])

	var out [EncodedLen]byte
	for i := EncodedLen - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}

// Time extracts the millisecond timestamp.
func (id ID) Time() time.Time {
	ms := uint64(id[0])<<40 | uint64(id[1])<<32 | uint64(id[2])<<24 |
		uint64(id[3])<<16 | uint64(id[4])<<8 | uint64(id[5])
	return time.UnixMilli(int64(ms))
}

// Parse decodes the canonical form. Lowercase letters are accepted.
func Parse(s string) (ID, error) {
	if len(s) != EncodedLen {
		return ID{}, ErrBadLength
	}
	var hi, lo uint64
	for i := 0; i < EncodedLen; i++ {
		v := decodeChar(s[i])
		if v < 0 {
			return ID{}, ErrBadChar
		}
		if i == 0 && v > 7 {
			return ID{}, ErrOverflow
		}
		hi = hi<<5 | lo>>59
		lo = lo<<5 | uint64(v)
	}
	var id ID
	binary.BigEndian.PutUint64(id[:8], hi)
	binary.BigEndian.PutUint64(id[8:], lo)
	return id, nil
}

// Timestamp parses s and returns its creation time.
func Timestamp(s string) (time.Time, error) {
	id, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return id.Time(), nil
}

// Uint64 returns the first 8 bytes for comparison/sorting.
func (id ID) Uint64() uint64 {
	return binary.BigEndian.Uint64(id[:8])
}

func decodeChar(c byte) int {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	for i := 0; i < len(alphabet); i++ {
		if alphabet[i] == c {
			return i
		}
	}
	return -1
}
