package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - фиксированный 256-битный хеш.
type Digest [32]byte

// Sum hashes data.
func Sum(data []byte) Digest { return sha256.Sum256(data) }

// Combine строит составной хеш: H(part1 || part2 ...). Каждая часть
// предваряется длиной, чтобы ("ab","c") и ("a","bc") не совпадали.
func Combine(parts ...[]byte) Digest {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		l := uint64(len(p))
		for i := range n {
			n[i] = byte(l >> (8 * i))
		}
		_, _ = h.Write(n[:])
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) IsZero() bool { return d == Digest{} }

func (d Digest) String() string { return hex.EncodeToString(d[:]) }
