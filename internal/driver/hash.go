package driver

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - 256-битный хеш, совместим с source.File.Hash.
type Digest [32]byte

// combineDigest: H(d0 || d1 || ...). Порядок должен быть детерминированным.
func combineDigest(parts ...Digest) Digest {
	h := sha256.New()
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func hashString(s string) Digest {
	return sha256.Sum256([]byte(s))
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
