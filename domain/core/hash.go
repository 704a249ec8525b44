package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters for log lines
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// ComputeConfigHash fingerprints a flat key/value configuration map
func ComputeConfigHash(settings map[string]interface{}) Hash {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	for _, key := range keys {
		data.WriteString(key)
		data.WriteString("=")
		data.WriteString(fmt.Sprintf("%v", settings[key]))
		data.WriteString(";")
	}

	return NewHash([]byte(data.String()))
}

// ComputeVectorHash fingerprints labelled float vectors. Bits are hashed
// so NaN entries fingerprint deterministically.
func ComputeVectorHash(labels []string, vectors [][]float64) Hash {
	var data strings.Builder
	for i, label := range labels {
		data.WriteString(label)
		data.WriteString(":")
		if i < len(vectors) {
			for _, v := range vectors[i] {
				data.WriteString(fmt.Sprintf("%016x,", math.Float64bits(v)))
			}
		}
		data.WriteString("\n")
	}
	return NewHash([]byte(data.String()))
}
