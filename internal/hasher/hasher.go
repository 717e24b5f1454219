// Package hasher computes content hashes used as rendition backing
// handles and manifest integrity values.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// HandleLen is the hex length of a rendition handle: 16 chars (64 bits)
// is collision-safe for practical rendition counts.
const HandleLen = 16

// Sum computes the xxHash64 of data as a hex string truncated to hexLen
// characters (0 keeps the full 16).
func Sum(data []byte, hexLen int) string {
	return truncate(encode(xxhash.Sum64(data)), hexLen)
}

// SumReader computes the xxHash64 of a stream.
func SumReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return truncate(encode(h.Sum64()), hexLen), nil
}

// SumFile computes the xxHash64 of a file's contents, streaming.
func SumFile(path string, hexLen int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return SumReader(f, hexLen)
}

func encode(v uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return hex.EncodeToString(b[:])
}

func truncate(s string, hexLen int) string {
	if hexLen > 0 && hexLen < len(s) {
		return s[:hexLen]
	}
	return s
}
