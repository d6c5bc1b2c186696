package badger

import (
	"encoding/binary"

	"github.com/poiesic/chunkmatch/core"
)

// Key prefixes for different data types
const (
	vectorPrefix = "vec"
)

// makeVectorKey generates a key for a cached embedding vector by content ID.
func makeVectorKey(id core.ID) []byte {
	prefix := vectorPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// BigEndian so lexicographic sort matches numeric order
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
