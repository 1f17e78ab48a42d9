package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/matzehuels/taskorder/pkg/schedule"
)

// keyVersion is bumped whenever the ordering rules or the key encoding
// change, invalidating previously cached orders.
const keyVersion = "v2"

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ScheduleKey returns the cache key for resolving tasks. Only titles and
// dependency lists contribute, in input order, because both affect the
// result. A nil dependency list hashes the same as an empty one.
//
// Strings are hashed as raw length-prefixed bytes, so titles that are not
// valid UTF-8 never collide with their replacement-character spelling.
func ScheduleKey(tasks []schedule.Task) string {
	buf := binary.AppendUvarint(nil, uint64(len(tasks)))
	for _, t := range tasks {
		buf = appendString(buf, t.Title)
		buf = binary.AppendUvarint(buf, uint64(len(t.Dependencies)))
		for _, d := range t.Dependencies {
			buf = appendString(buf, d)
		}
	}
	return "schedule:" + keyVersion + ":" + Hash(buf)
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}
