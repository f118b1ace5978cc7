package badger

import (
	"encoding/binary"

	"github.com/poiesic/finsight/core"
)

// Key prefix for indexed entries. Keys take the form
// finent:<tenantID>:<8-byte big-endian entry ID>, so a tenant prefix scan
// can never cross into another tenant's keyspace. Tenant IDs are validated
// upstream to exclude the ':' separator.
const entryPrefix = "finent"

// makeTenantPrefix generates the key prefix covering all of a tenant's entries.
func makeTenantPrefix(tenantID string) []byte {
	prefix := entryPrefix + ":" + tenantID + ":"
	return []byte(prefix)
}

// makeEntryKey generates the key for a single entry.
// Format: finent:tenantID:id
func makeEntryKey(tenantID string, id core.ID) []byte {
	prefixBytes := makeTenantPrefix(tenantID)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
