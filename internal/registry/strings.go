package registry

import (
	"hash/crc32"
	"sync"
)

// StringTable holds the optional CRC32->string mapping ("compressed
// strings") described in §6: diagnostic strings decompressed on demand by a
// small bootstrap wire, defaulting to empty when the table has not been
// loaded. A secondary xxhash-keyed index lets repeated Intern calls for
// identical raw bytes short-circuit the CRC32 computation -- CRC32 remains
// the documented lookup key (Lookup), xxhash is purely an
// internal dedup accelerator (see fastKeyHash in registry.go).
type StringTable struct {
	mu deferredRW

	entries map[uint32]string   // CRC32(original) -> decompressed string
	dedup   map[uint64]uint32   // xxhash(raw) -> CRC32 already interned
	loaded  bool
}

// deferredRW is a thin sync.RWMutex alias kept as a named type so call sites
// read as intent ("table-wide lock") rather than a bare mutex.
type deferredRW struct{ sync.RWMutex }

func NewStringTable() *StringTable {
	return &StringTable{
		entries: make(map[uint32]string),
		dedup:   make(map[uint64]uint32),
	}
}

// Load installs a decompressed CRC32->string table, e.g. the output of the
// bootstrap decompression wire mentioned in §6. Subsequent calls replace the
// table wholesale.
func (t *StringTable) Load(entries map[uint32]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = entries
	t.dedup = make(map[uint64]uint32, len(entries))
	t.loaded = true
}

// Loaded reports whether Load has ever been called.
func (t *StringTable) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loaded
}

// Lookup resolves a CRC32 key to its decompressed string. When the table has
// not been loaded, strings default to empty, per §6.
func (t *StringTable) Lookup(crc uint32) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entries[crc]
}

// Intern registers raw (pre-compression) bytes against their CRC32 key,
// returning the key for later Lookup calls. The xxhash dedup index avoids
// recomputing CRC32 when the exact same bytes are interned repeatedly (a
// common pattern when many shards in a wire reference the same literal
// diagnostic string).
func (t *StringTable) Intern(raw []byte, decompressed string) uint32 {
	fast := fastKeyHash(raw)

	t.mu.RLock()
	if crc, ok := t.dedup[fast]; ok {
		t.mu.RUnlock()
		return crc
	}
	t.mu.RUnlock()

	crc := crc32.ChecksumIEEE(raw)

	t.mu.Lock()
	t.entries[crc] = decompressed
	t.dedup[fast] = crc
	t.mu.Unlock()
	return crc
}
