package cas

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/zerr"
)

// Entry file layout: 4 byte magic, 8 byte little endian xxhash64 of the body,
// then the msgpack encoded domain.CacheEntry.
var entryMagic = []byte("XFC1")

const headerSize = 4 + 8

func encodeEntry(entry *domain.CacheEntry) ([]byte, error) {
	body, err := msgpack.Marshal(entry)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	buf := make([]byte, headerSize, headerSize+len(body))
	copy(buf, entryMagic)
	binary.LittleEndian.PutUint64(buf[len(entryMagic):headerSize], xxhash.Sum64(body))
	return append(buf, body...), nil
}

func decodeEntry(data []byte) (*domain.CacheEntry, error) {
	if len(data) < headerSize {
		return nil, zerr.With(domain.ErrCacheCorrupt, "reason", "truncated header")
	}
	if !bytes.Equal(data[:len(entryMagic)], entryMagic) {
		return nil, zerr.With(domain.ErrCacheCorrupt, "reason", "bad magic")
	}

	body := data[headerSize:]
	want := binary.LittleEndian.Uint64(data[len(entryMagic):headerSize])
	if xxhash.Sum64(body) != want {
		return nil, zerr.With(domain.ErrCacheCorrupt, "reason", "checksum mismatch")
	}

	var entry domain.CacheEntry
	if err := msgpack.Unmarshal(body, &entry); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheCorrupt.Error())
	}
	if entry.Artifact == nil {
		return nil, zerr.With(domain.ErrCacheCorrupt, "reason", "missing artifact")
	}
	if entry.Artifact.Metadata == nil {
		entry.Artifact.Metadata = domain.Metadata{}
	}
	return &entry, nil
}
