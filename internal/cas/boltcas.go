package cas

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/chronotree/chronotree/internal/store"
)

// BoltCAS implements CAS using a single bbolt database file. Values are
// zstd-compressed before they hit disk; the hash is always verified
// against the decompressed bytes, so compression never participates in
// the content address.
type BoltCAS struct {
	db *store.SharedDB
}

// NewBoltCAS opens (or creates) a bbolt-backed CAS under dataDir.
func NewBoltCAS(dataDir string) (*BoltCAS, error) {
	db, err := store.GetSharedDB(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open bolt CAS: %w", err)
	}
	return &BoltCAS{db: db}, nil
}

// Close releases this handle's reference to the shared database.
func (b *BoltCAS) Close() error {
	return b.db.Close()
}

// Put implements CAS.Put.
func (b *BoltCAS) Put(hash Hash, data []byte) error {
	computed := SumB3(data)
	if computed != hash {
		return fmt.Errorf("hash mismatch: expected %s, got %s", hash, computed)
	}

	compressed, err := compressZstd(data)
	if err != nil {
		return fmt.Errorf("compress blob: %w", err)
	}

	if err := b.db.Put(hash[:], compressed); err != nil {
		return fmt.Errorf("put blob %s: %w", hash, err)
	}
	return nil
}

// Get implements CAS.Get.
func (b *BoltCAS) Get(hash Hash) ([]byte, error) {
	compressed, err := b.db.Get(hash[:])
	if err != nil {
		if err == store.ErrKeyNotFound {
			return nil, fmt.Errorf("hash not found: %s", hash)
		}
		return nil, fmt.Errorf("get blob %s: %w", hash, err)
	}

	data, err := decompressZstd(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress blob %s: %w", hash, err)
	}

	if computed := SumB3(data); computed != hash {
		return nil, fmt.Errorf("corrupted data: hash mismatch for %s", hash)
	}
	return data, nil
}

// Has implements CAS.Has.
func (b *BoltCAS) Has(hash Hash) (bool, error) {
	ok, err := b.db.Has(hash[:])
	if err != nil {
		return false, fmt.Errorf("has blob %s: %w", hash, err)
	}
	return ok, nil
}

// Delete implements CAS.Delete.
func (b *BoltCAS) Delete(hash Hash) error {
	if err := b.db.Delete(hash[:]); err != nil {
		return fmt.Errorf("delete blob %s: %w", hash, err)
	}
	return nil
}

func compressZstd(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressZstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}
