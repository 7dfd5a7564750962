// Package pebbleidx wraps Pebble (CockroachDB's LSM storage engine) behind
// an interface shaped like btreeidx.Index, so idxbench can run the same
// insert/locate/scan workload against both and compare.
package pebbleidx

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/relstore/btreeidx"
)

// Index is a Pebble-backed stand-in for btreeidx.Index. It exists purely
// as a benchmark comparison point: unlike btreeidx.Index it has no page
// format, no split arithmetic, and no tree height — Pebble's LSM handles
// all of that internally.
type Index struct {
	db *pebble.DB
}

// Open opens (or creates) a Pebble database at dir.
func Open(dir string) (*Index, error) {
	opts := &pebble.Options{
		MemTableSize:                16 << 20,
		MemTableStopWritesThreshold: 4,
		L0CompactionThreshold:       4,
		L0StopWritesThreshold:       12,
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("pebbleidx: open: %w", err)
	}
	return &Index{db: db}, nil
}

// Close cleanly shuts down Pebble, flushing any in-memory state.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Insert stores rid under key, matching btreeidx.Index.Insert's signature
// so both can be driven by the same benchmark loop.
func (idx *Index) Insert(key int32, rid btreeidx.RecordID) error {
	return idx.db.Set(encodeKey(key), encodeRID(rid), pebble.NoSync)
}

// Locate retrieves the RecordID stored under key. It returns
// btreeidx.ErrNoSuchRecord when key is absent, mirroring
// btreeidx.Index.Locate's error for an apples-to-apples comparison.
func (idx *Index) Locate(key int32) (btreeidx.RecordID, error) {
	val, closer, err := idx.db.Get(encodeKey(key))
	if err == pebble.ErrNotFound {
		return btreeidx.RecordID{}, btreeidx.ErrNoSuchRecord
	}
	if err != nil {
		return btreeidx.RecordID{}, fmt.Errorf("pebbleidx: locate: %w", err)
	}
	rid, decodeErr := decodeRID(val)
	closer.Close()
	if decodeErr != nil {
		return btreeidx.RecordID{}, decodeErr
	}
	return rid, nil
}

// ScanAll streams every (key, RecordID) pair in ascending key order,
// calling fn for each. It mirrors a full forward scan of a btreeidx.Index
// via its Scanner.
func (idx *Index) ScanAll(fn func(key int32, rid btreeidx.RecordID) error) error {
	iter, err := idx.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("pebbleidx: scan: %w", err)
	}
	defer iter.Close()

	for valid := iter.First(); valid; valid = iter.Next() {
		k := iter.Key()
		if len(k) != 4 {
			return fmt.Errorf("pebbleidx: scan: unexpected key length %d", len(k))
		}
		key := int32(binary.BigEndian.Uint32(k))
		rid, err := decodeRID(iter.Value())
		if err != nil {
			return err
		}
		if err := fn(key, rid); err != nil {
			return err
		}
	}
	return iter.Error()
}

// encodeKey encodes an int32 as a big-endian 4-byte slice. Big-endian
// preserves sort order, which Pebble (and every LSM tree) relies on for
// range scans.
func encodeKey(k int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(k))
	return b
}

func encodeRID(rid btreeidx.RecordID) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint16(b[0:2], uint16(rid.PageID))
	binary.BigEndian.PutUint16(b[2:4], uint16(rid.SlotID))
	return b
}

func decodeRID(b []byte) (btreeidx.RecordID, error) {
	if len(b) != 4 {
		return btreeidx.RecordID{}, fmt.Errorf("pebbleidx: bad record value length %d", len(b))
	}
	return btreeidx.RecordID{
		PageID: int16(binary.BigEndian.Uint16(b[0:2])),
		SlotID: int16(binary.BigEndian.Uint16(b[2:4])),
	}, nil
}
