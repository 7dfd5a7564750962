package pebbleidx

import (
	"testing"

	"github.com/relstore/btreeidx"
)

func TestInsertAndLocate(t *testing.T) {
	idx, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer idx.Close()

	want := btreeidx.RecordID{PageID: 3, SlotID: 7}
	if err := idx.Insert(42, want); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := idx.Locate(42)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != want {
		t.Fatalf("Locate(42) = %+v, want %+v", got, want)
	}
}

func TestLocateMissing(t *testing.T) {
	idx, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer idx.Close()

	if _, err := idx.Locate(7); err != btreeidx.ErrNoSuchRecord {
		t.Fatalf("Locate(7) err = %v, want ErrNoSuchRecord", err)
	}
}

func TestScanAllAscending(t *testing.T) {
	idx, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer idx.Close()

	keys := []int32{30, 10, 20, 5, 25}
	for _, k := range keys {
		if err := idx.Insert(k, btreeidx.RecordID{PageID: int16(k)}); err != nil {
			t.Fatalf("Insert(%d): %v", k, err)
		}
	}

	var scanned []int32
	if err := idx.ScanAll(func(key int32, rid btreeidx.RecordID) error {
		scanned = append(scanned, key)
		if rid.PageID != int16(key) {
			t.Fatalf("key %d: rid.PageID = %d, want %d", key, rid.PageID, key)
		}
		return nil
	}); err != nil {
		t.Fatalf("ScanAll: %v", err)
	}

	if len(scanned) != len(keys) {
		t.Fatalf("scanned %d keys, want %d", len(scanned), len(keys))
	}
	for i := 1; i < len(scanned); i++ {
		if scanned[i-1] >= scanned[i] {
			t.Fatalf("scan not ascending at %d: %d then %d", i, scanned[i-1], scanned[i])
		}
	}
}
