package btreeidx_test

import (
	"path/filepath"
	"testing"

	"github.com/relstore/btreeidx"
	"github.com/relstore/btreeidx/internal/pagefile"
)

const testPageSize = 128 // small page forces splits with few inserts

func openTestIndex(t *testing.T) (*btreeidx.Index, func()) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.idx")
	pf, err := pagefile.Open(path, testPageSize, 32)
	if err != nil {
		t.Fatalf("pagefile.Open: %v", err)
	}
	idx, err := btreeidx.Create(pf)
	if err != nil {
		t.Fatalf("btreeidx.Create: %v", err)
	}
	return idx, func() { idx.Close() }
}

func rid(i int) btreeidx.RecordID {
	return btreeidx.RecordID{PageID: int16(i), SlotID: int16(i % 7)}
}

// Scenario A: empty open. Create must not format anything on disk —
// EndPid() stays 0 until the first Insert allocates the first leaf.
func TestEmptyIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.idx")
	pf, err := pagefile.Open(path, testPageSize, 32)
	if err != nil {
		t.Fatalf("pagefile.Open: %v", err)
	}
	idx, err := btreeidx.Create(pf)
	if err != nil {
		t.Fatalf("btreeidx.Create: %v", err)
	}
	defer idx.Close()

	if end := pf.EndPid(); end != 0 {
		t.Fatalf("EndPid() after Create = %d, want 0 (nothing written until first insert)", end)
	}
	if _, _, err := idx.Locate(42); err != btreeidx.ErrNoSuchRecord {
		t.Fatalf("Locate on empty index: err = %v, want ErrNoSuchRecord", err)
	}
	if h := idx.Height(); h != 0 {
		t.Fatalf("Height() = %d, want 0", h)
	}
	if idx.RootPid() != btreeidx.NoPid {
		t.Fatalf("RootPid() = %d, want NoPid", idx.RootPid())
	}
	count, err := idx.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("Count() = %d, want 0", count)
	}
}

// Scenario B: a single insert.
func TestSingleInsert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "single.idx")
	pf, err := pagefile.Open(path, testPageSize, 32)
	if err != nil {
		t.Fatalf("pagefile.Open: %v", err)
	}
	idx, err := btreeidx.Create(pf)
	if err != nil {
		t.Fatalf("btreeidx.Create: %v", err)
	}
	defer idx.Close()

	want := btreeidx.RecordID{PageID: 1, SlotID: 1}
	if err := idx.Insert(10, want); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if end := pf.EndPid(); end != 2 {
		t.Fatalf("EndPid() after first insert = %d, want 2 (metadata page + bootstrap leaf)", end)
	}

	got, cur, err := idx.Locate(10)
	if err != nil {
		t.Fatalf("Locate(10): %v", err)
	}
	if got != want {
		t.Fatalf("Locate(10) = %+v, want %+v", got, want)
	}
	if cur.Pid != 1 || cur.Eid != 0 {
		t.Fatalf("cursor = %+v, want {Pid:1 Eid:0}", cur)
	}

	key, gotRid, _, err := idx.ReadForward(cur)
	if err != nil {
		t.Fatalf("ReadForward: %v", err)
	}
	if key != 10 || gotRid != want {
		t.Fatalf("ReadForward = (%d, %+v), want (10, %+v)", key, gotRid, want)
	}
	if h := idx.Height(); h != 1 {
		t.Fatalf("Height() = %d, want 1", h)
	}
}

// Scenario C/D/F and testable property 2: full ascending scan after N
// inserts yields exactly N pairs in non-decreasing key order, regardless
// of insertion order (ascending, descending, or forced multi-level splits).
func TestScanYieldsAllKeysInOrder(t *testing.T) {
	cases := []struct {
		name string
		n    int
		key  func(i int) int32 // i in [1, n]
	}{
		{"ascending", 400, func(i int) int32 { return int32(i) }},
		{"descending", 400, func(i int) int32 { return int32(400 - i + 1) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			idx, cleanup := openTestIndex(t)
			defer cleanup()

			for i := 1; i <= tc.n; i++ {
				if err := idx.Insert(tc.key(i), rid(i)); err != nil {
					t.Fatalf("Insert(%d): %v", tc.key(i), err)
				}
			}

			scanned := scanAll(t, idx)
			if len(scanned) != tc.n {
				t.Fatalf("scanned %d entries, want %d", len(scanned), tc.n)
			}
			for i := 1; i < len(scanned); i++ {
				if scanned[i-1] > scanned[i] {
					t.Fatalf("scan not ascending at %d: %d then %d", i, scanned[i-1], scanned[i])
				}
			}
			if idx.Height() < 2 {
				t.Fatalf("Height() = %d, want at least 2 after %d inserts", idx.Height(), tc.n)
			}
		})
	}
}

// Scenario E: duplicate keys are returned in insertion order within a leaf.
func TestDuplicateKeysInInsertionOrder(t *testing.T) {
	idx, cleanup := openTestIndex(t)
	defer cleanup()

	a := btreeidx.RecordID{PageID: 1, SlotID: 0}
	b := btreeidx.RecordID{PageID: 1, SlotID: 1}
	c := btreeidx.RecordID{PageID: 1, SlotID: 2}
	for _, r := range []btreeidx.RecordID{a, b, c} {
		if err := idx.Insert(5, r); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	_, cur, err := idx.Locate(5)
	if err != nil {
		t.Fatalf("Locate(5): %v", err)
	}

	var got []btreeidx.RecordID
	for i := 0; i < 3; i++ {
		_, r, next, err := idx.ReadForward(cur)
		if err != nil {
			t.Fatalf("ReadForward #%d: %v", i, err)
		}
		got = append(got, r)
		cur = next
	}
	want := []btreeidx.RecordID{a, b, c}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// Property 1: locate either finds the key exactly, or returns
// ErrNoSuchRecord with a cursor at the least key greater than the search
// key within its leaf.
func TestLocateMissReturnsInsertionPoint(t *testing.T) {
	idx, cleanup := openTestIndex(t)
	defer cleanup()

	for _, k := range []int32{10, 20, 30, 40, 50} {
		if err := idx.Insert(k, rid(int(k))); err != nil {
			t.Fatalf("Insert(%d): %v", k, err)
		}
	}

	_, cur, err := idx.Locate(25)
	if err != btreeidx.ErrNoSuchRecord {
		t.Fatalf("Locate(25) err = %v, want ErrNoSuchRecord", err)
	}
	key, _, _, err := idx.ReadForward(cur)
	if err != nil {
		t.Fatalf("ReadForward at insertion point: %v", err)
	}
	if key != 30 {
		t.Fatalf("insertion point key = %d, want 30", key)
	}
}

// Property 5: close, reopen, and locate results match.
func TestRoundTripThroughClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.idx")
	pf, err := pagefile.Open(path, testPageSize, 32)
	if err != nil {
		t.Fatalf("pagefile.Open: %v", err)
	}
	idx, err := btreeidx.Create(pf)
	if err != nil {
		t.Fatalf("btreeidx.Create: %v", err)
	}

	keys := []int32{7, 3, 19, 55, 2, 91, 44, 18, 77, 1}
	for _, k := range keys {
		if err := idx.Insert(k, rid(int(k))); err != nil {
			t.Fatalf("Insert(%d): %v", k, err)
		}
	}
	wantHeight := idx.Height()
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	pf2, err := pagefile.Open(path, testPageSize, 32)
	if err != nil {
		t.Fatalf("reopen pagefile: %v", err)
	}
	idx2, err := btreeidx.Open(pf2)
	if err != nil {
		t.Fatalf("reopen index: %v", err)
	}
	defer idx2.Close()

	if idx2.Height() != wantHeight {
		t.Fatalf("Height() after reopen = %d, want %d", idx2.Height(), wantHeight)
	}
	for _, k := range keys {
		got, _, err := idx2.Locate(k)
		if err != nil {
			t.Fatalf("Locate(%d) after reopen: %v", k, err)
		}
		if got != rid(int(k)) {
			t.Fatalf("Locate(%d) after reopen = %+v, want %+v", k, got, rid(int(k)))
		}
	}
}

// Property 6: two full scans over an unchanged index return identical streams.
func TestScanIdempotent(t *testing.T) {
	idx, cleanup := openTestIndex(t)
	defer cleanup()

	for i := 1; i <= 200; i++ {
		if err := idx.Insert(int32(i), rid(i)); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}

	first := scanAll(t, idx)
	second := scanAll(t, idx)
	if len(first) != len(second) {
		t.Fatalf("scan lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("scans differ at %d: %d vs %d", i, first[i], second[i])
		}
	}
}

// Property 7: after inserts causing k root splits, treeHeight == 1 + k.
func TestRootGrowthCount(t *testing.T) {
	idx, cleanup := openTestIndex(t)
	defer cleanup()

	heights := map[int32]bool{}
	rootSplits := 0
	prevRoot := btreeidx.NoPid
	for i := 1; i <= 2000; i++ {
		if err := idx.Insert(int32(i), rid(i)); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
		if prevRoot != btreeidx.NoPid && idx.RootPid() != prevRoot {
			rootSplits++
		}
		prevRoot = idx.RootPid()
		heights[idx.Height()] = true
	}
	if idx.Height() != int32(1+rootSplits) {
		t.Fatalf("Height() = %d after %d root splits, want %d", idx.Height(), rootSplits, 1+rootSplits)
	}
	if idx.Height() < 3 {
		t.Fatalf("Height() = %d, want at least 3 after 2000 inserts with a tiny page size", idx.Height())
	}
	if !heights[1] {
		t.Fatalf("tree was never at height 1 on the way up")
	}
}

func TestInsertingZeroKeyRejected(t *testing.T) {
	idx, cleanup := openTestIndex(t)
	defer cleanup()

	if err := idx.Insert(0, rid(1)); err == nil {
		t.Fatalf("Insert(0, ...) succeeded, want error (0 is the empty-slot sentinel)")
	}
}

func scanAll(t *testing.T, idx *btreeidx.Index) []int32 {
	t.Helper()
	_, cur, err := idx.Locate(-1 << 30) // below every inserted key
	if err != nil && err != btreeidx.ErrNoSuchRecord {
		t.Fatalf("Locate: %v", err)
	}
	sc := btreeidx.NewScanner(idx, cur)
	var keys []int32
	for {
		k, _, err := sc.Next()
		if err == btreeidx.ErrNoSuchRecord {
			break
		}
		if err != nil {
			t.Fatalf("Scanner.Next: %v", err)
		}
		keys = append(keys, k)
	}
	return keys
}
