package btreeidx

// Scanner streams entries forward from a starting Cursor, transparently
// following leaf sibling pointers. Index.ReadForward deliberately stops
// at a leaf boundary; Scanner is the convenience layer most callers
// actually want, built entirely on Index's public contract.
type Scanner struct {
	idx  *Index
	cur  Cursor
	done bool
}

// NewScanner starts a scan at cur. Passing the Cursor returned by
// Index.Locate resumes a scan from the first entry at or after the
// search key, whether or not the key was an exact match.
func NewScanner(idx *Index, cur Cursor) *Scanner {
	return &Scanner{idx: idx, cur: cur}
}

// Next advances the scanner and returns the next (key, RecordID) pair.
// It returns ErrNoSuchRecord once the last leaf's chain is exhausted.
func (s *Scanner) Next() (int32, RecordID, error) {
	if s.done {
		return 0, RecordID{}, ErrNoSuchRecord
	}

	key, rid, next, err := s.idx.ReadForward(s.cur)
	if err == nil {
		s.cur = next
		return key, rid, nil
	}
	if err != ErrInvalidEid {
		s.done = true
		return 0, RecordID{}, err
	}

	nextPid, nerr := s.idx.nextLeaf(s.cur.Pid)
	if nerr != nil {
		s.done = true
		return 0, RecordID{}, nerr
	}
	if nextPid == NoPid {
		s.done = true
		return 0, RecordID{}, ErrNoSuchRecord
	}

	s.cur = Cursor{Pid: nextPid, Eid: 0}
	key, rid, next, err = s.idx.ReadForward(s.cur)
	if err != nil {
		// An allocated-but-empty leaf at the end of the chain; treat it
		// the same as chain exhaustion rather than erroring the caller.
		s.done = true
		return 0, RecordID{}, ErrNoSuchRecord
	}
	s.cur = next
	return key, rid, nil
}
