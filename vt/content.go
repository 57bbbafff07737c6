package vt

import "crypto/sha256"

// ContentID identifies one stored inline-image or arbitrary-content
// blob by content hash, so the same image transmitted twice (e.g. a
// shell prompt redrawing a logo) is stored once and simply
// refcounted, the way OSC 1337/kitty graphics content stores work in
// the teacher's kitty graphics handling and original_source's
// xterm_os.cpp image regions.
type ContentID [32]byte

type contentEntry struct {
	data     []byte
	refcount int
}

// ContentStore is a refcounted content-addressed blob store shared by
// every RegionImage/RegionContent region in a terminal.
type ContentStore struct {
	entries map[ContentID]*contentEntry
}

// NewContentStore returns an empty store.
func NewContentStore() *ContentStore {
	return &ContentStore{entries: map[ContentID]*contentEntry{}}
}

// Put stores data (if not already present) and returns its content
// id with the reference count incremented.
func (s *ContentStore) Put(data []byte) ContentID {
	id := ContentID(sha256.Sum256(data))
	e, ok := s.entries[id]
	if !ok {
		e = &contentEntry{data: append([]byte(nil), data...)}
		s.entries[id] = e
	}
	e.refcount++
	return id
}

// Get returns the blob for id, or nil if it isn't stored.
func (s *ContentStore) Get(id ContentID) []byte {
	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	return e.data
}

// Release decrements id's reference count, deleting the blob once it
// reaches zero. Region eviction in the buffer does not call it; a blob
// stays stored until a caller releases it.
func (s *ContentStore) Release(id ContentID) {
	e, ok := s.entries[id]
	if !ok {
		return
	}
	e.refcount--
	if e.refcount <= 0 {
		delete(s.entries, id)
	}
}

// Len reports how many distinct blobs are stored, for diagnostics.
func (s *ContentStore) Len() int { return len(s.entries) }
