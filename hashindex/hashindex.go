// Package hashindex is the chained hash map from (file, page number) to
// frame id used by the buffer manager to resolve identifiers to frames.
package hashindex

import (
	"errors"
	"fmt"
	"hash/fnv"

	"clockbuf/page"
)

// ErrNotFound signals a lookup or remove miss. It is an internal,
// non-exceptional signal: bufmgr treats it as expected control flow and
// never lets it escape a public operation.
var ErrNotFound = errors.New("hashindex: key not found")

// ErrDuplicateKey signals an Insert of a key that is already bound. The
// buffer manager never triggers this in correct operation; it indicates an
// internal invariant violation (a frame being installed twice).
var ErrDuplicateKey = errors.New("hashindex: key already present")

// Key identifies a page by the identity of the file that owns it (not by
// filename) and its page number. Two distinct open files with equal
// filenames are distinct keys, since File is compared by interface
// identity.
type Key struct {
	File   page.File
	PageNo int
}

func (k Key) String() string {
	return fmt.Sprintf("[file %s, page %d]", k.File.Filename(), k.PageNo)
}

type entry struct {
	key   Key
	frame int
}

// Index is a chained (bucket-of-slices) hash table mapping Key to frame id.
type Index struct {
	buckets [][]entry
	count   int
}

// New creates an Index sized for numFrames entries. Bucket count is sized
// proportional to numFrames (~1.2x), mirroring the reference
// implementation's htsize formula.
func New(numFrames int) *Index {
	if numFrames < 1 {
		numFrames = 1
	}
	numBuckets := int(float64(numFrames)*1.2) + 1
	return &Index{buckets: make([][]entry, numBuckets)}
}

func hashKey(k Key) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%p", k.File)
	var buf [8]byte
	n := k.PageNo
	for i := 0; i < 8; i++ {
		buf[i] = byte(n >> (8 * i))
	}
	h.Write(buf[:])
	return h.Sum64()
}

func (idx *Index) bucketFor(k Key) int {
	return int(hashKey(k) % uint64(len(idx.buckets)))
}

// Insert adds a fresh key->frame binding. It fails with ErrDuplicateKey if
// the key is already present; the buffer manager never calls Insert with an
// existing key, so a failure here indicates an internal bug.
func (idx *Index) Insert(k Key, frame int) error {
	b := idx.bucketFor(k)
	for _, e := range idx.buckets[b] {
		if e.key == k {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, k)
		}
	}
	idx.buckets[b] = append(idx.buckets[b], entry{key: k, frame: frame})
	idx.count++
	return nil
}

// Lookup returns the frame bound to k, or ErrNotFound.
func (idx *Index) Lookup(k Key) (int, error) {
	b := idx.bucketFor(k)
	for _, e := range idx.buckets[b] {
		if e.key == k {
			return e.frame, nil
		}
	}
	return 0, ErrNotFound
}

// Remove deletes the binding for k, or fails with ErrNotFound if absent.
func (idx *Index) Remove(k Key) error {
	b := idx.bucketFor(k)
	bucket := idx.buckets[b]
	for i, e := range bucket {
		if e.key == k {
			idx.buckets[b] = append(bucket[:i], bucket[i+1:]...)
			idx.count--
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, k)
}

// Len returns the number of bindings currently held.
func (idx *Index) Len() int {
	return idx.count
}
