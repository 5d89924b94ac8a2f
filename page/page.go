// Package page defines the fixed-size byte container the buffer pool caches
// and the File interface it borrows pages from.
package page

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
)

// ErrOutOfBounds is the message prefix of the errors accessors return when
// offset/length would read or write past the page's data.
const ErrOutOfBounds = "offset out of bounds"

// Page is a fixed-size block of bytes tagged with the page number assigned
// to it by the File that owns it. Pages are value-like: a Page handed back
// by the buffer manager is a borrowed reference into a pool slot and must
// not be retained past the matching Unpin.
type Page struct {
	mu     sync.RWMutex
	data   []byte
	pageNo int
}

// New allocates a zeroed page of the given size. pageNo is -1 (unassigned)
// until SetPageNumber is called, which a File does when it allocates or
// reads the page.
func New(size int) *Page {
	return &Page{
		data:   make([]byte, size),
		pageNo: -1,
	}
}

// NewFromBytes wraps an existing byte slice as a page without copying.
func NewFromBytes(b []byte) *Page {
	return &Page{data: b, pageNo: -1}
}

// PageNumber returns the page number assigned by the owning File, or -1 if
// none has been assigned yet.
func (p *Page) PageNumber() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pageNo
}

// SetPageNumber records the page number assigned by a File.
func (p *Page) SetPageNumber(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pageNo = n
}

// Size returns the page's fixed byte length.
func (p *Page) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.data)
}

// Contents returns the underlying byte slice. Callers that need an
// independent copy should use Clone.
func (p *Page) Contents() []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data
}

// SetContents replaces the underlying byte slice wholesale.
func (p *Page) SetContents(b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = b
}

// Clone returns an independent copy of the page's bytes and page number.
func (p *Page) Clone() *Page {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cp := make([]byte, len(p.data))
	copy(cp, p.data)
	return &Page{data: cp, pageNo: p.pageNo}
}

// GetInt reads a 4-byte big-endian integer from offset.
func (p *Page) GetInt(offset int) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if offset < 0 || offset+4 > len(p.data) {
		return 0, fmt.Errorf("%s: getting int", ErrOutOfBounds)
	}
	return int(binary.BigEndian.Uint32(p.data[offset:])), nil
}

// SetInt writes a 4-byte big-endian integer at offset.
func (p *Page) SetInt(offset int, val int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if offset < 0 || offset+4 > len(p.data) {
		return fmt.Errorf("%s: setting int", ErrOutOfBounds)
	}
	binary.BigEndian.PutUint32(p.data[offset:], uint32(val))
	return nil
}

// GetBytes reads a length-prefixed byte slice starting at offset. The
// returned slice is a copy.
func (p *Page) GetBytes(offset int) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if offset < 0 || offset+4 > len(p.data) {
		return nil, fmt.Errorf("%s: getting bytes", ErrOutOfBounds)
	}
	length := int(binary.BigEndian.Uint32(p.data[offset : offset+4]))
	if length < 0 || offset+4+length > len(p.data) {
		return nil, fmt.Errorf("%s: invalid length", ErrOutOfBounds)
	}
	out := make([]byte, length)
	copy(out, p.data[offset+4:offset+4+length])
	return out, nil
}

// SetBytes writes a length-prefixed byte slice at offset.
func (p *Page) SetBytes(offset int, val []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 4 + len(val)
	if offset < 0 || offset+total > len(p.data) {
		return fmt.Errorf("%s: setting bytes", ErrOutOfBounds)
	}
	binary.BigEndian.PutUint32(p.data[offset:], uint32(len(val)))
	copy(p.data[offset+4:], val)
	return nil
}

// GetString reads a length-prefixed string starting at offset.
func (p *Page) GetString(offset int) (string, error) {
	b, err := p.GetBytes(offset)
	if err != nil {
		return "", fmt.Errorf("getting string: %w", err)
	}
	return string(bytes.TrimRight(b, "\x00")), nil
}

// SetString writes val as a length-prefixed string at offset.
func (p *Page) SetString(offset int, val string) error {
	return p.SetBytes(offset, []byte(val))
}

// File is the external paged file store the buffer manager borrows pages
// from. Its on-disk format, free-page tracking, and durability guarantees
// beyond write_page/Sync are out of the buffer pool's scope; only this
// interface is owned here.
type File interface {
	// ReadPage returns the page stored at pageNo.
	ReadPage(pageNo int) (*Page, error)
	// WritePage persists p at its own PageNumber().
	WritePage(p *Page) error
	// AllocatePage allocates a new page, assigns it a page number, and
	// returns it.
	AllocatePage() (*Page, error)
	// DeletePage removes the page at pageNo from the file.
	DeletePage(pageNo int) error
	// Filename returns a human-readable identifier, used only in
	// diagnostics and error messages.
	Filename() string
}
