// Package diskfile provides a minimal page.File backed by a single OS file.
// It exists so bufmgr.Manager is exercisable end-to-end; the on-disk page
// format and free-page bookkeeping it implements are deliberately minimal,
// since that is explicitly out of the buffer pool's scope.
package diskfile

import (
	"fmt"
	"io"
	"os"
	"sync"

	"clockbuf/page"
)

// File is a page.File backed by one OS file on disk. Pages are fixed-size
// slots addressed by pageNo * pageSize, adapted from the teacher's
// kfile.FileMgr read/write/seek pattern but scoped to a single named file
// instead of a directory of many.
type File struct {
	mu       sync.Mutex
	f        *os.File
	name     string
	pageSize int
	numPages int
	freeList []int
}

// Open opens (creating if absent) the file at path, sized in pageSize-byte
// pages, and returns a File ready for use as a page.File.
func Open(path string, pageSize int) (*File, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("diskfile: pageSize must be positive, got %d", pageSize)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("diskfile: open %s: %w", path, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("diskfile: stat %s: %w", path, err)
	}
	return &File{
		f:        f,
		name:     path,
		pageSize: pageSize,
		numPages: int(stat.Size() / int64(pageSize)),
	}, nil
}

// Filename returns the path the file was opened with.
func (f *File) Filename() string {
	return f.name
}

// ReadPage reads the page at pageNo from disk.
func (f *File) ReadPage(pageNo int) (*page.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if pageNo < 0 || pageNo >= f.numPages {
		return nil, fmt.Errorf("diskfile: page %d out of range in %s", pageNo, f.name)
	}
	buf := make([]byte, f.pageSize)
	offset := int64(pageNo) * int64(f.pageSize)
	if _, err := f.f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("diskfile: seek %s: %w", f.name, err)
	}
	n, err := io.ReadFull(f.f, buf)
	if err != nil {
		return nil, fmt.Errorf("diskfile: read page %d of %s: %w", pageNo, f.name, err)
	}
	if n != f.pageSize {
		return nil, fmt.Errorf("diskfile: short read of page %d of %s: got %d bytes", pageNo, f.name, n)
	}
	p := page.NewFromBytes(buf)
	p.SetPageNumber(pageNo)
	return p, nil
}

// WritePage persists p at its own page number.
func (f *File) WritePage(p *page.Page) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writePageLocked(p)
}

func (f *File) writePageLocked(p *page.Page) error {
	pageNo := p.PageNumber()
	if pageNo < 0 {
		return fmt.Errorf("diskfile: cannot write page with no assigned page number in %s", f.name)
	}
	contents := p.Contents()
	if len(contents) != f.pageSize {
		return fmt.Errorf("diskfile: page %d has %d bytes, want %d in %s", pageNo, len(contents), f.pageSize, f.name)
	}
	offset := int64(pageNo) * int64(f.pageSize)
	if _, err := f.f.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("diskfile: seek %s: %w", f.name, err)
	}
	n, err := f.f.Write(contents)
	if err != nil {
		return fmt.Errorf("diskfile: write page %d of %s: %w", pageNo, f.name, err)
	}
	if n != f.pageSize {
		return fmt.Errorf("diskfile: short write of page %d of %s: wrote %d bytes", pageNo, f.name, n)
	}
	return f.f.Sync()
}

// AllocatePage grows the file by one page (reusing a freed slot if one
// exists) and returns the new, zeroed page.
func (f *File) AllocatePage() (*page.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var pageNo int
	if n := len(f.freeList); n > 0 {
		pageNo = f.freeList[n-1]
		f.freeList = f.freeList[:n-1]
	} else {
		pageNo = f.numPages
		f.numPages++
	}

	p := page.New(f.pageSize)
	p.SetPageNumber(pageNo)
	if err := f.writePageLocked(p); err != nil {
		return nil, fmt.Errorf("diskfile: allocate page in %s: %w", f.name, err)
	}
	return p, nil
}

// DeletePage returns pageNo to the free list for future reuse. Its bytes on
// disk are left as-is; free-page tracking beyond this is out of scope.
func (f *File) DeletePage(pageNo int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pageNo < 0 || pageNo >= f.numPages {
		return fmt.Errorf("diskfile: delete out-of-range page %d in %s", pageNo, f.name)
	}
	f.freeList = append(f.freeList, pageNo)
	return nil
}

// Close closes the underlying OS file handle.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.Close()
}

var _ page.File = (*File)(nil)
