// Package bufmgr implements the buffer pool manager: a fixed-size pool of
// page frames mapped by (file, page number) through a hash index, replaced
// under a clock (second-chance) policy.
package bufmgr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"clockbuf/frame"
	"clockbuf/hashindex"
	"clockbuf/page"
)

// Stats are running counters kept for introspection only; no public
// operation depends on them. Supplements the distilled spec with the
// diagnostic surface the original BadgerDB-derived implementation's
// printSelf gestures at, in the spirit of the pack's buffer pools that
// name this pattern "Statistics".
type Stats struct {
	Hits           int64
	Misses         int64
	Evictions      int64
	DirtyEvictions int64
}

// Manager owns the page pool, the frame descriptor table, the hash index,
// and the clock hand. It is not internally synchronized: callers must
// serialize access themselves if sharing a Manager across goroutines.
type Manager struct {
	pool      []*page.Page
	frames    *frame.Table
	index     *hashindex.Index
	numFrames int
	clockHand int
	stats     Stats
	log       zerolog.Logger
}

// New constructs a Manager with numFrames frames. numFrames must be at
// least 1.
func New(numFrames int) (*Manager, error) {
	if numFrames < 1 {
		return nil, fmt.Errorf("bufmgr: numFrames must be >= 1, got %d", numFrames)
	}
	return &Manager{
		pool:      make([]*page.Page, numFrames),
		frames:    frame.New(numFrames),
		index:     hashindex.New(numFrames),
		numFrames: numFrames,
		clockHand: numFrames - 1,
		log:       log.With().Str("component", "bufmgr").Logger(),
	}, nil
}

// Stats returns a snapshot of the running hit/miss/eviction counters.
func (m *Manager) Stats() Stats {
	return m.stats
}

func (m *Manager) advanceClock() {
	m.clockHand = (m.clockHand + 1) % m.numFrames
}

// allocBuf runs the clock victim selector: advance, skip valid-and-(ref or
// pinned) frames (clearing a set ref bit as the second chance is spent),
// and fail with BufferExceeded if two full sweeps turn up nothing.
func (m *Manager) allocBuf() (int, error) {
	advances := 0
	for {
		m.advanceClock()
		advances++
		fd := m.frames.Get(m.clockHand)

		skip := fd.Valid && (fd.RefBit || fd.PinCount > 0)
		if skip {
			if fd.RefBit {
				fd.RefBit = false
			}
			if advances >= 2*m.numFrames-1 {
				return 0, &Error{
					Kind:     BufferExceeded,
					FrameNo:  fd.FrameNo,
					PinCount: fd.PinCount,
					Dirty:    fd.Dirty,
					Valid:    fd.Valid,
				}
			}
			continue
		}

		if fd.Valid {
			if fd.Dirty {
				if err := fd.File.WritePage(m.pool[fd.FrameNo]); err != nil {
					return 0, fmt.Errorf("bufmgr: writing back dirty victim frame %d: %w", fd.FrameNo, err)
				}
				m.stats.DirtyEvictions++
			}
			if err := m.index.Remove(hashindex.Key{File: fd.File, PageNo: fd.PageNo}); err != nil {
				return 0, fmt.Errorf("bufmgr: internal: evicting frame %d: %w", fd.FrameNo, err)
			}
			m.log.Info().Int("frame", fd.FrameNo).Str("file", fd.File.Filename()).
				Int("page", fd.PageNo).Bool("dirty", fd.Dirty).Msg("evicting frame")
			m.stats.Evictions++
			fd.Clear()
		}
		return fd.FrameNo, nil
	}
}

// ReadPage returns a borrowed page for (file, pageNo), pinning it. Callers
// must pair every successful ReadPage with one UnpinPage.
func (m *Manager) ReadPage(file page.File, pageNo int) (*page.Page, error) {
	key := hashindex.Key{File: file, PageNo: pageNo}
	if frameNo, err := m.index.Lookup(key); err == nil {
		fd := m.frames.Get(frameNo)
		fd.RefBit = true
		fd.PinCount++
		m.stats.Hits++
		return m.pool[frameNo], nil
	}

	m.stats.Misses++
	frameNo, err := m.allocBuf()
	if err != nil {
		return nil, err
	}
	p, err := file.ReadPage(pageNo)
	if err != nil {
		return nil, fmt.Errorf("bufmgr: reading page %d from %s: %w", pageNo, file.Filename(), err)
	}
	m.pool[frameNo] = p
	if err := m.index.Insert(key, frameNo); err != nil {
		return nil, fmt.Errorf("bufmgr: internal: installing frame %d: %w", frameNo, err)
	}
	m.frames.Get(frameNo).Set(file, pageNo)
	return p, nil
}

// UnpinPage decrements the pin count for (file, pageNo). If dirty is true
// the frame's dirty flag is set (and never cleared here). Unpinning a page
// not currently mapped is a silent no-op.
func (m *Manager) UnpinPage(file page.File, pageNo int, dirty bool) error {
	key := hashindex.Key{File: file, PageNo: pageNo}
	frameNo, err := m.index.Lookup(key)
	if err != nil {
		if errors.Is(err, hashindex.ErrNotFound) {
			return nil
		}
		return err
	}

	fd := m.frames.Get(frameNo)
	if fd.PinCount == 0 {
		return &Error{
			Kind:     PageNotPinned,
			File:     file.Filename(),
			PageNo:   pageNo,
			FrameNo:  frameNo,
			PinCount: fd.PinCount,
			Dirty:    fd.Dirty,
			Valid:    fd.Valid,
		}
	}
	fd.PinCount--
	if dirty {
		fd.Dirty = true
	}
	return nil
}

// AllocPage asks file to allocate a new page, installs it in a free frame,
// and returns its page number and a borrowed, pinned page.
func (m *Manager) AllocPage(file page.File) (int, *page.Page, error) {
	p, err := file.AllocatePage()
	if err != nil {
		return 0, nil, fmt.Errorf("bufmgr: allocating page in %s: %w", file.Filename(), err)
	}
	frameNo, err := m.allocBuf()
	if err != nil {
		return 0, nil, err
	}
	m.pool[frameNo] = p
	key := hashindex.Key{File: file, PageNo: p.PageNumber()}
	if err := m.index.Insert(key, frameNo); err != nil {
		return 0, nil, fmt.Errorf("bufmgr: internal: installing frame %d: %w", frameNo, err)
	}
	m.frames.Get(frameNo).Set(file, p.PageNumber())
	return p.PageNumber(), p, nil
}

// DisposePage removes any buffered mapping for (file, pageNo) and asks file
// to delete it. No pin-count check is performed: disposing a pinned page is
// a caller contract violation, preserved unenforced for fidelity with the
// original behavior (see DESIGN.md).
func (m *Manager) DisposePage(file page.File, pageNo int) error {
	key := hashindex.Key{File: file, PageNo: pageNo}
	if frameNo, err := m.index.Lookup(key); err == nil {
		m.frames.Get(frameNo).Clear()
		if err := m.index.Remove(key); err != nil {
			return fmt.Errorf("bufmgr: internal: disposing frame %d: %w", frameNo, err)
		}
	}
	return file.DeletePage(pageNo)
}

// FlushFile removes every valid, unpinned frame belonging to file from the
// pool, writing it back first if it is dirty. It fails with PagePinned on a
// pinned match and BadBuffer on an invalid descriptor tagged with file (a
// corrupted descriptor); frames of file visited before the failing one have
// already been flushed and unmapped, the failing frame and those after it
// are left as they were.
func (m *Manager) FlushFile(file page.File) error {
	for i := 0; i < m.numFrames; i++ {
		m.advanceClock()
		fd := m.frames.Get(m.clockHand)
		if fd.File != file {
			continue
		}
		if fd.PinCount != 0 {
			return &Error{
				Kind:     PagePinned,
				File:     file.Filename(),
				PageNo:   fd.PageNo,
				FrameNo:  fd.FrameNo,
				PinCount: fd.PinCount,
				Dirty:    fd.Dirty,
				Valid:    fd.Valid,
			}
		}
		if !fd.Valid {
			return &Error{
				Kind:    BadBuffer,
				File:    file.Filename(),
				PageNo:  fd.PageNo,
				FrameNo: fd.FrameNo,
				Valid:   fd.Valid,
			}
		}
		if fd.Dirty {
			if err := file.WritePage(m.pool[fd.FrameNo]); err != nil {
				return fmt.Errorf("bufmgr: flushing frame %d of %s: %w", fd.FrameNo, file.Filename(), err)
			}
		}
		if err := m.index.Remove(hashindex.Key{File: file, PageNo: fd.PageNo}); err != nil {
			return fmt.Errorf("bufmgr: internal: flushing frame %d: %w", fd.FrameNo, err)
		}
		fd.Clear()
	}
	return nil
}

// Close writes back every dirty valid frame (shutdown flush). It does not
// clear descriptors or mappings; the pool, descriptor table and hash index
// are plain memory, reclaimed once the Manager is no longer referenced. A
// still-pinned frame at shutdown is logged, not failed, per the design
// notes' guidance on this open question.
func (m *Manager) Close() error {
	for i := 0; i < m.numFrames; i++ {
		fd := m.frames.Get(i)
		if !fd.Valid {
			continue
		}
		if fd.Dirty {
			if err := fd.File.WritePage(m.pool[i]); err != nil {
				return fmt.Errorf("bufmgr: shutdown flush of frame %d: %w", i, err)
			}
		}
		if fd.PinCount > 0 {
			m.log.Warn().Int("frame", i).Str("file", fd.File.Filename()).
				Int("page", fd.PageNo).Int("pins", fd.PinCount).
				Msg("shutdown with frame still pinned")
		}
	}
	return nil
}

// PrintSelf renders each frame's descriptor plus a count of valid frames,
// for debugging.
func (m *Manager) PrintSelf() string {
	var sb strings.Builder
	for i := 0; i < m.numFrames; i++ {
		fd := m.frames.Get(i)
		fmt.Fprintf(&sb, "frame %d: valid=%v pin=%d dirty=%v ref=%v", i, fd.Valid, fd.PinCount, fd.Dirty, fd.RefBit)
		if fd.Valid {
			fmt.Fprintf(&sb, " file=%s page=%d", fd.File.Filename(), fd.PageNo)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "valid frames: %d/%d\n", m.frames.ValidCount(), m.numFrames)
	return sb.String()
}
