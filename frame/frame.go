// Package frame holds the fixed-size frame descriptor table: one record per
// buffer pool slot carrying its occupancy and clock-replacement state.
package frame

import "clockbuf/page"

// Descriptor carries one frame's replacement-policy state. FrameNo is fixed
// at construction; everything else is mutated by the buffer manager under
// the rules documented on bufmgr.Manager's methods.
type Descriptor struct {
	FrameNo  int
	Valid    bool
	File     page.File
	PageNo   int
	PinCount int
	Dirty    bool
	RefBit   bool
}

// Set transitions the descriptor to valid state: pin count 1, clean, no
// second chance yet, bound to (file, pageNo).
func (d *Descriptor) Set(file page.File, pageNo int) {
	d.Valid = true
	d.File = file
	d.PageNo = pageNo
	d.PinCount = 1
	d.Dirty = false
	d.RefBit = false
}

// Clear resets the descriptor to the unoccupied state.
func (d *Descriptor) Clear() {
	d.Valid = false
	d.File = nil
	d.PageNo = 0
	d.PinCount = 0
	d.Dirty = false
	d.RefBit = false
}

// Table is the dense array of num_frames descriptors.
type Table struct {
	descriptors []Descriptor
}

// New builds a Table of numFrames descriptors, all initially invalid.
func New(numFrames int) *Table {
	t := &Table{descriptors: make([]Descriptor, numFrames)}
	for i := range t.descriptors {
		t.descriptors[i].FrameNo = i
	}
	return t
}

// Get returns a pointer to the descriptor for frame i, for in-place
// mutation by the buffer manager.
func (t *Table) Get(i int) *Descriptor {
	return &t.descriptors[i]
}

// Len returns the number of frames in the table.
func (t *Table) Len() int {
	return len(t.descriptors)
}

// ValidCount returns how many frames are currently valid, for introspection.
func (t *Table) ValidCount() int {
	n := 0
	for i := range t.descriptors {
		if t.descriptors[i].Valid {
			n++
		}
	}
	return n
}
