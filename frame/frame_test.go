package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"clockbuf/page"
)

type fakeFile struct{ name string }

func (f *fakeFile) ReadPage(int) (*page.Page, error)  { return nil, nil }
func (f *fakeFile) WritePage(*page.Page) error        { return nil }
func (f *fakeFile) AllocatePage() (*page.Page, error) { return nil, nil }
func (f *fakeFile) DeletePage(int) error              { return nil }
func (f *fakeFile) Filename() string                  { return f.name }

func TestNewTableAllInvalid(t *testing.T) {
	tbl := New(3)
	require.Equal(t, 3, tbl.Len())
	for i := 0; i < 3; i++ {
		d := tbl.Get(i)
		require.False(t, d.Valid)
		require.Equal(t, i, d.FrameNo)
		require.Equal(t, 0, d.PinCount)
	}
	require.Equal(t, 0, tbl.ValidCount())
}

func TestSetClearRoundTrip(t *testing.T) {
	tbl := New(1)
	d := tbl.Get(0)
	f := &fakeFile{name: "a.db"}

	d.Set(f, 5)
	require.True(t, d.Valid)
	require.Equal(t, f, d.File)
	require.Equal(t, 5, d.PageNo)
	require.Equal(t, 1, d.PinCount)
	require.False(t, d.Dirty)
	require.False(t, d.RefBit)
	require.Equal(t, 1, tbl.ValidCount())

	d.RefBit = true
	d.Dirty = true
	d.Clear()
	require.False(t, d.Valid)
	require.Nil(t, d.File)
	require.Equal(t, 0, d.PinCount)
	require.False(t, d.Dirty)
	require.False(t, d.RefBit)
	require.Equal(t, 0, tbl.ValidCount())
}

func TestFrameNoImmutableAcrossSetClear(t *testing.T) {
	tbl := New(4)
	d := tbl.Get(2)
	f := &fakeFile{name: "a.db"}
	d.Set(f, 0)
	require.Equal(t, 2, d.FrameNo)
	d.Clear()
	require.Equal(t, 2, d.FrameNo)
}
