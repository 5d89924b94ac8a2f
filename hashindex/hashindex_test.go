package hashindex

import (
	"errors"
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

func TestInsertLookupRemove(t *testing.T) {
	idx := New(4)
	f := &fakeFile{name: "a.db"}

	_, err := idx.Lookup(Key{f, 1})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, idx.Insert(Key{f, 1}, 3))
	frame, err := idx.Lookup(Key{f, 1})
	require.NoError(t, err)
	require.Equal(t, 3, frame)

	require.NoError(t, idx.Remove(Key{f, 1}))
	_, err = idx.Lookup(Key{f, 1})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInsertDuplicateFails(t *testing.T) {
	idx := New(4)
	f := &fakeFile{name: "a.db"}
	require.NoError(t, idx.Insert(Key{f, 1}, 0))
	err := idx.Insert(Key{f, 1}, 1)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDuplicateKey))
}

func TestDistinctFilesSameFilenameAreDistinctKeys(t *testing.T) {
	idx := New(4)
	f1 := &fakeFile{name: "same.db"}
	f2 := &fakeFile{name: "same.db"}

	require.NoError(t, idx.Insert(Key{f1, 1}, 0))
	require.NoError(t, idx.Insert(Key{f2, 1}, 1))

	frame1, err := idx.Lookup(Key{f1, 1})
	require.NoError(t, err)
	frame2, err := idx.Lookup(Key{f2, 1})
	require.NoError(t, err)
	require.NotEqual(t, frame1, frame2)
}

func TestRemoveAbsentFails(t *testing.T) {
	idx := New(4)
	f := &fakeFile{name: "a.db"}
	err := idx.Remove(Key{f, 999})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLen(t *testing.T) {
	idx := New(4)
	f := &fakeFile{name: "a.db"}
	require.Equal(t, 0, idx.Len())
	require.NoError(t, idx.Insert(Key{f, 1}, 0))
	require.NoError(t, idx.Insert(Key{f, 2}, 1))
	require.Equal(t, 2, idx.Len())
	require.NoError(t, idx.Remove(Key{f, 1}))
	require.Equal(t, 1, idx.Len())
}
