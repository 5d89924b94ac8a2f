package diskfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocateReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	f, err := Open(path, 64)
	require.NoError(t, err)
	defer f.Close()

	p, err := f.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, 0, p.PageNumber())

	require.NoError(t, p.SetInt(0, 123))
	require.NoError(t, f.WritePage(p))

	read, err := f.ReadPage(0)
	require.NoError(t, err)
	n, err := read.GetInt(0)
	require.NoError(t, err)
	require.Equal(t, 123, n)
}

func TestDeletePageReusesSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	f, err := Open(path, 32)
	require.NoError(t, err)
	defer f.Close()

	p1, err := f.AllocatePage()
	require.NoError(t, err)
	_, err = f.AllocatePage()
	require.NoError(t, err)

	require.NoError(t, f.DeletePage(p1.PageNumber()))

	p3, err := f.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, p1.PageNumber(), p3.PageNumber())
}

func TestReadOutOfRangeFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	f, err := Open(path, 32)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.ReadPage(5)
	require.Error(t, err)
}

func TestReopenPreservesPageCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	f, err := Open(path, 16)
	require.NoError(t, err)
	_, err = f.AllocatePage()
	require.NoError(t, err)
	_, err = f.AllocatePage()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f2, err := Open(path, 16)
	require.NoError(t, err)
	defer f2.Close()

	p, err := f2.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, 2, p.PageNumber())
}
