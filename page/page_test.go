package page

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageIntRoundTrip(t *testing.T) {
	p := New(64)
	require.NoError(t, p.SetInt(0, 42))
	n, err := p.GetInt(0)
	require.NoError(t, err)
	require.Equal(t, 42, n)
}

func TestPageStringRoundTrip(t *testing.T) {
	p := New(64)
	require.NoError(t, p.SetString(4, "hello"))
	s, err := p.GetString(4)
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestPageOutOfBounds(t *testing.T) {
	p := New(8)
	require.Error(t, p.SetInt(6, 1))
	require.Error(t, p.SetString(0, "too long for this page"))
}

func TestPageNumberDefaultsToUnassigned(t *testing.T) {
	p := New(8)
	require.Equal(t, -1, p.PageNumber())
	p.SetPageNumber(3)
	require.Equal(t, 3, p.PageNumber())
}

func TestPageClone(t *testing.T) {
	p := New(8)
	require.NoError(t, p.SetInt(0, 7))
	p.SetPageNumber(1)
	cp := p.Clone()
	require.NoError(t, p.SetInt(0, 99))
	n, err := cp.GetInt(0)
	require.NoError(t, err)
	require.Equal(t, 7, n, "clone must be independent of the original's later mutations")
}
