//go:build !errgen

package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"errgen/errkit"
)

func openTemp(t *testing.T) (*Cache, string) {
	t.Helper()
	dir := t.TempDir()
	c, err := Open(dir)
	require.NoError(t, err)
	return c, dir
}

func TestPutGet(t *testing.T) {
	c, _ := openTemp(t)
	require.NoError(t, c.Put("k", []byte("v")))
	data, err := c.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)

	n, err := c.Size("k")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTopLevelErrorRendersChainAndHelp(t *testing.T) {
	c, dir := openTemp(t)
	p := filepath.Join(dir, "k.entry")
	require.NoError(t, os.Mkdir(p, 0o755), "a directory cannot be read as an entry")

	_, err := c.Get("k")
	require.Error(t, err)

	var load *CacheErrorLoad
	require.ErrorAs(t, err, &load)
	var read *StoreErrorRead
	require.ErrorAs(t, err, &read)
	var pathErr *fs.PathError
	require.ErrorAs(t, err, &pathErr)

	assert.Equal(t, p, read.Path)
	assert.True(t, strings.HasPrefix(load.Location.String(), "cache/cache.go:"), load.Location.String())

	want := fmt.Sprintf("cannot load %q (at %s)\n", "k", load.Location) +
		fmt.Sprintf("Caused by: cannot read %s\n", p) +
		fmt.Sprintf("Caused by: %s\n", pathErr) +
		"Help: run `cache fsck` to rebuild the index\n" +
		fmt.Sprintf("Help: check permissions on %s\n", p)
	assert.Equal(t, want, err.Error())
	assert.Equal(t, want, fmt.Sprintf("%v", err))
	assert.Equal(t, want, fmt.Sprintf("%+v", err), "debug rendering equals display")
}

func TestConstructorCapturesCallSite(t *testing.T) {
	line := errkit.Here().Line + 1
	err := NewCacheErrorClosed()

	assert.Equal(t, line, err.Location.Line)
	assert.True(t, strings.HasSuffix(err.Location.File, "cache_test.go"))
	assert.Equal(t, fmt.Sprintf("cache is closed (at %s)\n\n", err.Location), err.Error())
	assert.NoError(t, err.Unwrap())
}

func TestClosedCache(t *testing.T) {
	c, _ := openTemp(t)
	require.NoError(t, c.Close())

	err := c.Close()
	var closed *CacheErrorClosed
	require.ErrorAs(t, err, &closed)
	assert.True(t, strings.HasPrefix(closed.Location.String(), "cache/cache.go:"))

	_, err = c.Get("k")
	assert.ErrorAs(t, err, &closed)
	assert.ErrorAs(t, c.Put("k", nil), &closed)
}

func TestNotFoundDropsCause(t *testing.T) {
	c, _ := openTemp(t)
	_, err := c.Get("nope")
	var nf *CacheErrorNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.Key)
	assert.Equal(t, "key \"nope\" not found\n\n", err.Error())
	assert.False(t, errors.Is(err, fs.ErrNotExist))
}

func TestMissingSize(t *testing.T) {
	c, _ := openTemp(t)
	n, err := c.Size("nope")
	assert.Zero(t, n)
	var nf *CacheErrorNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.Key)
}

func TestCorruptEntry(t *testing.T) {
	c, dir := openTemp(t)
	big := make([]byte, maxEntry+1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.entry"), big, 0o644))

	_, err := c.Get("big")
	var corrupt *StoreErrorCorrupt
	require.ErrorAs(t, err, &corrupt)
	var load *CacheErrorLoad
	require.ErrorAs(t, err, &load)

	want := fmt.Sprintf("cannot load \"big\" (at %s)\n", load.Location) +
		"Caused by: entry \"big\" is corrupt (65537 bytes, limit 65536)\n" +
		"\n" +
		"Help: run `cache fsck` to rebuild the index\n"
	assert.Equal(t, want, err.Error())
}

func TestOpenFailureKeepsCause(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := Open(filepath.Join(file, "sub"))
	var werr *StoreErrorWrite
	require.ErrorAs(t, err, &werr)
	assert.True(t, strings.HasPrefix(err.Error(), "cannot write "+filepath.Join(file, "sub")+"\nCaused by: "))
	var pathErr *fs.PathError
	assert.ErrorAs(t, err, &pathErr)
}

func TestHelpIsProvidedOnRequest(t *testing.T) {
	h, ok := errkit.RequestValue[errkit.Help](&StoreErrorRead{Path: "/x"})
	require.True(t, ok)
	assert.Equal(t, "Help: check permissions on /x\n", h.String())

	_, ok = errkit.RequestValue[errkit.Help](&StoreErrorWrite{Path: "/x"})
	assert.False(t, ok, "variants without help decline")
}

func TestMissingCauseIsNil(t *testing.T) {
	var load CacheError = &CacheErrorLoad{Key: "k"}
	assert.NoError(t, load.Unwrap())
	assert.Equal(t, "cannot load \"k\" (at <unknown>)\n\nHelp: run `cache fsck` to rebuild the index\n", load.Error())
}

func TestBindShapes(t *testing.T) {
	cause := errors.New("boom")

	err := errkit.Context(cause, Read{Path: "p"})
	assert.ErrorIs(t, err, cause)

	err = errkit.Context(cause, NotFound{Key: "k"})
	assert.NotErrorIs(t, err, cause)

	err = errkit.ContextOK(false, Corrupt{Key: "k"})
	var corrupt *StoreErrorCorrupt
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, "k", corrupt.Key)

	assert.NoError(t, errkit.Context(nil, Read{Path: "p"}))
	assert.Same(t, cause, errkit.ContextAs(cause, Load{Key: "k"}.Bind), "nothing to bind to")
}

func TestConcurrentRendering(t *testing.T) {
	c, dir := openTemp(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "k.entry"), 0o755))
	_, err := c.Get("k")
	require.Error(t, err)
	want := err.Error()

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			assert.Equal(t, want, err.Error())
		})
	}
	wg.Wait()
}
