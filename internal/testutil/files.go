package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// WriteCompressed writes content to dir/name compressed according to the
// name's suffix, ".gz" or ".zst".
func WriteCompressed(t testing.TB, dir, name, content string) string {
	t.Helper()

	var buf bytes.Buffer
	switch filepath.Ext(name) {
	case ".gz":
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
	case ".zst":
		zw, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, err = zw.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
	default:
		t.Fatalf("WriteCompressed: unsupported suffix in %q", name)
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}
