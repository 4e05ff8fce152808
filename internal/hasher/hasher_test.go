package hasher

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	a := Sum([]byte("variant"))
	assert.Len(t, a, 16)
	assert.Equal(t, a, Sum([]byte("variant")))
	assert.NotEqual(t, a, Sum([]byte("variant2")))

	// xxhash64 of the empty input
	assert.Equal(t, "ef46db3751d8e999", Sum(nil))
}

func TestSumReaderMatchesSum(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 10_000)
	got, err := SumReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Sum(data), got)
}

func TestSumFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.bin")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	got, err := SumFile(path)
	require.NoError(t, err)
	assert.Equal(t, Sum([]byte("abc")), got)

	_, err = SumFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
