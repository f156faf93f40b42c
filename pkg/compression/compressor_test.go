package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []byte(strings.Repeat("id,name,price\n1,Widget,2.5\n2,Gadget,10\n", 50))

func roundTrip(t *testing.T, alg Algorithm, level Level, parts ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, p := range parts {
		w, err := NewWriter(&buf, alg, level)
		require.NoError(t, err)
		_, err = w.Write(p)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}

	r, err := NewReader(&buf, alg)
	require.NoError(t, err)
	defer r.Close()
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return out
}

func TestRoundTrip(t *testing.T) {
	for _, alg := range []Algorithm{None, Gzip, Zstd, Snappy, S2, LZ4} {
		for _, level := range []Level{Fastest, Default, Best} {
			t.Run(string(alg), func(t *testing.T) {
				assert.Equal(t, sample, roundTrip(t, alg, level, sample))
			})
		}
	}
}

func TestConcatenatedStreams(t *testing.T) {
	first, second := sample[:100], sample[100:]
	for _, alg := range []Algorithm{Gzip, Zstd, Snappy, S2} {
		t.Run(string(alg), func(t *testing.T) {
			assert.Equal(t, sample, roundTrip(t, alg, Default, first, second))
		})
	}
}

func TestFromPath(t *testing.T) {
	tests := map[string]Algorithm{
		"out.csv":         None,
		"out.json.gz":     Gzip,
		"out.csv.ZST":     Zstd,
		"out.json.lz4":    LZ4,
		"out.csv.sz":      Snappy,
		"out.csv.s2":      S2,
		"dir.gz/out.json": None,
	}
	for path, want := range tests {
		assert.Equal(t, want, FromPath(path), path)
	}
	assert.Equal(t, "out.json", StripSuffix("out.json.gz"))
	assert.Equal(t, "out.json", StripSuffix("out.json"))
}

func TestParse(t *testing.T) {
	alg, err := ParseAlgorithm("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, Zstd, alg)

	alg, err = ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, None, alg)

	_, err = ParseAlgorithm("brotli")
	assert.Error(t, err)

	level, err := ParseLevel("best")
	require.NoError(t, err)
	assert.Equal(t, Best, level)

	_, err = ParseLevel("max")
	assert.Error(t, err)
}
