package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feed runs data through e in pieces of size n, marking the last one eof.
func feed(e Extractor, data []byte, n int) []string {
	var out []string
	for off := 0; off < len(data); off += n {
		end := off + n
		if end > len(data) {
			end = len(data)
		}
		out = append(out, e.Extract(data[off:end], end == len(data))...)
	}
	return out
}

func TestCSVExtractor(t *testing.T) {
	e := NewCSVExtractor(2)

	got := e.Extract([]byte("name,age\nAlice,30\nBo"), false)
	assert.Equal(t, []string{"name,age", "Alice,30"}, got)
	assert.Equal(t, 2, e.Pending())

	got = e.Extract([]byte("b,45\n"), true)
	assert.Equal(t, []string{"Bob,45"}, got)
	assert.Zero(t, e.Pending())
}

func TestCSVExtractorTailAtEOF(t *testing.T) {
	e := NewCSVExtractor(2)
	got := e.Extract([]byte("a,1\nb,2"), true)
	assert.Equal(t, []string{"a,1", "b,2"}, got)
	assert.Zero(t, e.Pending())
}

func TestCSVExtractorLineEndings(t *testing.T) {
	for name, data := range map[string]string{
		"lf":   "a,1\nb,2\n",
		"crlf": "a,1\r\nb,2\r\n",
		"cr":   "a,1\rb,2\r",
	} {
		t.Run(name, func(t *testing.T) {
			e := NewCSVExtractor(2)
			assert.Equal(t, []string{"a,1", "b,2"}, e.Extract([]byte(data), true))
		})
	}
}

func TestCSVExtractorShortLineAccumulates(t *testing.T) {
	e := NewCSVExtractor(4)
	got := e.Extract([]byte("ab\ncd,e\n"), true)
	assert.Equal(t, []string{"abcd,e"}, got)
}

func TestCSVExtractorChunkSizesAgree(t *testing.T) {
	data := []byte("id,name,score\n1,\"Smith, J\",2.5\n2,Lee,3\n\n3,Kim,4.25\n4,\"O\"\"Neil\",1\n")
	whole := feed(NewCSVExtractor(3), data, len(data))
	require.Len(t, whole, 5)

	for n := 1; n <= len(data); n++ {
		assert.Equal(t, whole, feed(NewCSVExtractor(3), data, n), "chunk size %d", n)
	}
}

func TestCSVExtractorReset(t *testing.T) {
	e := NewCSVExtractor(1)
	e.Extract([]byte("partial"), false)
	require.NotZero(t, e.Pending())
	e.Reset()
	assert.Zero(t, e.Pending())
}

func TestJSONExtractor(t *testing.T) {
	e := NewJSONExtractor()

	got := e.Extract([]byte(`[{"name":"Alice","age":30},{"name":"Bo`), false)
	assert.Equal(t, []string{`"name":"Alice","age":30`}, got)
	assert.Equal(t, len(`,{"name":"Bo`), e.Pending())

	got = e.Extract([]byte("b\",\n\"age\":45}\n]"), true)
	assert.Equal(t, []string{`"name":"Bob","age":45`}, got)
	assert.Zero(t, e.Pending())
}

func TestJSONExtractorChunkSizesAgree(t *testing.T) {
	data := []byte("[\r\n  {\"a\": 1, \"b\": \"x,y\"},\r\n  {\"a\": 2, \"b\": \"z\"},\r\n  {\"a\": 3, \"b\": \"\"}\r\n]\r\n")
	whole := feed(NewJSONExtractor(), data, len(data))
	require.Len(t, whole, 3)

	for n := 1; n <= len(data); n++ {
		assert.Equal(t, whole, feed(NewJSONExtractor(), data, n), "chunk size %d", n)
	}
}
