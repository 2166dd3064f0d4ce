package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/numderiv/internal/providers/math/derivative"
)

func testDocument() Document {
	return Document{
		Expression: "x ** 2",
		Step:       1e-5,
		Samples: []derivative.Sample{
			{X: -1, Fx: 1, Forward: -1.99999, Backward: -2.00001, Central: -2, FivePoint: -2, Second: 2},
			{X: 0.5, Fx: 0.25, Forward: 1.00001, Backward: 0.99999, Central: 1, FivePoint: 1, Second: 2},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testDocument(), Options{}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{"-1", "1", "-1.99999", "-2.00001", "-2", "-2", "2"}, rows[1])
	assert.Equal(t, "0.5", rows[2][0])
}

func TestWriteCSVEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Document{Expression: "1/x"}, Options{Format: FormatCSV}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteStructuredFormats(t *testing.T) {
	doc := testDocument()

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, doc, Options{Format: FormatJSON}))

		var decoded Document
		require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, doc, decoded)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, doc, Options{Format: FormatYAML}))
		assert.Contains(t, buf.String(), "expression:")
		assert.Contains(t, buf.String(), "x ** 2")
		assert.Contains(t, buf.String(), "five_point:")
	})

	t.Run("toml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, doc, Options{Format: FormatTOML}))
		assert.Contains(t, buf.String(), "[[samples]]")
		assert.Contains(t, buf.String(), "expression = 'x ** 2'")
	})
}

func TestWriteCompressed(t *testing.T) {
	var plain bytes.Buffer
	require.NoError(t, Write(&plain, testDocument(), Options{Format: FormatCSV}))

	t.Run("gzip", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, testDocument(), Options{Format: FormatCSV, Compression: CompressionGzip}))

		zr, err := gzip.NewReader(&buf)
		require.NoError(t, err)
		got, err := io.ReadAll(zr)
		require.NoError(t, err)
		assert.Equal(t, plain.Bytes(), got)
	})

	t.Run("zstd", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, testDocument(), Options{Format: FormatCSV, Compression: CompressionZstd}))

		zr, err := zstd.NewReader(&buf)
		require.NoError(t, err)
		defer zr.Close()
		got, err := io.ReadAll(zr)
		require.NoError(t, err)
		assert.Equal(t, plain.Bytes(), got)
	})
}

func TestParse(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xlsx")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	c, err := ParseCompression("gz")
	require.NoError(t, err)
	assert.Equal(t, CompressionGzip, c)

	_, err = ParseCompression("bzip2")
	assert.ErrorIs(t, err, ErrUnknownCompression)

	err = Write(io.Discard, testDocument(), Options{Format: "xlsx"})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFilenameAndContentType(t *testing.T) {
	assert.Equal(t, "derivatives.csv", Filename("derivatives", Options{}))
	assert.Equal(t, "derivatives.json.zst", Filename("derivatives", Options{Format: FormatJSON, Compression: CompressionZstd}))
	assert.Equal(t, "text/csv", ContentType(Options{}))
	assert.Equal(t, "application/gzip", ContentType(Options{Format: FormatYAML, Compression: CompressionGzip}))
	assert.Equal(t, "application/toml", ContentType(Options{Format: FormatTOML}))
}
