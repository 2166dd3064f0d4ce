// Package export writes derivative series as CSV, JSON, YAML or TOML, optionally compressed.
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/numderiv/internal/providers/math/derivative"
)

// Format is an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Compression wraps the encoded output.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

var (
	ErrUnknownFormat      = errors.New("export: unknown format")
	ErrUnknownCompression = errors.New("export: unknown compression")
)

// CSVHeader is the first row of CSV output.
var CSVHeader = []string{"x", "f(x)", "f'(x) forward", "f'(x) backward", "f'(x) central", "f'(x) five-point", "f''(x)"}

// Document is what gets exported: the formula, the step and the samples.
type Document struct {
	Expression string              `json:"expression" yaml:"expression" toml:"expression"`
	Step       float64             `json:"h" yaml:"h" toml:"h"`
	Samples    []derivative.Sample `json:"samples" yaml:"samples" toml:"samples"`
}

// Options selects format and compression. Zero values mean CSV, uncompressed.
type Options struct {
	Format      Format
	Compression Compression
}

// ParseFormat resolves a format name; "" means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case "yml":
		return FormatYAML, nil
	case FormatCSV, FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ParseCompression resolves a compression name; "" means none.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CompressionNone, nil
	case "gz":
		return CompressionGzip, nil
	case "zst":
		return CompressionZstd, nil
	case CompressionNone, CompressionGzip, CompressionZstd:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCompression, s)
}

// Filename returns base with the extensions for opts, e.g. "derivatives.csv.gz".
func Filename(base string, opts Options) string {
	name := base + "." + string(orDefault(opts).Format)
	switch opts.Compression {
	case CompressionGzip:
		name += ".gz"
	case CompressionZstd:
		name += ".zst"
	}
	return name
}

// ContentType returns the MIME type of the output for opts.
func ContentType(opts Options) string {
	switch opts.Compression {
	case CompressionGzip:
		return "application/gzip"
	case CompressionZstd:
		return "application/zstd"
	}
	switch orDefault(opts).Format {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatTOML:
		return "application/toml"
	}
	return "text/csv"
}

func orDefault(opts Options) Options {
	if opts.Format == "" {
		opts.Format = FormatCSV
	}
	if opts.Compression == "" {
		opts.Compression = CompressionNone
	}
	return opts
}

// Write encodes doc to w.
func Write(w io.Writer, doc Document, opts Options) error {
	opts = orDefault(opts)

	var (
		out    io.Writer = w
		closer io.Closer
	)
	switch opts.Compression {
	case CompressionNone:
	case CompressionGzip:
		gz := gzip.NewWriter(w)
		out, closer = gz, gz
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("export: zstd writer: %w", err)
		}
		out, closer = zw, zw
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCompression, opts.Compression)
	}

	if err := encode(out, doc, opts.Format); err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return err
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("export: finish %s stream: %w", opts.Compression, err)
		}
	}
	return nil
}

func encode(w io.Writer, doc Document, format Format) error {
	if doc.Samples == nil {
		doc.Samples = []derivative.Sample{}
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		return writeCSV(w, doc.Samples)
	case FormatJSON:
		data, err = sonic.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	case FormatTOML:
		data, err = toml.Marshal(doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("export: encode %s: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}

func writeCSV(w io.Writer, samples []derivative.Sample) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	row := make([]string, len(CSVHeader))
	for _, s := range samples {
		for i, v := range s.Values() {
			row[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: write csv: %w", err)
	}
	return bw.Flush()
}
