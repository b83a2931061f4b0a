package exporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the stream compression wrapped around a format.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// Compressions lists the accepted names.
var Compressions = []Compression{CompressionNone, CompressionZstd, CompressionLZ4}

// ParseCompression accepts a compression name; "" means none.
func ParseCompression(name string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(name))); c {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionZstd, CompressionLZ4:
		return c, nil
	default:
		return "", fmt.Errorf("invalid compression: %s (valid: none, zstd, lz4)", name)
	}
}

// Extension is the file suffix appended after the format extension.
func (c Compression) Extension() string {
	switch c {
	case CompressionZstd:
		return ".zst"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// SplitCompression strips a known compression suffix from path.
func SplitCompression(path string) (string, Compression) {
	lower := strings.ToLower(path)
	for _, c := range []Compression{CompressionZstd, CompressionLZ4} {
		if ext := c.Extension(); strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)], c
		}
	}
	return path, CompressionNone
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Compress wraps w. Closing the result flushes the compressed frame but
// leaves w open.
func Compress(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return enc, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionNone, "":
		return nopWriteCloser{w}, nil
	default:
		return nil, fmt.Errorf("invalid compression: %s", c)
	}
}

// Decompress wraps r. The returned release func frees decoder state.
func Decompress(r io.Reader, c Compression) (io.Reader, func(), error) {
	switch c {
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd reader: %w", err)
		}
		return dec, dec.Close, nil
	case CompressionLZ4:
		return lz4.NewReader(r), func() {}, nil
	case CompressionNone, "":
		return r, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("invalid compression: %s", c)
	}
}
