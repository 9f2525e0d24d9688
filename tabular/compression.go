package tabular

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/nao1215/ddlinfer/domain/model"
)

// magicLen is the number of leading bytes inspected for compression magic numbers
const magicLen = 6

// NewDecompressor wraps reader with a decompression reader for the given compression type.
// The returned close function must be called once the reader is exhausted.
func NewDecompressor(compression model.CompressionType, reader io.Reader) (io.Reader, func() error, error) {
	switch compression {
	case model.CompressionNone:
		return reader, func() error { return nil }, nil

	case model.CompressionGZ:
		gzReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzReader, gzReader.Close, nil

	case model.CompressionBZ2:
		// bzip2.NewReader doesn't need closing
		return bzip2.NewReader(reader), func() error { return nil }, nil

	case model.CompressionXZ:
		xzReader, err := xz.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		// xz.Reader doesn't have a Close method
		return xzReader, func() error { return nil }, nil

	case model.CompressionZSTD:
		decoder, err := zstd.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder, func() error {
			decoder.Close()
			return nil
		}, nil

	default:
		return nil, nil, fmt.Errorf("%w: compression %v", ErrUnsupportedFormat, compression)
	}
}

// autoDecompress decompresses reader, sniffing the magic bytes when compression is not known.
func autoDecompress(compression model.CompressionType, reader io.Reader) (io.Reader, func() error, error) {
	if compression != model.CompressionNone {
		return NewDecompressor(compression, reader)
	}
	br := bufio.NewReader(reader)
	head, err := br.Peek(magicLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, nil, fmt.Errorf("failed to read resource: %w", err)
	}
	return NewDecompressor(model.CompressionFromMagic(head), br)
}

// NewCompressor wraps writer with a compression writer for the given compression type.
// The returned close function flushes the compressed stream and must be called.
func NewCompressor(compression model.CompressionType, writer io.Writer) (io.Writer, func() error, error) {
	switch compression {
	case model.CompressionNone:
		return writer, func() error { return nil }, nil

	case model.CompressionGZ:
		gzWriter := gzip.NewWriter(writer)
		return gzWriter, gzWriter.Close, nil

	case model.CompressionXZ:
		xzWriter, err := xz.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		return xzWriter, xzWriter.Close, nil

	case model.CompressionZSTD:
		zstdWriter, err := zstd.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zstdWriter, zstdWriter.Close, nil

	default:
		// bzip2 has no writer in the standard library
		return nil, nil, fmt.Errorf("%w: %v compression is not supported for writing", ErrUnsupportedFormat, compression)
	}
}
