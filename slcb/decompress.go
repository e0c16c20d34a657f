package slcb

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"

	"github.com/rs/zerolog/log"
)

// ReadHeader validates the magic and returns the container header.
func ReadHeader(data []byte) (Header, error) {
	var header Header

	if len(data) < HeaderSize {
		return header, formatErrorf(ErrTruncated, "got %v bytes, need at least %v", len(data), HeaderSize)
	}

	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &header); err != nil {
		return header, &FormatError{Err: ErrTruncated, Reason: err.Error()}
	}

	if string(header.Magic[:]) != Magic {
		return header, formatErrorf(ErrBadMagic, "expected %q, got %q", Magic, header.Magic[:])
	}

	return header, nil
}

// Decompress validates a save container and inflates its payload. The result
// is exactly Header.DecompressedSize bytes long or an error is returned.
func Decompress(data []byte) ([]byte, error) {
	header, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	end := uint64(HeaderSize) + uint64(header.CompressedSize)
	if end > uint64(len(data)) {
		return nil, formatErrorf(ErrTruncated, "compressed size %v exceeds %v available bytes",
			header.CompressedSize, len(data)-HeaderSize)
	}

	reader, err := zlib.NewReader(bytes.NewReader(data[HeaderSize:end]))
	if err != nil {
		return nil, &FormatError{Err: ErrInflate, Reason: err.Error()}
	}
	defer reader.Close()

	// one byte of slack so an oversized payload shows up as a mismatch
	limit := int64(header.DecompressedSize) + 1
	inflated, err := io.ReadAll(io.LimitReader(reader, limit))
	if err != nil {
		return nil, &FormatError{Err: ErrInflate, Reason: err.Error()}
	}

	if uint64(len(inflated)) != uint64(header.DecompressedSize) {
		if int64(len(inflated)) == limit {
			return nil, formatErrorf(ErrSizeMismatch, "expected %v, got more", header.DecompressedSize)
		}
		return nil, formatErrorf(ErrSizeMismatch, "expected %v, got %v", header.DecompressedSize, len(inflated))
	}

	log.Debug().
		Uint32("compressed", header.CompressedSize).
		Uint32("decompressed", header.DecompressedSize).
		Msg("[Decompress] container inflated")

	return inflated, nil
}

// Compress builds a container around payload. The game never needs this; it
// exists so fixtures and round-trip checks can produce valid containers.
func Compress(payload []byte) ([]byte, error) {
	var compressed bytes.Buffer

	writer, err := zlib.NewWriterLevel(&compressed, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(payload); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	header := Header{
		DecompressedSize: uint32(len(payload)),
		CompressedSize:   uint32(compressed.Len()),
	}
	copy(header.Magic[:], Magic)

	var out bytes.Buffer
	out.Grow(HeaderSize + compressed.Len())
	if err := binary.Write(&out, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	out.Write(compressed.Bytes())

	return out.Bytes(), nil
}
