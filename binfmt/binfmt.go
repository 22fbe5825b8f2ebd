// Package binfmt implements the one on-disk primitive the whole
// pipeline is built from: a length-prefixed vector of little-endian
// uint32s. Every binary file the pipeline writes, from a batch index to
// the final concatenated output, is a sequence of these records.
package binfmt

import (
	"encoding/binary"
	"io"
)

// WriteUint32s writes uint32(len(values)) followed by the raw
// little-endian words. Byte order is fixed regardless of host
// endianness.
func WriteUint32s(w io.Writer, values []uint32) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(values)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}

	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}

	_, err := w.Write(buf)
	return err
}

// WriteHeader writes the batch/global index header: a length-prefixed
// record of exactly one element. The length word is redundant by
// design, so the header has the same shape as every document record
// that follows it.
func WriteHeader(w io.Writer, docCount uint32) error {
	return WriteUint32s(w, []uint32{docCount})
}

// ReadUint32s reads one length-prefixed record of little-endian
// uint32s.
func ReadUint32s(r io.Reader) ([]uint32, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint32(lenBuf[:])

	buf := make([]byte, 4*count)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	values := make([]uint32, count)
	for i := range values {
		values[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return values, nil
}

// DecodeUint32At reads the little-endian uint32 at byte offset off in a
// fully buffered (typically memory-mapped) byte slice.
func DecodeUint32At(data []byte, off uint64) uint32 {
	return binary.LittleEndian.Uint32(data[off : off+4])
}

// EncodeUint32At overwrites the little-endian uint32 at byte offset off
// in place.
func EncodeUint32At(data []byte, off uint64, v uint32) {
	binary.LittleEndian.PutUint32(data[off:off+4], v)
}
