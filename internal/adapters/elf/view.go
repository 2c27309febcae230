package elf

import (
	"bytes"
	"encoding/binary"

	"go.trai.ch/zerr"
)

// view is a bounds-checked window over the bytes of a mapped file.
// Every accessor validates offset and length against the mapping before decoding.
type view struct {
	data  []byte
	order binary.ByteOrder
}

func (v view) size() uint64 {
	return uint64(len(v.data))
}

// slice returns data[off:off+n] or an error when the range leaves the mapping.
func (v view) slice(off, n uint64) ([]byte, error) {
	end := off + n
	if end < off || end > v.size() {
		return nil, outOfBounds(off, n, v.size())
	}
	return v.data[off:end], nil
}

func (v view) u16(off uint64) (uint16, error) {
	b, err := v.slice(off, 2)
	if err != nil {
		return 0, err
	}
	return v.order.Uint16(b), nil
}

func (v view) u32(off uint64) (uint32, error) {
	b, err := v.slice(off, 4)
	if err != nil {
		return 0, err
	}
	return v.order.Uint32(b), nil
}

func (v view) u64(off uint64) (uint64, error) {
	b, err := v.slice(off, 8)
	if err != nil {
		return 0, err
	}
	return v.order.Uint64(b), nil
}

// cstring copies the NUL-terminated string starting at off inside table.
func cstring(table []byte, off uint64) (string, error) {
	if off >= uint64(len(table)) {
		return "", outOfBounds(off, 1, uint64(len(table)))
	}
	rest := table[off:]
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		return "", zerr.With(zerr.New("string is not NUL-terminated"), "offset", off)
	}
	return string(rest[:end]), nil
}

func outOfBounds(off, n, limit uint64) error {
	err := zerr.With(zerr.New("read out of bounds"), "offset", off)
	err = zerr.With(err, "length", n)
	return zerr.With(err, "limit", limit)
}
