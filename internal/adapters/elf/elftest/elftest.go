// Package elftest synthesizes minimal ELF64 shared objects for tests.
package elftest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Image is a synthesized ELF64 file with the offsets tests need to corrupt it.
type Image struct {
	Data []byte
	// DynamicOffset is the file offset of the first dynamic entry.
	DynamicOffset uint64
	// StrtabOffset is the file offset of the string table.
	StrtabOffset uint64
	// SectionHeaderOffset is the file offset of the section header table.
	SectionHeaderOffset uint64

	order binary.ByteOrder
}

// Options controls the shape of a synthesized image.
type Options struct {
	BigEndian bool
	// NoDynamic omits the dynamic section entirely.
	NoDynamic bool
}

// Section indexes of a synthesized image.
const (
	SectionNull    = 0
	SectionStrtab  = 1
	SectionDynamic = 2
)

// Build returns a shared object declaring needed as its DT_NEEDED entries.
// Sections: [0] null, [1] .dynstr, [2] .dynamic linked to [1].
func Build(needed []string, opts Options) *Image {
	var order binary.ByteOrder = binary.LittleEndian
	if opts.BigEndian {
		order = binary.BigEndian
	}

	strtab := []byte{0}
	nameOffsets := make([]uint64, len(needed))
	for i, n := range needed {
		nameOffsets[i] = uint64(len(strtab))
		strtab = append(strtab, n...)
		strtab = append(strtab, 0)
	}

	strOff := uint64(64)
	dynOff := align8(strOff + uint64(len(strtab)))

	var dyn []byte
	if !opts.NoDynamic {
		// A DT_SONAME-like entry the extractor must skip, then the needed entries.
		dyn = appendDyn(dyn, order, 14, 0)
		for _, off := range nameOffsets {
			dyn = appendDyn(dyn, order, 1, off)
		}
		dyn = appendDyn(dyn, order, 0, 0)
		// Entries after DT_NULL are ignored.
		dyn = appendDyn(dyn, order, 1, 0)
	}

	shOff := align8(dynOff + uint64(len(dyn)))
	sections := 3
	if opts.NoDynamic {
		sections = 2
	}
	total := shOff + uint64(sections*64)

	data := make([]byte, total)

	copy(data, []byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0})
	if opts.BigEndian {
		data[5] = 2
	}
	order.PutUint16(data[16:], 3)   // ET_DYN
	order.PutUint16(data[18:], 183) // EM_AARCH64
	order.PutUint32(data[20:], 1)
	order.PutUint64(data[40:], shOff)
	order.PutUint16(data[52:], 64)
	order.PutUint16(data[58:], 64)
	order.PutUint16(data[60:], uint16(sections))

	copy(data[strOff:], strtab)
	copy(data[dynOff:], dyn)

	putSection(data[shOff+64:], order, 3, strOff, uint64(len(strtab)), 0, 0)
	if !opts.NoDynamic {
		putSection(data[shOff+128:], order, 6, dynOff, uint64(len(dyn)), SectionStrtab, 16)
	}

	return &Image{
		Data:                data,
		DynamicOffset:       dynOff + 16,
		StrtabOffset:        strOff,
		SectionHeaderOffset: shOff,
		order:               order,
	}
}

// SetNeededOffset overwrites the string table offset of the i-th DT_NEEDED entry.
func (img *Image) SetNeededOffset(i int, off uint64) {
	img.order.PutUint64(img.Data[img.DynamicOffset+uint64(i)*16+8:], off)
}

// SetSectionField overwrites a 64-bit field of section header idx at field offset.
func (img *Image) SetSectionField(idx int, field, value uint64) {
	img.order.PutUint64(img.Data[img.SectionHeaderOffset+uint64(idx)*64+field:], value)
}

// SetSectionLink overwrites sh_link of section header idx.
func (img *Image) SetSectionLink(idx int, link uint32) {
	img.order.PutUint32(img.Data[img.SectionHeaderOffset+uint64(idx)*64+40:], link)
}

// PutUint16 overwrites a 16-bit header field at off.
func (img *Image) PutUint16(off int, v uint16) {
	img.order.PutUint16(img.Data[off:], v)
}

// PutUint64 overwrites a 64-bit header field at off.
func (img *Image) PutUint64(off int, v uint64) {
	img.order.PutUint64(img.Data[off:], v)
}

// WriteFile writes the image to path, creating parent directories.
func (img *Image) WriteFile(t testing.TB, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, img.Data, 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// Write builds a little-endian shared object declaring needed and writes it to path.
func Write(t testing.TB, path string, needed ...string) string {
	t.Helper()
	return Build(needed, Options{}).WriteFile(t, path)
}

func appendDyn(dyn []byte, order binary.ByteOrder, tag int64, val uint64) []byte {
	entry := make([]byte, 16)
	order.PutUint64(entry, uint64(tag))
	order.PutUint64(entry[8:], val)
	return append(dyn, entry...)
}

func putSection(b []byte, order binary.ByteOrder, typ uint32, off, size uint64, link uint32, entsize uint64) {
	order.PutUint32(b[4:], typ)
	order.PutUint64(b[24:], off)
	order.PutUint64(b[32:], size)
	order.PutUint32(b[40:], link)
	order.PutUint64(b[56:], entsize)
}

func align8(n uint64) uint64 {
	return (n + 7) &^ 7
}
