// Package elf reads the DT_NEEDED entries of ELF64 shared objects.
package elf

import (
	"debug/elf"
	"encoding/binary"

	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/modloader/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Extractor = (*Extractor)(nil)

const (
	ehdrSize     = 64
	shdrSize     = 64
	dynEntrySize = 16

	offShoff     = 40
	offShentsize = 58
	offShnum     = 60

	shOffType    = 4
	shOffOffset  = 24
	shOffSize    = 32
	shOffLink    = 40
	shOffEntsize = 56
)

// Extractor reads dependency names from the dynamic section of ELF64 files.
// It holds no state and is safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Needed maps the file at path read-only and returns its DT_NEEDED names in file order.
// The mapping is released before Needed returns; the names are copies.
func (e *Extractor) Needed(path string) (names []string, err error) {
	data, release, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if relErr := release(); relErr != nil && err == nil {
			names = nil
			err = domain.Classify(domain.ErrIO, zerr.With(zerr.Wrap(relErr, "failed to unmap shared object"), "path", path))
		}
	}()

	names, err = parseNeeded(data)
	if err != nil {
		return nil, domain.Classify(domain.ErrFormat, zerr.With(err, "path", path))
	}
	return names, nil
}

type sectionHeader struct {
	typ     elf.SectionType
	offset  uint64
	size    uint64
	link    uint32
	entsize uint64
}

// parseNeeded interprets data as an ELF64 image and collects its DT_NEEDED names.
func parseNeeded(data []byte) ([]string, error) {
	v, err := newView(data)
	if err != nil {
		return nil, err
	}

	shoff, err := v.u64(offShoff)
	if err != nil {
		return nil, err
	}
	if shoff == 0 {
		return nil, nil
	}

	shentsize, err := v.u16(offShentsize)
	if err != nil {
		return nil, err
	}
	if shentsize < shdrSize {
		return nil, zerr.With(zerr.New("section header entry too small"), "shentsize", shentsize)
	}

	table := sectionTable{v: v, offset: shoff, entsize: uint64(shentsize)}
	if err := table.countSections(); err != nil {
		return nil, err
	}

	var names []string
	for i := range table.count {
		sh, err := table.section(i)
		if err != nil {
			return nil, err
		}
		if sh.typ != elf.SHT_DYNAMIC {
			continue
		}

		found, err := table.neededIn(sh)
		if err != nil {
			return nil, zerr.With(err, "section", i)
		}
		names = append(names, found...)
	}

	return names, nil
}

func newView(data []byte) (view, error) {
	if len(data) < ehdrSize {
		return view{}, zerr.With(zerr.New("file too small for an ELF header"), "size", len(data))
	}
	if string(data[:len(elf.ELFMAG)]) != elf.ELFMAG {
		return view{}, zerr.New("missing ELF magic")
	}
	if elf.Class(data[elf.EI_CLASS]) != elf.ELFCLASS64 {
		return view{}, zerr.With(zerr.New("not a 64-bit ELF file"), "class", elf.Class(data[elf.EI_CLASS]).String())
	}

	switch elf.Data(data[elf.EI_DATA]) {
	case elf.ELFDATA2LSB:
		return view{data: data, order: binary.LittleEndian}, nil
	case elf.ELFDATA2MSB:
		return view{data: data, order: binary.BigEndian}, nil
	default:
		return view{}, zerr.New("unknown ELF data encoding")
	}
}

type sectionTable struct {
	v       view
	offset  uint64
	entsize uint64
	count   uint64
}

// countSections reads e_shnum, falling back to the extended count stored in
// section 0 when e_shnum is zero, and checks the table fits in the file.
func (t *sectionTable) countSections() error {
	shnum, err := t.v.u16(offShnum)
	if err != nil {
		return err
	}
	t.count = uint64(shnum)

	if t.count == 0 {
		t.count, err = t.v.u64(t.offset + shOffSize)
		if err != nil {
			return err
		}
	}

	if t.offset > t.v.size() || t.count > (t.v.size()-t.offset)/t.entsize {
		return zerr.With(zerr.With(zerr.New("section header table out of bounds"), "shoff", t.offset), "shnum", t.count)
	}
	return nil
}

func (t *sectionTable) section(i uint64) (sectionHeader, error) {
	if i >= t.count {
		return sectionHeader{}, zerr.With(zerr.New("section index out of range"), "index", i)
	}
	base := t.offset + i*t.entsize

	typ, err := t.v.u32(base + shOffType)
	if err != nil {
		return sectionHeader{}, err
	}
	offset, err := t.v.u64(base + shOffOffset)
	if err != nil {
		return sectionHeader{}, err
	}
	size, err := t.v.u64(base + shOffSize)
	if err != nil {
		return sectionHeader{}, err
	}
	link, err := t.v.u32(base + shOffLink)
	if err != nil {
		return sectionHeader{}, err
	}
	entsize, err := t.v.u64(base + shOffEntsize)
	if err != nil {
		return sectionHeader{}, err
	}

	return sectionHeader{
		typ:     elf.SectionType(typ),
		offset:  offset,
		size:    size,
		link:    link,
		entsize: entsize,
	}, nil
}

// neededIn walks the (tag, value) entries of a dynamic section up to DT_NULL.
func (t *sectionTable) neededIn(dyn sectionHeader) ([]string, error) {
	entsize := dyn.entsize
	if entsize == 0 {
		entsize = dynEntrySize
	}
	if entsize < dynEntrySize {
		return nil, zerr.With(zerr.New("dynamic entry too small"), "entsize", entsize)
	}

	entries, err := t.v.slice(dyn.offset, dyn.size)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 && entsize > uint64(len(entries)) {
		return nil, zerr.With(zerr.New("dynamic entry larger than its section"), "entsize", entsize)
	}

	strtab, err := t.section(uint64(dyn.link))
	if err != nil {
		return nil, zerr.Wrap(err, "dynamic section links to a missing string table")
	}
	if strtab.typ != elf.SHT_STRTAB {
		return nil, zerr.With(zerr.New("dynamic section link is not a string table"), "link", dyn.link)
	}
	strs, err := t.v.slice(strtab.offset, strtab.size)
	if err != nil {
		return nil, err
	}

	// Entry offsets are derived from the count so that entsize cannot wrap them.
	var count uint64
	if uint64(len(entries)) >= dynEntrySize {
		count = (uint64(len(entries))-dynEntrySize)/entsize + 1
	}

	var names []string
	for i := range count {
		off := i * entsize
		tag := elf.DynTag(int64(t.v.order.Uint64(entries[off:])))
		val := t.v.order.Uint64(entries[off+8:])

		if tag == elf.DT_NULL {
			break
		}
		if tag != elf.DT_NEEDED {
			continue
		}

		name, err := cstring(strs, val)
		if err != nil {
			return nil, err
		}
		if name == "" {
			continue
		}
		names = append(names, name)
	}

	return names, nil
}
