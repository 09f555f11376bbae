package main

import (
	"debug/elf"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/marcinbor85/gohex"
	"github.com/pkg/errors"

	"tenacity/hardware/max78000"
)

// segment is a contiguous run of image bytes at an absolute flash address.
type segment struct {
	addr uint32
	data []byte
}

// image is what gets burned: the segments plus the entry point the device
// should record.
type image struct {
	segments []segment
	entry    uint32
	entrySet bool
}

// loadImage reads a firmware image from disk.  Intel hex files go through
// the hex parser; anything else is treated as an ELF binary and its
// loadable program headers become the segments.
func loadImage(path string) (*image, error) {
	if strings.EqualFold(filepath.Ext(path), ".hex") {
		return loadHex(path)
	}
	return loadELF(path)
}

func loadHex(path string) (*image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(f); err != nil {
		return nil, errors.Wrapf(err, "parsing hex file %s", path)
	}

	img := &image{}
	for _, seg := range mem.GetDataSegments() {
		img.segments = append(img.segments, segment{addr: seg.Address, data: seg.Data})
	}
	if addr, ok := mem.GetStartAddress(); ok {
		img.entry = addr
		img.entrySet = true
	}
	return img, checkImage(img)
}

func loadELF(path string) (*image, error) {
	fp, err := elf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer fp.Close()

	img := &image{entry: uint32(fp.Entry), entrySet: true}
	for _, prog := range fp.Progs {
		if prog.Type != elf.PT_LOAD || prog.Filesz == 0 {
			continue
		}
		data := make([]byte, prog.Filesz)
		if _, err := prog.ReadAt(data, 0); err != nil {
			return nil, errors.Wrapf(err, "reading segment at %08x", prog.Paddr)
		}
		img.segments = append(img.segments, segment{addr: uint32(prog.Paddr), data: data})
	}
	return img, checkImage(img)
}

// checkImage rejects images that are not entirely inside the flash window.
// The device would refuse the writes anyway, but there is no reason to find
// that out one line at a time over a serial link.
func checkImage(img *image) error {
	if len(img.segments) == 0 {
		return errors.New("image has no loadable segments")
	}
	sort.Slice(img.segments, func(i, j int) bool {
		return img.segments[i].addr < img.segments[j].addr
	})
	for _, s := range img.segments {
		last := s.addr + uint32(len(s.data))
		if s.addr < max78000.FlashMemBase || last > max78000.FlashMemBase+max78000.FlashMemSize {
			return errors.Errorf("segment %08x..%08x is outside flash (%08x..%08x)",
				s.addr, last, max78000.FlashMemBase, max78000.FlashMemBase+max78000.FlashMemSize)
		}
	}
	return nil
}

// pagesTouched returns the (deduplicated, ascending) page base addresses the
// image lands on.  Each one needs an erase before any data can be written.
func (img *image) pagesTouched() []uint32 {
	seen := make(map[uint32]bool)
	var pages []uint32
	for _, s := range img.segments {
		first := s.addr &^ (max78000.FlashPageSize - 1)
		last := (s.addr + uint32(len(s.data)) - 1) &^ (max78000.FlashPageSize - 1)
		for p := first; p <= last; p += max78000.FlashPageSize {
			if !seen[p] {
				seen[p] = true
				pages = append(pages, p)
			}
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i] < pages[j] })
	return pages
}
