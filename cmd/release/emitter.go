package main

import (
	"tenacity/boot/anticipation"
)

///////////////////////////////////////////////////////////////////////////////
// emitter can take a piece of the image and emit the necessary commands to
// transmit it to the other side.  It uses an ioProto to do the actual IO work
// but it computes the lines and addresses to send.
///////////////////////////////////////////////////////////////////////////////
type emitter interface {
	line() (string, error)
	moreLines() bool
	retry() //rewind one line so it gets sent again
	reset() //return to beginning of this emitter's lines
	name() string
	currentAddr() uint32
	read([]uint8) (string, error)
	receiver() ioProto
}

// lineEmitter is the shared machinery: a precomputed list of lines sent one
// at a time, with enough address bookkeeping for retry diagnostics.
type lineEmitter struct {
	what  string
	lines []string
	addrs []uint32
	next  int
	oh    ioProto
}

func (e *lineEmitter) name() string {
	return e.what
}

func (e *lineEmitter) moreLines() bool {
	return e.next < len(e.lines)
}

func (e *lineEmitter) currentAddr() uint32 {
	if e.next == 0 {
		return e.addrs[0]
	}
	return e.addrs[e.next-1]
}

func (e *lineEmitter) retry() {
	if e.next > 0 {
		e.next--
	}
}

func (e *lineEmitter) reset() {
	e.next = 0
}

func (e *lineEmitter) read(buffer []uint8) (string, error) {
	return e.oh.Read(buffer)
}

func (e *lineEmitter) receiver() ioProto {
	return e.oh
}

func (e *lineEmitter) line() (string, error) {
	l := e.lines[e.next]
	if err := e.oh.Send(l); err != nil {
		return "bad output", err
	}
	e.next++
	return l, nil
}

// newEraseEmitter emits one page erase record per flash page the image
// touches.  These go first: data lines into an unerased page would program
// over stale bits.
func newEraseEmitter(pages []uint32, oh ioProto) emitter {
	e := &lineEmitter{what: "page erases", oh: oh}
	for _, p := range pages {
		e.lines = append(e.lines, anticipation.EncodePageErase(p))
		e.addrs = append(e.addrs, p)
	}
	return e
}

// newSegmentEmitter chunks one image segment into data lines, preceding them
// with an extended linear address record each time the 64 KiB window
// changes.  Data line offsets are relative to that window.
func newSegmentEmitter(seg segment, oh ioProto) emitter {
	e := &lineEmitter{what: "image data", oh: oh}
	window := uint32(0xFFFF_FFFF) //impossible, forces an ELA on the first line
	for off := uint32(0); off < uint32(len(seg.data)); {
		addr := seg.addr + off
		if addr>>16 != window {
			window = addr >> 16
			e.lines = append(e.lines, anticipation.EncodeELA(uint16(window)))
			e.addrs = append(e.addrs, addr)
		}
		n := uint32(anticipation.FileXFerDataLineSize)
		if off+n > uint32(len(seg.data)) {
			n = uint32(len(seg.data)) - off
		}
		//clip to the window so a line never straddles an ELA boundary
		if room := 0x1_0000 - (addr & 0xFFFF); n > room {
			n = room
		}
		e.lines = append(e.lines, anticipation.EncodeDataBytes(seg.data[off:off+n], uint16(addr&0xFFFF)))
		e.addrs = append(e.addrs, addr)
		off += n
	}
	return e
}

// newEntryPointEmitter emits the single start linear address record.
func newEntryPointEmitter(entry uint32, oh ioProto) emitter {
	return &lineEmitter{
		what:  "entry point",
		lines: []string{anticipation.EncodeSLA(entry)},
		addrs: []uint32{entry},
		oh:    oh,
	}
}
