package main

import (
	"testing"
)

func TestProtocolSelfVerify(t *testing.T) {
	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i)
	}
	img := &image{
		segments: []segment{{addr: 0x1000_2004, data: data}},
		entry:    0x1000_2004,
		entrySet: true,
	}
	v := newVerifyIOProto()
	if err := protocol("synthetic", img, v); err != nil {
		t.Fatalf("protocol failed: %v", err)
	}
	if err := v.checkAgainst(img); err != nil {
		t.Fatalf("verification failed: %v", err)
	}
}

func TestPagesTouched(t *testing.T) {
	img := &image{
		segments: []segment{
			{addr: 0x1000_0000, data: make([]byte, 0x2001)}, //spills one byte into page 1
			{addr: 0x1000_6000, data: make([]byte, 4)},
		},
	}
	pages := img.pagesTouched()
	expected := []uint32{0x1000_0000, 0x1000_2000, 0x1000_6000}
	if len(pages) != len(expected) {
		t.Fatalf("expected %d pages but got %d", len(expected), len(pages))
	}
	for i, p := range expected {
		if pages[i] != p {
			t.Errorf("page %d: expected %08x but got %08x", i, p, pages[i])
		}
	}
}

func TestSegmentEmitterWindowCrossing(t *testing.T) {
	seg := segment{addr: 0x1000_FFF0, data: make([]byte, 0x20)}
	v := newVerifyIOProto()
	e := newSegmentEmitter(seg, v)

	count := 0
	for e.moreLines() {
		if _, err := e.line(); err != nil {
			t.Fatalf("line failed: %v", err)
		}
		count++
	}
	//two ELA records and two clipped data lines
	if count != 4 {
		t.Errorf("expected 4 lines for a window-crossing segment, got %d", count)
	}
	for i := 0; i < 0x20; i++ {
		got, ok := v.cells[seg.addr+uint32(i)]
		if !ok || got != 0 {
			t.Errorf("byte at %08x not transmitted correctly", seg.addr+uint32(i))
		}
	}
}
