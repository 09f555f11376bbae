package main

import (
	"log"
	"strings"

	"tenacity/boot/anticipation"
)

///////////////////////////////////////////////////////////////////////
// transmitLooper
///////////////////////////////////////////////////////////////////////
type transmitState int

const (
	tsData transmitState = 0
	tsEnd  transmitState = 1
)

// transmitLooper knows how to speak the line oriented protocol with the device
// and handle successful lines and failed lines, doing retransmits when lines
// fail.  the transmit looper uses a sequence of emitters to do the work of
// figuring out WHAT line to send, the transmit looper is only concerned with
// the responses from the device.
//
// So the layers are: transmitLooper <---  emitter  <--- ioProto
// ioProto does the work of actually sending things through an io interface
//     and receiving things from it.
// emitter figures out what lines (the actual binary content) and addresses
//     to send.  emitter knows things about the intel hex encoding like where
//     the address part of a data line is, putting on checksums, etc.
// transmitLooper works with each line and handles the actual line oriented
//     protocol at the top level.  it is primarily concerned with confirming
//     each line was received ok and if it wasn't, sending it again.
type transmitLooper struct {
	state        transmitState
	emitterIndex int
	current      emitter
	emitters     []emitter
	inBuffer     []uint8
	in           ioProto
	errorCount   int //in a row
}

func newTransmitLooper(all []emitter, oh ioProto) *transmitLooper {
	return &transmitLooper{
		in:           oh,
		state:        tsData,
		emitterIndex: 1,
		current:      all[0],
		emitters:     all,
		inBuffer:     make([]uint8, 2*anticipation.FileXFerDataLineSize),
	}
}

// next moves to the following emitter, returning false once every emitter is
// drained and the looper has entered the end state.
func (t *transmitLooper) next() bool {
	if t.state == tsEnd {
		log.Fatalf("bad state, transmitLooper should know its done!")
	}
	for t.emitterIndex < len(t.emitters) {
		t.current = t.emitters[t.emitterIndex]
		t.emitterIndex++
		if t.current.moreLines() {
			return true
		}
	}
	t.state = tsEnd
	return false
}

func (t *transmitLooper) read() (string, error) {
	l, err := t.current.read(t.inBuffer)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(l), nil
}

func (t *transmitLooper) line() (string, error) {
	switch t.state {
	case tsEnd:
		return t.in.EOF()
	case tsData:
		return t.current.line()
	}
	panic("unexpected state for transmitLooper")
}
