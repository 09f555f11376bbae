package main

import (
	"log"

	tty "github.com/mattn/go-tty"
	"github.com/pkg/errors"

	"tenacity/boot/anticipation"
)

////////////////////////////////////////////////////////////////////////////////
// ioProto deals with what to do with encoded lines.
// it talks to actual i/o interfaces.  it does not decide what to send/receive,
// only provides the implementation.
////////////////////////////////////////////////////////////////////////////////
type ioProto interface {
	Send(line string) error
	Read([]uint8) (string, error) //read the next thing from the other side
	EOF() (string, error)
}

///////////////////////////////////////////////////////////////////////
// ttyIOProto is the real serial link to the device
///////////////////////////////////////////////////////////////////////

type ttyIOProto struct {
	io *tty.TTY
}

func newTTYIOProto(devTTYPath string) (*ttyIOProto, error) {
	ttyObj, err := tty.OpenDevice(devTTYPath)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", devTTYPath)
	}
	_ = ttyObj.MustRaw()
	return &ttyIOProto{io: ttyObj}, nil
}

func (t *ttyIOProto) Send(line string) error {
	t.io.Output().WriteString(line)
	t.io.Output().WriteString("\n")
	return nil
}

func (t *ttyIOProto) EOF() (string, error) {
	return anticipation.EOFLine, t.Send(anticipation.EOFLine)
}

func (t *ttyIOProto) Read(data []uint8) (string, error) {
	count := uint16(0)
	dropped := 0
	for {
		r, err := t.io.Input().Read(data[count : count+1])
		if err != nil {
			return "", err
		}
		if r == 0 {
			log.Printf("retrying failed read (size zero)")
			continue
		}
		switch {
		case data[count] < 32 && data[count] != 10:
			continue
		case data[count] == 10:
			if dropped != 0 {
				log.Printf("dropped %d characters from line", dropped)
			}
			return string(data[:count]), nil
		default:
			if count == uint16(len(data)-1) {
				dropped++
				continue
			}
			count++
		}
	}
}

///////////////////////////////////////////////////////////////////////
// verifyIOProto plays the device's half of the protocol in-process.
// It decodes every line it is handed and keeps a model of what flash
// would contain, so -t can confirm the encoding round-trips before a
// real part is involved.  Used in tests (the -t option).
///////////////////////////////////////////////////////////////////////
type verifyIOProto struct {
	base   uint32
	cells  map[uint32]byte
	erased map[uint32]bool
	entry  uint32
	gotEOF bool
	gotSLA bool
}

func newVerifyIOProto() *verifyIOProto {
	return &verifyIOProto{
		cells:  make(map[uint32]byte),
		erased: make(map[uint32]bool),
	}
}

func (v *verifyIOProto) Send(line string) error {
	converted, lt, _, err := anticipation.DecodeAndCheckStringToBytes(line)
	if err != nil {
		return errors.Wrapf(err, "verifying %s", line)
	}
	switch lt {
	case anticipation.DataLine:
		l := uint32(converted[0])
		offset := uint32(converted[1])<<8 + uint32(converted[2])
		for i := uint32(0); i < l; i++ {
			v.cells[v.base+offset+i] = converted[4+i]
		}
	case anticipation.ExtendedLinearAddress:
		v.base = (uint32(converted[4])<<8 + uint32(converted[5])) << 16
	case anticipation.ExtensionPageErase:
		addr := uint32(converted[4])<<24 + uint32(converted[5])<<16 +
			uint32(converted[6])<<8 + uint32(converted[7])
		v.erased[addr] = true
	case anticipation.StartLinearAddress:
		v.entry = uint32(converted[4])<<24 + uint32(converted[5])<<16 +
			uint32(converted[6])<<8 + uint32(converted[7])
		v.gotSLA = true
	case anticipation.EndOfFile:
		v.gotEOF = true
	}
	return nil
}

func (v *verifyIOProto) EOF() (string, error) {
	return anticipation.EOFLine, v.Send(anticipation.EOFLine)
}

func (v *verifyIOProto) Read(buffer []byte) (string, error) {
	buffer[0] = '.'
	return string(buffer[0:1]), nil
}

// checkAgainst confirms the model matches the image that was supposed to be
// transmitted.
func (v *verifyIOProto) checkAgainst(img *image) error {
	for _, s := range img.segments {
		for i, want := range s.data {
			got, ok := v.cells[s.addr+uint32(i)]
			if !ok {
				return errors.Errorf("byte at %08x was never transmitted", s.addr+uint32(i))
			}
			if got != want {
				return errors.Errorf("byte at %08x differs: image %02x, decoded %02x",
					s.addr+uint32(i), want, got)
			}
		}
	}
	for _, p := range img.pagesTouched() {
		if !v.erased[p] {
			return errors.Errorf("page at %08x was never erased", p)
		}
	}
	if img.entrySet && (!v.gotSLA || v.entry != img.entry) {
		return errors.Errorf("entry point mismatch: image %08x, decoded %08x", img.entry, v.entry)
	}
	if !v.gotEOF {
		return errors.New("no EOF line was transmitted")
	}
	return nil
}
