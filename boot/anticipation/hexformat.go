// Package anticipation is the firmware update protocol: Intel-hex lines
// sent from a host, decoded on the device, and burned into flash through
// the flash engine.  The wire format is standard Intel hex plus one
// extension record that asks the device to erase the page containing an
// address, since flash can only be programmed after an erase and the host
// is the one that knows the image layout.
package anticipation

import (
	"bytes"
	"errors"
	"fmt"
)

// FileXFerDataLineSize is the most data bytes a single line may carry.
const FileXFerDataLineSize = uint16(0x20)

type EncodeDecodeError struct {
	s string
}

func NewEncodeDecodeError(s string) error {
	return &EncodeDecodeError{s}
}

func (d *EncodeDecodeError) Error() string {
	return d.s
}

// HexLineType is the record type field.  We implement the standard types a
// 32-bit part needs, plus the page-erase extension.
type HexLineType int

const (
	DataLine              HexLineType = 0
	EndOfFile             HexLineType = 1
	ExtendedLinearAddress HexLineType = 4
	StartLinearAddress    HexLineType = 5
	ExtensionPageErase    HexLineType = 0x80
)

func (hlt HexLineType) String() string {
	switch hlt {
	case DataLine:
		return "DataLine"
	case EndOfFile:
		return "EndOfFile"
	case ExtendedLinearAddress:
		return "ExtendedLinearAddress"
	case StartLinearAddress:
		return "StartLinearAddress"
	case ExtensionPageErase:
		return "ExtensionPageErase"
	}
	return "unknown"
}

///////////////////////////////////////////////////////////////////////////////////
// DECODE
///////////////////////////////////////////////////////////////////////////////////

// ProcessLine deals with one received, already converted and checked line.
// Returns (error?, done?).
func ProcessLine(t HexLineType, converted []byte, fb flashBuster) (bool, bool) {
	switch t {
	case DataLine:
		l := uint32(converted[0])
		offset := uint32(converted[1])<<8 + uint32(converted[2])
		addr := fb.BaseAddress() + offset
		if !fb.WriteBytes(addr, converted[4:4+l]) {
			return true, false
		}
		return false, false
	case EndOfFile:
		return false, true
	case ExtendedLinearAddress: // high 16 bits of the 32-bit base
		if converted[0] != 2 {
			print("!ELA value has wrong length:", converted[0], "\n")
			return true, false
		}
		base := uint32(converted[4])<<8 + uint32(converted[5])
		fb.SetBaseAddr(base << 16)
		return false, false
	case StartLinearAddress: // 32-bit entry point
		if converted[0] != 4 {
			print("!SLA value has wrong length:", converted[0], "\n")
			return true, false
		}
		entry := uint32(converted[4])<<24 + uint32(converted[5])<<16 +
			uint32(converted[6])<<8 + uint32(converted[7])
		fb.SetEntryPoint(entry)
		return false, false
	case ExtensionPageErase: // 32-bit absolute address inside the page
		if converted[0] != 4 {
			print("!page erase record has wrong length:", converted[0], "\n")
			return true, false
		}
		addr := uint32(converted[4])<<24 + uint32(converted[5])<<16 +
			uint32(converted[6])<<8 + uint32(converted[7])
		if !fb.ErasePage(addr) {
			return true, false
		}
		return false, false
	}

	print("!unable to understand line type [processLine]\n")
	return true, false
}

// DecodeAndCheckStringToBytes converts a received line, validates it, and
// returns the converted bytes, line type, and the data offset (for data
// lines).
func DecodeAndCheckStringToBytes(s string) ([]byte, HexLineType, uint32, error) {
	lenAs16 := uint16(len(s))
	converted := ConvertBuffer(lenAs16, []byte(s))
	if converted == nil {
		return nil, HexLineType(0), 0, errors.New("convert buffer failed")
	}
	var addr uint32
	lt, ok := ExtractLineType(converted)
	if !ok {
		return nil, DataLine, 0, NewEncodeDecodeError(fmt.Sprintf("unable to extract line type from: %s", s))
	}
	if lt == DataLine {
		addr = uint32(converted[1])<<8 + uint32(converted[2])
	}
	if ok := ValidBufferLength(lenAs16, converted); ok == false {
		return nil, lt, addr, NewEncodeDecodeError(fmt.Sprintf("expected buffer length to be ok, but wasn't: %s", s))
	}
	if ok := CheckChecksum(converted); ok == false {
		return nil, lt, addr, NewEncodeDecodeError(fmt.Sprintf("expected checksum to be ok, but wasn't: %s", s))
	}
	return converted, lt, addr, nil
}

// ValidBufferLength checks that the received character count matches the
// length the line declares.
func ValidBufferLength(l uint16, converted []byte) bool {
	total := uint16(11) //size of just framing in characters (colon, 2 len chars, 4 offset chars, 2 type chars, 2 checksum chars)
	if l < total {
		print("!bad buffer length, can't be smaller than ", total, ": ", l, "\n")
		return false
	}
	total += uint16(converted[0]) * 2
	if l != total {
		print("!bad buffer length, expected ", total, " but got ", l, "\n")
		return false
	}
	return true
}

// CheckChecksum verifies the line's checksum: every converted byte summed,
// checksum included, must come out 0 mod 256.
func CheckChecksum(converted []byte) bool {
	sum := uint32(0)
	for _, v := range converted {
		sum += uint32(v)
	}
	if sum&0xff != 0 {
		print("!bad checksum, sum mod 256 is ", sum&0xff, "\n")
		return false
	}
	return true
}

// ExtractLineType pulls the record type out of a converted line.
func ExtractLineType(converted []byte) (HexLineType, bool) {
	switch converted[3] {
	case 0:
		return DataLine, true
	case 1:
		return EndOfFile, true
	case 4:
		return ExtendedLinearAddress, true
	case 5:
		return StartLinearAddress, true
	case 0x80:
		return ExtensionPageErase, true
	default:
		print("!bad line type:", converted[3], "\n")
		return DataLine, false
	}
}

// ConvertBuffer turns a line of ascii hex (with leading colon) into bytes.
func ConvertBuffer(l uint16, raw []byte) []byte {
	//l-1 because the : is skipped so the remaining number of characters must be even
	if (l-1)%2 == 1 {
		print("!bad payload, expected even number of hex chars but got:", l-1, "\n")
		return nil
	}
	converted := make([]byte, (l-1)/2)
	//skip first colon
	for i := uint16(1); i < l; i += 2 {
		hi, ok := nibble(raw[i])
		if !ok {
			print("!bad character in payload (char #", i, "):", raw[i], "\n")
			return nil
		}
		lo, ok := nibble(raw[i+1])
		if !ok {
			print("!bad character in payload (char #", i+1, "):", raw[i+1], "\n")
			return nil
		}
		converted[(i-1)/2] = hi<<4 | lo
	}
	return converted
}

func nibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

///////////////////////////////////////////////////////////////////////////////////
// ENCODING
///////////////////////////////////////////////////////////////////////////////////

// EOFLine is the terminator every image transmission ends with.
const EOFLine = ":00000001FF"

func EncodeDataBytes(raw []byte, offset uint16) string {
	if len(raw) > 255 {
		panic("intel hex format only allows 2 hex characters for the size of a data buffer")
	}
	buf := bytes.Buffer{}
	buf.WriteString(fmt.Sprintf(":%02X%04X%02X", len(raw), offset, int(DataLine)))
	for _, b := range raw {
		buf.WriteString(fmt.Sprintf("%02x", b))
	}
	cs := createChecksum(raw, offset, DataLine)
	buf.WriteString(fmt.Sprintf("%02X", cs))
	return buf.String()
}

// EncodeELA carries the most significant 16 bits of the 32-bit base.
func EncodeELA(base uint16) string {
	buf := bytes.Buffer{}
	buf.WriteString(fmt.Sprintf(":020000%02X%04X", int(ExtendedLinearAddress), base))
	raw := []byte{byte(base >> 8), byte(base)}
	cs := createChecksum(raw, 0, ExtendedLinearAddress)
	buf.WriteString(fmt.Sprintf("%02X", cs))
	return buf.String()
}

// EncodeSLA carries the 32-bit entry point.
func EncodeSLA(addr uint32) string {
	buf := bytes.Buffer{}
	buf.WriteString(fmt.Sprintf(":040000%02X%08X", int(StartLinearAddress), addr))
	raw := []byte{byte(addr >> 24), byte(addr >> 16), byte(addr >> 8), byte(addr)}
	cs := createChecksum(raw, 0, StartLinearAddress)
	buf.WriteString(fmt.Sprintf("%02X", cs))
	return buf.String()
}

// EncodePageErase asks the device to erase the flash page containing addr.
func EncodePageErase(addr uint32) string {
	buf := bytes.Buffer{}
	buf.WriteString(fmt.Sprintf(":040000%02X%08X", int(ExtensionPageErase), addr))
	raw := []byte{byte(addr >> 24), byte(addr >> 16), byte(addr >> 8), byte(addr)}
	cs := createChecksum(raw, 0, ExtensionPageErase)
	buf.WriteString(fmt.Sprintf("%02X", cs))
	return buf.String()
}

// tricky: offset only used by the data packet since everything else has 0 offset (not used)
func createChecksum(raw []byte, offset uint16, hlt HexLineType) uint8 {
	sum := len(raw)
	sum += int(offset & 0xff)
	sum += int(offset>>8) & 0xff
	sum += int(hlt)
	for _, v := range raw {
		sum += int(v)
	}
	sum = ^sum
	sum += 1
	return uint8(sum & 0xff)
}
