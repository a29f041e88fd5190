package spinel

// HDLC-Lite framing: 0x7E delimiters, 0x7D escape, CRC-16/X.25 over
// the unescaped Frame bytes, itself escaped and emitted little-endian.

const (
	hdlcDelimiter      = 0x7E
	hdlcEscape         = 0x7D
	hdlcXON            = 0x11
	hdlcXOFF           = 0x13
	hdlcVendorSpecific = 0xF8
	hdlcEscapeXOR      = 0x20
)

func requiresEscape(b byte) bool {
	switch b {
	case hdlcDelimiter, hdlcEscape, hdlcXON, hdlcXOFF, hdlcVendorSpecific:
		return true
	default:
		return false
	}
}

// crc16x25Table is the CRC-16/X.25 (poly 0x1021, reflected) lookup
// table, computed once at package init the way a hand-rolled CRC
// table is typically built up from its polynomial rather than
// transcribed by hand.
var crc16x25Table [256]uint16

func init() {
	const poly = 0x8408 // 0x1021 bit-reflected
	for i := 0; i < 256; i++ {
		crc := uint16(i)
		for b := 0; b < 8; b++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ poly
			} else {
				crc >>= 1
			}
		}
		crc16x25Table[i] = crc
	}
}

// CRC16X25 computes CRC-16/X.25 over data: init 0xFFFF, refin/refout
// true (handled by the reflected table), xorout 0xFFFF.
func CRC16X25(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc = (crc >> 8) ^ crc16x25Table[byte(crc)^b]
	}
	return crc ^ 0xFFFF
}

// EscapeHDLC appends the escaped form of data to buf.
func EscapeHDLC(buf []byte, data []byte) []byte {
	for _, b := range data {
		if requiresEscape(b) {
			buf = append(buf, hdlcEscape, b^hdlcEscapeXOR)
		} else {
			buf = append(buf, b)
		}
	}
	return buf
}

// UnescapeHDLC reverses EscapeHDLC. It errors if the input ends mid-escape.
func UnescapeHDLC(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b == hdlcEscape {
			i++
			if i >= len(data) {
				return nil, newErr(KindHdlcEndDelimiter, b)
			}
			out = append(out, data[i]^hdlcEscapeXOR)
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// EncodeHDLC frames a Spinel Frame as an HDLC-Lite frame: delimiter,
// escaped frame bytes, escaped little-endian CRC, delimiter.
func EncodeHDLC(f Frame) ([]byte, error) {
	raw, err := Encode(nil, f)
	if err != nil {
		return nil, err
	}
	crc := CRC16X25(raw)
	crcBytes := []byte{byte(crc), byte(crc >> 8)}

	out := make([]byte, 0, len(raw)*2+4)
	out = append(out, hdlcDelimiter)
	out = EscapeHDLC(out, raw)
	out = EscapeHDLC(out, crcBytes)
	out = append(out, hdlcDelimiter)
	return out, nil
}

// FindFrame scans buf for the first complete delimiter-bracketed
// span, collapsing adjacent delimiters (a shared trailing/leading
// 0x7E belongs to both the closing of one frame and the opening of
// the next). Bytes before the first delimiter are garbage. Returns
// the (start, end) indices of the delimiters themselves, or ok=false
// if no closing delimiter follows the first opening one.
func FindFrame(buf []byte) (start, end int, ok bool) {
	start = -1
	for i, b := range buf {
		if b != hdlcDelimiter {
			continue
		}
		if start == -1 {
			start = i
			continue
		}
		if i == start+1 {
			// Adjacent delimiter: this one becomes the new opener,
			// since an empty frame has no content.
			start = i
			continue
		}
		return start, i, true
	}
	return 0, 0, false
}

// DecodeHDLC decodes the span buf[start:end+1] (inclusive of both
// delimiters) into a Frame.
func DecodeHDLC(buf []byte, start, end int) (Frame, error) {
	if buf[start] != hdlcDelimiter {
		return Frame{}, newErr(KindHdlcStartDelimiter, buf[start])
	}
	if buf[end] != hdlcDelimiter {
		return Frame{}, newErr(KindHdlcEndDelimiter, buf[end])
	}
	body, err := UnescapeHDLC(buf[start+1 : end])
	if err != nil {
		return Frame{}, err
	}
	if len(body) < 2 {
		return Frame{}, newErr(KindPacketLength, len(body))
	}
	frameBytes := body[:len(body)-2]
	crcBytes := body[len(body)-2:]
	wantCRC := uint16(crcBytes[0]) | uint16(crcBytes[1])<<8
	gotCRC := CRC16X25(frameBytes)
	if wantCRC != gotCRC {
		return Frame{}, newErr(KindHdlcChecksum, gotCRC)
	}
	return Decode(frameBytes)
}
