package vgmenc

import (
	"bytes"
	"encoding/binary"
)

// asciiTransliterate replaces every rune outside printable ASCII with '?',
// per this package's GD3 policy: see Metadata's doc comment.
func asciiTransliterate(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 0x20 && r <= 0x7E {
			out = append(out, r)
		} else {
			out = append(out, '?')
		}
	}
	return string(out)
}

func utf16leZ(s string) []byte {
	s = asciiTransliterate(s)
	buf := make([]byte, 0, len(s)*2+2)
	for _, r := range s {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(r))
		buf = append(buf, b[:]...)
	}
	return append(buf, 0x00, 0x00)
}

// encodeGD3 writes a GD3 tag. The Japanese-name fields the format
// reserves are left empty (empty string, not omitted) since this
// converter has no non-ASCII source metadata to put there.
func encodeGD3(m *Metadata) []byte {
	var body bytes.Buffer
	fields := []string{
		m.TrackNameEn, "",
		m.GameNameEn, "",
		m.SystemNameEn, "",
		m.AuthorEn, "",
		m.Date,
		m.Converter,
		m.Notes,
	}
	for _, f := range fields {
		body.Write(utf16leZ(f))
	}

	out := make([]byte, 12+body.Len())
	copy(out[0:4], "Gd3 ")
	binary.LittleEndian.PutUint32(out[4:8], gd3Version)
	binary.LittleEndian.PutUint32(out[8:12], uint32(body.Len()))
	copy(out[12:], body.Bytes())
	return out
}
