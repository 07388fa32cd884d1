// Package vgmenc encodes an SN76489 register-write stream (component H's
// output) as a VGM (or gzip-compressed VGZ) file, the format's standard
// container for chiptune register dumps.
package vgmenc

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/zayn-psg/ym2sn/internal/convert"
)

const (
	headerSize     = 0x100 // VGM 1.51 header, padded past the 1.50 fields we use
	vgmVersion     = 0x00000151
	gd3Version     = 0x00000100
	snDefaultFlags = 0x00000000
)

// Metadata carries the GD3 tag fields a converted file should advertise.
// Per this package's contract, every field is transliterated to printable
// ASCII before encoding: VGM players vary wildly in Unicode support, and a
// converter has no reliable way to know the playback environment, so the
// output never risks a field that renders as mojibake.
type Metadata struct {
	TrackNameEn  string
	GameNameEn   string
	SystemNameEn string
	AuthorEn     string
	Date         string
	Converter    string
	Notes        string
}

// Encoder accumulates SN76489 register commands and writes them out as a
// complete VGM file once the stream is finished.
type Encoder struct {
	cmds         bytes.Buffer
	totalSamples uint64
	loopOffset   uint32 // byte offset of the loop point within cmds, 0 if none
	loopSamples  uint64

	targetClockHz   uint32
	noiseFeedback   uint16
	noiseShiftWidth uint8
}

// NewEncoder returns an Encoder for a stream clocked at targetClockHz. The
// SN76489 feedback pattern and shift register width are recorded in the
// header verbatim so a host can reconstruct the exact noise LFSR topology
// the conversion assumed.
func NewEncoder(targetClockHz uint32, tap convert.LFSRTap) *Encoder {
	e := &Encoder{
		targetClockHz:   targetClockHz,
		noiseShiftWidth: uint8(tap),
	}
	if tap == convert.LFSRTap16 {
		e.noiseFeedback = 0x0009
	} else {
		e.noiseFeedback = 0x0003
	}
	return e
}

// WriteCommand appends one SnCommand to the stream, translating Wait and
// loop-start markers into VGM's own encoding and accumulating the sample
// position needed to patch the header's total/loop sample counts.
func (e *Encoder) WriteCommand(cmd convert.SnCommand) {
	switch cmd.Kind {
	case convert.CmdWrite:
		e.cmds.WriteByte(0x50)
		e.cmds.WriteByte(cmd.Byte)
	case convert.CmdWait:
		e.writeWait(cmd.Samples)
		e.totalSamples += uint64(cmd.Samples)
	case convert.CmdLoopStart:
		e.loopOffset = uint32(e.cmds.Len())
		e.loopSamples = e.totalSamples
	case convert.CmdEnd:
		// End is appended explicitly by Bytes/WriteFile; a mid-stream End
		// command is a caller error but harmless to ignore here since the
		// writer always appends its own terminator.
	}
}

func (e *Encoder) writeWait(samples int) {
	for samples > 0 {
		switch {
		case samples == 735:
			e.cmds.WriteByte(0x62)
			return
		case samples == 882:
			e.cmds.WriteByte(0x63)
			return
		case samples <= 16:
			e.cmds.WriteByte(0x70 | byte(samples-1))
			return
		case samples <= 0xFFFF:
			e.cmds.WriteByte(0x61)
			var buf [2]byte
			binary.LittleEndian.PutUint16(buf[:], uint16(samples))
			e.cmds.Write(buf[:])
			return
		default:
			e.cmds.WriteByte(0x61)
			var buf [2]byte
			binary.LittleEndian.PutUint16(buf[:], 0xFFFF)
			e.cmds.Write(buf[:])
			samples -= 0xFFFF
		}
	}
}

// Bytes assembles the complete VGM file: header, the accumulated command
// stream terminated with 0x66, and a GD3 tag if meta is non-nil.
func (e *Encoder) Bytes(meta *Metadata) []byte {
	body := make([]byte, e.cmds.Len())
	copy(body, e.cmds.Bytes())
	body = append(body, 0x66)

	var gd3 []byte
	if meta != nil {
		gd3 = encodeGD3(meta)
	}

	total := headerSize + len(body) + len(gd3)
	out := make([]byte, total)
	copy(out[0:4], "Vgm ")
	binary.LittleEndian.PutUint32(out[0x04:0x08], uint32(headerSize+len(body)+len(gd3)-0x04))
	binary.LittleEndian.PutUint32(out[0x08:0x0C], vgmVersion)
	binary.LittleEndian.PutUint32(out[0x0C:0x10], e.targetClockHz) // SN76489 clock
	if len(gd3) > 0 {
		binary.LittleEndian.PutUint32(out[0x14:0x18], uint32(headerSize+len(body)-0x14))
	}
	binary.LittleEndian.PutUint32(out[0x18:0x1C], uint32(e.totalSamples))
	if e.loopOffset != 0 {
		loopAbs := headerSize + int(e.loopOffset)
		binary.LittleEndian.PutUint32(out[0x1C:0x20], uint32(loopAbs-0x1C))
		binary.LittleEndian.PutUint32(out[0x20:0x24], uint32(e.totalSamples-e.loopSamples))
	}
	binary.LittleEndian.PutUint32(out[0x24:0x28], 60) // rate, informational
	binary.LittleEndian.PutUint16(out[0x28:0x2A], e.noiseFeedback)
	out[0x2A] = e.noiseShiftWidth
	out[0x2B] = snDefaultFlags
	binary.LittleEndian.PutUint32(out[0x34:0x38], uint32(headerSize-0x34)) // VGM data offset

	copy(out[headerSize:], body)
	if len(gd3) > 0 {
		copy(out[headerSize+len(body):], gd3)
	}
	return out
}

// WriteFile writes the encoded stream to path, gzip-wrapping it (the VGZ
// convention) when gzipCompress is true.
func (e *Encoder) WriteFile(path string, meta *Metadata, gzipCompress bool) error {
	data := e.Bytes(meta)
	if !gzipCompress {
		return os.WriteFile(path, data, 0o644)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return fmt.Errorf("vgmenc: gzip write: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("vgmenc: gzip close: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
