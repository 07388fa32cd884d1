package convert

// SnFrame is the complete SN76489 register state derived for one output
// frame. It is diffed against the previously emitted frame so only
// changed registers produce bytes.
type SnFrame struct {
	ToneOn    [3]bool
	Tone      [3]uint16 // 10-bit period, valid when ToneOn[c]
	Atten     [4]uint8  // index 0-2 = tone channels, 3 = noise channel
	NoiseTone bool      // true = white noise, false = periodic
	NoiseRate uint8     // 0-3; 3 means "driven by tone channel 2's period"
	BassFlag  [3]bool   // voice c's tone this frame is software-bass encoded
}

// newSilentSnFrame returns the SN76489 power-on-equivalent frame: all
// channels attenuated to silence, tone periods at their minimum, periodic
// noise at the coarsest rate.
func newSilentSnFrame() SnFrame {
	return SnFrame{
		Atten: [4]uint8{silenceAtten, silenceAtten, silenceAtten, silenceAtten},
	}
}

// CommandKind distinguishes the members of the SnCommand sum type.
type CommandKind int

const (
	CmdWrite CommandKind = iota
	CmdWait
	CmdLoopStart
	CmdEnd
)

// SnCommand is one emitted unit in the register-write stream. Only Byte
// is meaningful for CmdWrite; only Samples is meaningful for CmdWait.
type SnCommand struct {
	Kind    CommandKind
	Byte    uint8
	Samples int
}

// sn register-select codes, per the SN76489 latch byte layout
// 1 cc t dddd.
const (
	snChanTone0 = 0x0
	snChanTone1 = 0x1
	snChanTone2 = 0x2
	snChanNoise = 0x3
)

func toneLatchLow(chan_ uint8, period uint16) uint8 {
	return 0x80 | chan_<<5 | uint8(period&0x0F)
}

func toneDataHigh(period uint16) uint8 {
	return uint8((period >> 4) & 0x3F)
}

func attenLatch(chan_ uint8, atten uint8) uint8 {
	return 0x80 | chan_<<5 | 0x10 | (atten & 0x0F)
}

func noiseLatch(noiseTone bool, rate uint8) uint8 {
	b := uint8(0x80 | snChanNoise<<5)
	if noiseTone {
		b |= 0x04
	}
	b |= rate & 0x03
	return b
}

// Packetizer accumulates the differential register writes between
// consecutive SnFrame values: a register is only written when its value
// changed from the last frame actually emitted, and a frame never emits
// more than the 11 possible register bytes (3 tone latch+data pairs, 4
// attenuation latches, 1 noise latch — 3*2+4+1=11).
type Packetizer struct {
	last    SnFrame
	primed  bool
	waitAcc int64 // exact-rational remainder, in units of 1/frameRateHz sample
}

// NewPacketizer returns a Packetizer primed to emit every register on its
// first frame (there is no prior real hardware state to diff against).
func NewPacketizer() *Packetizer {
	return &Packetizer{last: newSilentSnFrame()}
}

// Emit returns the register-write commands needed to move real SN76489
// state from the last emitted frame to frame. It does not append the
// trailing Wait; callers append that once per output frame via Wait.
func (p *Packetizer) Emit(frame SnFrame) []SnCommand {
	var cmds []SnCommand
	first := !p.primed
	p.primed = true

	for c := 0; c < 3; c++ {
		if first || frame.Tone[c] != p.last.Tone[c] || frame.ToneOn[c] != p.last.ToneOn[c] || frame.BassFlag[c] != p.last.BassFlag[c] {
			period := frame.Tone[c]
			if !frame.ToneOn[c] {
				period = p.last.Tone[c]
			}
			dataHigh := toneDataHigh(period)
			if frame.BassFlag[c] {
				dataHigh = bassDataHigh(period)
			}
			cmds = append(cmds,
				SnCommand{Kind: CmdWrite, Byte: toneLatchLow(uint8(c), period)},
				SnCommand{Kind: CmdWrite, Byte: dataHigh},
			)
		}
	}

	for c := 0; c < 4; c++ {
		if first || frame.Atten[c] != p.last.Atten[c] {
			cmds = append(cmds, SnCommand{Kind: CmdWrite, Byte: attenLatch(uint8(c), frame.Atten[c])})
		}
	}

	if first || frame.NoiseTone != p.last.NoiseTone || frame.NoiseRate != p.last.NoiseRate {
		cmds = append(cmds, SnCommand{Kind: CmdWrite, Byte: noiseLatch(frame.NoiseTone, frame.NoiseRate)})
	}

	p.last = frame
	return cmds
}

// Wait returns the Wait command for one output frame's duration at
// sampleRateHz (44100, VGM's fixed sample clock) and frameRateHz,
// carrying forward any fractional sample the previous call truncated so
// cumulative drift never exceeds one sample.
func (p *Packetizer) Wait(sampleRateHz, frameRateHz uint32) SnCommand {
	if frameRateHz == 0 {
		return SnCommand{Kind: CmdWait, Samples: 0}
	}
	p.waitAcc += int64(sampleRateHz)
	samples := p.waitAcc / int64(frameRateHz)
	p.waitAcc -= samples * int64(frameRateHz)
	return SnCommand{Kind: CmdWait, Samples: int(samples)}
}
