// Package convert implements the per-frame translation engine that maps a
// YM2149 register dump onto an SN76489 register-write stream.
//
// The package is a pure, single-threaded transform: it owns no files, no
// goroutines, and no clock. Everything it needs arrives through YmFrame
// values and a Config; everything it produces comes back as SnCommand
// values and a Report. Container parsing (internal/ymfile) and VGM byte
// encoding (internal/vgmenc) sit outside this package on purpose.
package convert

// RegCount is the number of YM2149/AY-3-8910 registers carried per frame.
const RegCount = 14

// Register indices within a YmFrame, in the conventional AY/YM layout.
const (
	RegTonePeriodALo = 0
	RegTonePeriodAHi = 1
	RegTonePeriodBLo = 2
	RegTonePeriodBHi = 3
	RegTonePeriodCLo = 4
	RegTonePeriodCHi = 5
	RegNoisePeriod   = 6
	RegMixer         = 7
	RegLevelA        = 8
	RegLevelB        = 9
	RegLevelC        = 10
	RegEnvPeriodLo   = 11
	RegEnvPeriodHi   = 12
	RegEnvShape      = 13
)

// YmFrame is one tick's worth of YM2149 register state, plus the one bit of
// side-band information (EnvRetrigger) that a raw register snapshot can't
// carry on its own: whether the envelope shape register was written this
// frame, which resets the hardware envelope counter regardless of whether
// the shape byte's value actually changed.
type YmFrame struct {
	Regs         [RegCount]uint8
	EnvRetrigger bool
}

// TonePeriod returns the 12-bit tone divider for voice v (0=A,1=B,2=C),
// with the hardware's zero-means-one wraparound already applied.
func (f *YmFrame) TonePeriod(v int) uint16 {
	lo := uint16(f.Regs[RegTonePeriodALo+2*v])
	hi := uint16(f.Regs[RegTonePeriodAHi+2*v] & 0x0F)
	p := lo | hi<<8
	if p == 0 {
		return 1
	}
	return p
}

// NoisePeriod returns the 5-bit noise divider, zero treated as one.
func (f *YmFrame) NoisePeriod() uint8 {
	p := f.Regs[RegNoisePeriod] & 0x1F
	if p == 0 {
		return 1
	}
	return p
}

// ToneEnabled reports whether voice v's tone is audible per the mixer
// register, normalised to active-high (the hardware register is
// active-low).
func (f *YmFrame) ToneEnabled(v int) bool {
	return f.Regs[RegMixer]&(1<<uint(v)) == 0
}

// NoiseEnabled reports whether voice v feeds the shared noise generator.
func (f *YmFrame) NoiseEnabled(v int) bool {
	return f.Regs[RegMixer]&(1<<uint(v+3)) == 0
}

// Level returns the raw 4-bit volume for voice v and whether that voice's
// volume is instead driven by the envelope generator (bit 4 of the level
// register).
func (f *YmFrame) Level(v int) (level uint8, envSelected bool) {
	reg := f.Regs[RegLevelA+v]
	return reg & 0x0F, reg&0x10 != 0
}

// EnvPeriod returns the 16-bit envelope divider, zero treated as one.
func (f *YmFrame) EnvPeriod() uint16 {
	p := uint16(f.Regs[RegEnvPeriodLo]) | uint16(f.Regs[RegEnvPeriodHi])<<8
	if p == 0 {
		return 1
	}
	return p
}

// EnvShape returns the 4-bit CAAH envelope shape selector.
func (f *YmFrame) EnvShape() uint8 {
	return f.Regs[RegEnvShape] & 0x0F
}
