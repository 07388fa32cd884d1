package convert

// envPhase is the envelope generator's current ramp state. Unlike a plain
// "level + direction" model, the phase also distinguishes the frozen
// terminal states the CAAH shape table can select, so Level() never needs
// to special-case the shape bits once a phase has been chosen.
type envPhase int

const (
	phaseRising envPhase = iota
	phaseFalling
	phaseHoldLow
	phaseHoldHigh
	phaseDone
)

func (p envPhase) frozen() bool {
	return p == phaseHoldLow || p == phaseHoldHigh || p == phaseDone
}

// shapeBits is the CAAH decomposition of the 4-bit envelope shape register.
type shapeBits struct {
	continue_ bool
	attack    bool
	alternate bool
	hold      bool
}

func decodeShape(b uint8) shapeBits {
	return shapeBits{
		continue_: b&0x08 != 0,
		attack:    b&0x04 != 0,
		alternate: b&0x02 != 0,
		hold:      b&0x01 != 0,
	}
}

// EnvelopeState is the persistent, per-tune hardware envelope generator
// simulation. It advances in exact integer multiples of its own clock so
// that repeated runs over identical input produce byte-identical output.
//
// The shape table is implemented as 16-step ramps (one ramp = 16 steps of
// the 5-bit counter) rather than a single 32-step "crossing 31" event: a
// real YM2149 envelope completes one attack-or-decay ramp every 16 clock
// steps, and an alternating shape (10/11/14/15) must flip direction at
// that half-cycle, not once every 32 steps — see DESIGN.md for the
// reasoning behind this.
type EnvelopeState struct {
	Counter uint8 // 0..31, two 16-step ramp halves
	Phase   envPhase
	Shape   shapeBits

	sourceClockHz uint32
	period        uint16 // env_period, zero already folded to 1

	// cycleAccum implements exact-rational step counting:
	// one output frame contributes sourceClockHz "ticks" to the
	// accumulator (scaled by the frame rate so everything stays integral);
	// one envelope step consumes period*256*frameRateHz ticks. This avoids
	// any floating-point rounding in the hot per-frame path.
	cycleAccum uint64
}

// NewEnvelopeState returns a freshly power-on-reset envelope generator:
// YM2149 hardware starts in a decaying-to-zero state until the first
// register 13 write retriggers it.
func NewEnvelopeState(sourceClockHz uint32) *EnvelopeState {
	return &EnvelopeState{
		Phase:         phaseFalling,
		sourceClockHz: sourceClockHz,
		period:        1,
	}
}

// SetSourceClockHz updates the master clock used to derive the envelope
// step rate; it does not itself reset the envelope.
func (e *EnvelopeState) SetSourceClockHz(hz uint32) {
	e.sourceClockHz = hz
}

// Retrigger resets the counter and phase for a register-13 write. An
// envPeriod of zero is treated as 1, the lowest real divider.
func (e *EnvelopeState) Retrigger(envPeriod uint16, shapeByte uint8) {
	if envPeriod == 0 {
		envPeriod = 1
	}
	e.period = envPeriod
	e.Shape = decodeShape(shapeByte)
	e.Counter = 0
	e.cycleAccum = 0
	if e.Shape.attack {
		e.Phase = phaseRising
	} else {
		e.Phase = phaseFalling
	}
}

// SetPeriod updates the envelope divider without retriggering (a write to
// registers 11/12 alone, with no register-13 write this frame).
func (e *EnvelopeState) SetPeriod(envPeriod uint16) {
	if envPeriod == 0 {
		envPeriod = 1
	}
	e.period = envPeriod
}

// Level returns the current 4-bit envelope output.
func (e *EnvelopeState) Level() uint8 {
	switch e.Phase {
	case phaseHoldLow, phaseDone:
		return 0
	case phaseHoldHigh:
		return 15
	case phaseRising:
		return e.Counter & 0x0F
	default: // phaseFalling
		return 15 - (e.Counter & 0x0F)
	}
}

// AdvanceFrame advances the envelope by exactly one output frame's worth of
// source-clock cycles at the given frame rate, and returns the resulting
// level. frameRateHz must be the rate the caller is sampling the envelope
// at (the per-sub-sample rate when subdividing a frame).
func (e *EnvelopeState) AdvanceFrame(frameRateHz uint32) uint8 {
	if frameRateHz == 0 {
		return e.Level()
	}
	stepTicks := uint64(e.period) * 256 * uint64(frameRateHz)
	e.cycleAccum += uint64(e.sourceClockHz)

	if stepTicks > 0 {
		// When the envelope period is long relative to a frame, skip
		// straight to the step count via integer division instead of
		// looping one clock at a time.
		steps := e.cycleAccum / stepTicks
		e.cycleAccum -= steps * stepTicks
		for i := uint64(0); i < steps && !e.Phase.frozen(); i++ {
			e.step()
		}
	}
	return e.Level()
}

func (e *EnvelopeState) step() {
	e.Counter++
	if e.Counter == 32 {
		e.Counter = 0
	}
	if e.Counter%16 != 0 {
		return
	}
	e.onRampBoundary()
}

func (e *EnvelopeState) onRampBoundary() {
	if !e.Shape.continue_ {
		e.Phase = phaseDone
		return
	}
	if e.Shape.hold {
		if e.Shape.alternate {
			// Bounce: freeze at the opposite extreme from the one the
			// ramp just reached.
			if e.Phase == phaseRising {
				e.Phase = phaseHoldLow
			} else {
				e.Phase = phaseHoldHigh
			}
		} else {
			// Freeze at the extreme the ramp just reached.
			if e.Phase == phaseRising {
				e.Phase = phaseHoldHigh
			} else {
				e.Phase = phaseHoldLow
			}
		}
		return
	}
	if e.Shape.alternate {
		if e.Phase == phaseRising {
			e.Phase = phaseFalling
		} else {
			e.Phase = phaseRising
		}
	}
	// Otherwise: continue the same ramp direction forever (sawtooth); the
	// counter's own wraparound already repeats the waveform.
}
