package convert

// Voice is the per-frame, per-channel derived state. It is rebuilt from
// scratch every frame from a YmFrame plus the current envelope sample —
// it carries no state of its own across frames.
type Voice struct {
	FreqHz      float64
	RawPeriod   uint16 // original 12-bit YM tone divider, needed by the software-bass encoder
	RawVolume   uint8
	EnvSelected bool
	ToneOn      bool
	NoiseOn     bool
}

// IsSilent reports whether the voice contributes no audible signal this
// frame: silent if both tone and noise mixer bits are disabled, or the
// fixed volume is zero with no envelope selected.
func (v Voice) IsSilent() bool {
	if !v.ToneOn && !v.NoiseOn {
		return true
	}
	return v.RawVolume == 0 && !v.EnvSelected
}

// BuildVoices derives the three YM voice states for a frame. envLevel is
// the envelope generator's output already sampled for this frame/sub-frame;
// it is fed in from outside since the envelope is shared across all three
// voices but sampled once per tick.
func BuildVoices(frame *YmFrame, sourceClockHz uint32, envLevel uint8, disableEnvelopes bool) [3]Voice {
	var voices [3]Voice
	for v := 0; v < 3; v++ {
		period := frame.TonePeriod(v)
		freq := float64(sourceClockHz) / (16.0 * float64(period))

		level, envSelected := frame.Level(v)
		if disableEnvelopes {
			envSelected = false
		}
		raw := level
		if envSelected {
			raw = envLevel
		}

		voices[v] = Voice{
			FreqHz:      freq,
			RawPeriod:   period,
			RawVolume:   raw,
			EnvSelected: envSelected,
			ToneOn:      frame.ToneEnabled(v),
			NoiseOn:     frame.NoiseEnabled(v),
		}
	}
	return voices
}
