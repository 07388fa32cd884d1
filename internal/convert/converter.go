package convert

// Converter is the explicit, single-use aggregate that owns every piece
// of per-tune state needed to turn a YM frame sequence into an SN76489
// register-write stream: the envelope simulation, the differential
// packetizer, and the arbiter's bass-contention bias. It is built once
// per song and is not safe for concurrent use by more than one goroutine
// (batch conversions run one Converter per file, never share one).
type Converter struct {
	cfg Config
	env *EnvelopeState
	pkt *Packetizer
	arb *Arbiter

	frameRateHz uint32
	subSamples  uint32 // EnvelopeSampleRateHz / frameRateHz, at least 1

	report *Report
}

// NewConverter validates cfg against frameRateHz and, if valid, returns a
// Converter ready to stream ConvertFrame calls. frames is used only for
// the optional bass pre-scan; pass nil to skip it and fall back to
// voice-index tie-breaking in the arbiter.
func NewConverter(cfg Config, frameRateHz uint32, frames []YmFrame) (*Converter, error) {
	if cfg.TargetClockHz == 0 {
		cfg.TargetClockHz = TargetClockSN
	}
	if cfg.SourceClockHz == 0 {
		cfg.SourceClockHz = SourceClockAtariST
	}

	subSamples := uint32(1)
	if cfg.EnvelopeSampleRateHz != 0 {
		if frameRateHz == 0 || cfg.EnvelopeSampleRateHz%frameRateHz != 0 {
			return nil, ErrEnvelopeSampleRateNotDivisible
		}
		subSamples = cfg.EnvelopeSampleRateHz / frameRateHz
	}

	var bias [3]int
	if len(frames) > 0 {
		bias = BassPrescan(frames, cfg.SourceClockHz, &cfg)
	}

	return &Converter{
		cfg:         cfg,
		env:         NewEnvelopeState(cfg.SourceClockHz),
		pkt:         NewPacketizer(),
		arb:         NewArbiter(&cfg, bias),
		frameRateHz: frameRateHz,
		subSamples:  subSamples,
		report:      NewReport(),
	}, nil
}

// Report returns the conversion report accumulated so far. Safe to call
// mid-stream for progress reporting, or after the last ConvertFrame call
// for a final summary.
func (c *Converter) Report() *Report {
	return c.report
}

// ConvertFrame advances the converter by exactly one YM frame and returns
// the SN76489 commands needed to reproduce it, including the trailing
// Wait. When the envelope is sampled faster than the frame rate
// (Config.EnvelopeSampleRateHz), the frame is internally subdivided into
// subSamples virtual sub-frames, each producing its own register writes
// and a proportionally shorter wait, keeping the total wait per real frame
// exact.
func (c *Converter) ConvertFrame(frame *YmFrame) []SnCommand {
	if frame.EnvRetrigger {
		c.env.Retrigger(frame.EnvPeriod(), frame.EnvShape())
	} else {
		c.env.SetPeriod(frame.EnvPeriod())
	}

	frameIdx := c.report.FramesConverted
	c.report.FramesConverted++

	var cmds []SnCommand
	subRate := c.frameRateHz * c.subSamples
	for s := uint32(0); s < c.subSamples; s++ {
		envLevel := c.env.AdvanceFrame(subRate)
		voices := BuildVoices(frame, c.cfg.SourceClockHz, envLevel, c.cfg.DisableEnvelopes)
		snFrame := c.arb.Arbitrate(frameIdx, voices, frame.NoisePeriod(), c.cfg.SourceClockHz, c.report)
		cmds = append(cmds, c.pkt.Emit(snFrame)...)
		cmds = append(cmds, c.pkt.Wait(44100, subRate))
	}
	return cmds
}

// SetLoopPoint records the loop point in the Report, as a frame index and
// as a sample position. It emits no command itself: the caller places the
// CmdLoopStart marker in the stream, and internal/vgmenc derives the VGM
// loop offset from that marker.
func (c *Converter) SetLoopPoint(frameIdx int, sampleN int64) {
	c.report.LoopFrame = frameIdx
	c.report.LoopSampleN = sampleN
}
