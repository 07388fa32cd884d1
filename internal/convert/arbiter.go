package convert

// Arbiter resolves, per frame, which SN76489 channel carries each YM
// voice, including the two
// techniques that must borrow tone channel 2 from voice C — tuned white
// noise and periodic-noise bass — and records every loss as a Report
// warning rather than silently dropping material.
type Arbiter struct {
	cfg      *Config
	bassBias [3]int // prescan tally, used only to break frequency ties
}

// NewArbiter returns an Arbiter. bassBias should come from BassPrescan
// when Config.SoftwareBass or periodic-noise bass is in play; a zero
// value falls back to voice-index tie-breaking only.
func NewArbiter(cfg *Config, bassBias [3]int) *Arbiter {
	return &Arbiter{cfg: cfg, bassBias: bassBias}
}

// BassPrescan tallies, per voice, how many frames across the whole song
// classify as TooLow or a bass variant — an optional offline pass used
// only to break same-frequency bass contention ties in favour of the
// voice that needs the bass channel more often overall.
func BassPrescan(frames []YmFrame, sourceClockHz uint32, cfg *Config) [3]int {
	var tally [3]int
	for i := range frames {
		f := &frames[i]
		for v := 0; v < 3; v++ {
			if !f.ToneEnabled(v) {
				continue
			}
			period := f.TonePeriod(v)
			freq := float64(sourceClockHz) / (16.0 * float64(period))
			res := MapFrequency(freq, period, cfg)
			switch res.Classification {
			case TooLow, BassViaPN, BassViaSW:
				tally[v]++
			}
		}
	}
	return tally
}

// isPercussiveNoise heuristically detects a noise-only hit: a voice that
// drives the shared noise generator with its own tone silenced. Tuned
// white noise only makes sense to claim channel C for voices shaped like
// that, since a tonal voice sharing the noise mix has no need for the
// noise's pitch to track a particular frequency.
func isPercussiveNoise(voices [3]Voice) (voice int, ok bool) {
	for v := 0; v < 3; v++ {
		if voices[v].NoiseOn && !voices[v].ToneOn && !voices[v].IsSilent() {
			return v, true
		}
	}
	return -1, false
}

// frameResult is everything the converter needs out of one arbitration
// pass: the SN76489 frame to emit, plus the resolved classification for
// each voice (for bass-frame bookkeeping in the Report).
type frameResult struct {
	Frame   SnFrame
	Classes [3]Classification
}

// Arbitrate resolves one frame's voice-to-channel assignment. The
// noise-channel claim decided here also determines what the noise
// collapser's rate argument means.
func (a *Arbiter) Arbitrate(frameIdx int, voices [3]Voice, ymNoisePeriod uint8, sourceClockHz uint32, report *Report) SnFrame {
	out := newSilentSnFrame()
	var classes [3]Classification
	var freqs [3]FreqMapResult
	for v := 0; v < 3; v++ {
		if voices[v].ToneOn && !voices[v].IsSilent() {
			freqs[v] = MapFrequency(voices[v].FreqHz, voices[v].RawPeriod, a.cfg)
			classes[v] = freqs[v].Classification
		}
	}

	noiseAtten, noiseActive := CollapseNoise(voices, a.cfg)

	claim := a.resolveChannelCClaim(voices, freqs, noiseActive)

	switch claim.kind {
	case claimTuned:
		out.ToneOn[2] = true
		out.Tone[2] = claim.tonePeriod
		out.NoiseTone = true
		out.NoiseRate = 3
		if noiseActive && a.cfg.ChannelAllowed(ChannelNoise) {
			out.Atten[3] = noiseAtten
		}
	case claimBassPN:
		// The bass note is carried by the noise channel itself: periodic
		// noise driven at tone channel 2's rate, so the audible output is
		// the noise channel's own attenuation, not channel C's.
		out.ToneOn[2] = true
		out.Tone[2] = claim.tonePeriod
		out.NoiseTone = false
		out.NoiseRate = 3
		if a.cfg.ChannelAllowed(ChannelNoise) {
			out.Atten[3] = MapVolume(voices[claim.voice].RawVolume, a.cfg)
		}
		report.BassFrames[claim.voice]++
		if voices[2].ToneOn && !voices[2].IsSilent() && claim.voice != 2 {
			report.warn(frameIdx, 2, WarnChannelConflict, "channel C tone displaced by periodic-noise bass")
		}
		if noiseActive {
			report.warn(frameIdx, -1, WarnChannelConflict, "periodic-noise bass displaced the shared noise channel")
		}
	default:
		if noiseActive {
			out.NoiseTone = false
			out.NoiseRate = noiseRateFor(ymNoisePeriod, sourceClockHz, a.cfg.TargetClockHz)
			if a.cfg.ChannelAllowed(ChannelNoise) {
				out.Atten[3] = noiseAtten
			}
		}
	}

	for v := 0; v < 3; v++ {
		if claim.kind == claimBassPN && claim.voice == v {
			continue // already placed on channel 2 above
		}
		if claim.kind != claimNone && v == 2 {
			continue // channel 2 is claimed by tuned noise or another voice's periodic-noise bass, voice C silenced
		}
		a.placeIdentityVoice(v, voices[v], freqs[v], &out, report, frameIdx)
	}

	return out
}

type claimKind int

const (
	claimNone claimKind = iota
	claimTuned
	claimBassPN
)

type channelCClaim struct {
	kind       claimKind
	voice      int
	tonePeriod uint16
}

func (a *Arbiter) resolveChannelCClaim(voices [3]Voice, freqs [3]FreqMapResult, noiseActive bool) channelCClaim {
	if a.cfg.TunedWhiteNoise && noiseActive {
		if v, ok := isPercussiveNoise(voices); ok {
			period := uint16(roundTiesToEven(float64(a.cfg.TargetClockHz) / (32.0 * voices[v].FreqHz)))
			if period < 1 {
				period = 1
			}
			if period > 1023 {
				period = 1023
			}
			return channelCClaim{kind: claimTuned, tonePeriod: period}
		}
	}

	best := -1
	for v := 0; v < 3; v++ {
		if freqs[v].Classification != BassViaPN {
			continue
		}
		if best < 0 {
			best = v
			continue
		}
		if voices[v].FreqHz < voices[best].FreqHz {
			best = v
		} else if voices[v].FreqHz == voices[best].FreqHz && a.bassBias[v] > a.bassBias[best] {
			best = v
		}
	}
	if best < 0 {
		return channelCClaim{kind: claimNone}
	}
	return channelCClaim{kind: claimBassPN, voice: best, tonePeriod: freqs[best].ToneReg}
}

func (a *Arbiter) placeIdentityVoice(v int, voice Voice, freq FreqMapResult, out *SnFrame, report *Report, frameIdx int) {
	ch := Channel(v)
	if !voice.ToneOn || voice.IsSilent() || !a.cfg.ChannelAllowed(ch) {
		out.Atten[v] = silenceAtten
		return
	}

	switch freq.Classification {
	case InRange, TooHigh:
		out.ToneOn[v] = true
		out.Tone[v] = freq.ToneReg
		out.Atten[v] = MapVolume(voice.RawVolume, a.cfg)
		if freq.Classification == TooHigh {
			report.warn(frameIdx, v, WarnOctaveFold, "frequency folded to nearest representable octave")
		}
	case BassViaSW:
		out.ToneOn[v] = true
		out.Tone[v] = freq.ToneReg
		out.BassFlag[v] = true
		out.Atten[v] = MapVolume(voice.RawVolume, a.cfg)
		report.BassFrames[v]++
	default: // TooLow, BassViaPN not won by this voice this frame
		out.Atten[v] = silenceAtten
		report.warn(frameIdx, v, WarnVoiceSilenced, "voice frequency outside representable range")
	}
}
