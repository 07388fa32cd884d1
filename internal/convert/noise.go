package convert

import "math"

// CollapseNoise handles the SN76489's one shared noise generator: every
// YM voice with its noise-mix bit set
// has to be collapsed onto it. Volume takes the loudest contributor
// rather than an average: an average would quietly fade a percussive hit
// that's meant to cut through a sustained noise bed underneath it, which
// is the more common arrangement in YM material.
func CollapseNoise(voices [3]Voice, cfg *Config) (atten uint8, active bool) {
	best := -1
	for v := 0; v < 3; v++ {
		if !voices[v].NoiseOn || voices[v].IsSilent() {
			continue
		}
		if !cfg.ChannelAllowed(ChannelNoise) {
			continue
		}
		vol := voices[v].RawVolume
		if best < 0 || int(vol) > best {
			best = int(vol)
		}
	}
	if best < 0 {
		return silenceAtten, false
	}
	return MapVolume(uint8(best), cfg), true
}

// noiseRateFor maps a YM noise period to the nearest of SN76489's three
// fixed periodic-noise rates (target_clock_hz/512, /1024, /2048).
// sourceClockHz/targetClockHz are the configured chip clocks.
func noiseRateFor(ymNoisePeriod uint8, sourceClockHz, targetClockHz uint32) uint8 {
	ymFreq := float64(sourceClockHz) / (16.0 * float64(ymNoisePeriod))

	rates := [3]float64{
		float64(targetClockHz) / 512.0,
		float64(targetClockHz) / 1024.0,
		float64(targetClockHz) / 2048.0,
	}
	best := 0
	bestDiff := math.Abs(rates[0] - ymFreq)
	for i := 1; i < 3; i++ {
		d := math.Abs(rates[i] - ymFreq)
		if d < bestDiff {
			bestDiff = d
			best = i
		}
	}
	return uint8(best)
}
