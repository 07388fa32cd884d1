package convert

import "testing"

func TestCollapseNoiseTakesLoudestContributor(t *testing.T) {
	cfg := testConfig()
	voices := [3]Voice{
		{NoiseOn: true, ToneOn: false, RawVolume: 4},
		{NoiseOn: true, ToneOn: false, RawVolume: 12},
		{NoiseOn: false, ToneOn: true, RawVolume: 15},
	}
	atten, active := CollapseNoise(voices, cfg)
	if !active {
		t.Fatal("expected noise to be active")
	}
	want := MapVolume(12, cfg)
	if atten != want {
		t.Fatalf("got atten=%d, want %d (loudest noise contributor)", atten, want)
	}
}

func TestCollapseNoiseInactiveWhenNoVoiceMixesIn(t *testing.T) {
	cfg := testConfig()
	voices := [3]Voice{
		{NoiseOn: false, ToneOn: true, RawVolume: 15},
		{NoiseOn: false, ToneOn: true, RawVolume: 15},
		{NoiseOn: false, ToneOn: true, RawVolume: 15},
	}
	_, active := CollapseNoise(voices, cfg)
	if active {
		t.Fatal("expected noise inactive when no voice has the noise-mix bit set")
	}
}

func TestCollapseNoiseChannelFilterMutes(t *testing.T) {
	cfg := testConfig()
	cfg.ChannelFilter = map[Channel]bool{ChannelA: true, ChannelB: true, ChannelC: true}
	voices := [3]Voice{
		{NoiseOn: true, ToneOn: false, RawVolume: 15},
	}
	_, active := CollapseNoise(voices, cfg)
	if active {
		t.Fatal("expected noise channel to be muted when absent from a non-empty filter")
	}
}

func TestNoiseRateForPicksNearestFixedRate(t *testing.T) {
	const sourceClockHz = 2000000
	const targetClockHz = 4000000
	// YM noise period chosen so the YM noise frequency lands close to
	// target_clock/1024.
	ymFreq := float64(targetClockHz) / 1024.0
	period := uint8(roundTiesToEven(float64(sourceClockHz) / (16.0 * ymFreq)))
	if got := noiseRateFor(period, sourceClockHz, targetClockHz); got != 1 {
		t.Fatalf("got rate=%d, want 1 (target_clock/1024)", got)
	}
}
