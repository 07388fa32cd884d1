package convert

import "testing"

func TestArbitrateIdentityMapping(t *testing.T) {
	cfg := testConfig()
	arb := NewArbiter(cfg, [3]int{})
	report := NewReport()

	voices := [3]Voice{
		{ToneOn: true, FreqHz: 440, RawVolume: 10},
		{ToneOn: true, FreqHz: 220, RawVolume: 8},
		{ToneOn: true, FreqHz: 880, RawVolume: 5},
	}
	out := arb.Arbitrate(0, voices, 1, cfg.SourceClockHz, report)

	for v := 0; v < 3; v++ {
		if !out.ToneOn[v] {
			t.Fatalf("voice %d should map to its own channel", v)
		}
	}
}

func TestArbitratePercussiveNoiseClaimsChannelC(t *testing.T) {
	cfg := testConfig()
	cfg.TunedWhiteNoise = true
	arb := NewArbiter(cfg, [3]int{})
	report := NewReport()

	voices := [3]Voice{
		{ToneOn: true, FreqHz: 440, RawVolume: 10},
		{ToneOn: true, FreqHz: 220, RawVolume: 8},
		{ToneOn: true, FreqHz: 880, RawVolume: 5}, // voice C, should be displaced
	}
	voices[1].NoiseOn = true
	voices[1].ToneOn = false // voice B is a pure percussive noise hit

	out := arb.Arbitrate(0, voices, 1, cfg.SourceClockHz, report)
	if !out.NoiseTone {
		t.Fatal("tuned white noise should set the white-noise feedback mode")
	}
	if out.NoiseRate != 3 {
		t.Fatalf("tuned noise should be driven by tone channel 2, got rate=%d", out.NoiseRate)
	}
	if out.Atten[2] != silenceAtten {
		t.Fatal("voice C's own tone should be silenced when channel C is claimed for noise tuning")
	}
}

func TestArbitrateSilencesUnmappableVoice(t *testing.T) {
	cfg := testConfig()
	arb := NewArbiter(cfg, [3]int{})
	report := NewReport()

	// A frequency far too low to reach any SN representable register, and
	// not representable by either bass technique.
	voices := [3]Voice{
		{ToneOn: true, FreqHz: 0.001, RawVolume: 10, RawPeriod: 4095},
	}
	out := arb.Arbitrate(0, voices, 1, cfg.SourceClockHz, report)
	if out.Atten[0] != silenceAtten {
		t.Fatal("unmappable voice should be silenced")
	}
	if report.CountByKind(WarnVoiceSilenced) == 0 {
		t.Fatal("expected a voice_silenced warning")
	}
}

func TestBassPrescanCountsOutOfRangeFrames(t *testing.T) {
	cfg := testConfig()
	frames := []YmFrame{
		{Regs: [RegCount]uint8{RegMixer: 0b110110}}, // tone A (and noise A) enabled; period set below
	}
	frames[0].Regs[RegTonePeriodALo] = 0xFF
	frames[0].Regs[RegTonePeriodAHi] = 0x0F // max 12-bit period: very low frequency

	tally := BassPrescan(frames, cfg.SourceClockHz, cfg)
	if tally[0] == 0 {
		t.Fatal("expected the near-minimum-frequency voice to register in the bass prescan tally")
	}
}
