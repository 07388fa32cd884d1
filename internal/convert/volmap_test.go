package convert

import "testing"

func TestMapVolumeDefaultCurveMonotonic(t *testing.T) {
	cfg := testConfig()
	prev := uint8(16) // atten 16 is higher than any valid code, forces first comparison true
	for level := uint8(0); level < 16; level++ {
		atten := MapVolume(level, cfg)
		if atten > prev {
			t.Fatalf("attenuation should be non-increasing as level rises: level=%d atten=%d prev=%d", level, atten, prev)
		}
		prev = atten
	}
}

func TestMapVolumeSilenceAtZero(t *testing.T) {
	cfg := testConfig()
	if got := MapVolume(0, cfg); got != silenceAtten {
		t.Fatalf("level 0 should map to full attenuation, got %d", got)
	}
}

func TestMapVolumeFullAtMax(t *testing.T) {
	cfg := testConfig()
	if got := MapVolume(15, cfg); got != 0 {
		t.Fatalf("level 15 should map to zero attenuation, got %d", got)
	}
}

func TestMapVolumeForceAttenuationMapping(t *testing.T) {
	cfg := testConfig()
	cfg.ForceAttenuationMapping = true
	if got := MapVolume(15, cfg); got != 0 {
		t.Fatalf("level 15 should still map to zero attenuation, got %d", got)
	}
	if got := MapVolume(0, cfg); got != 15 {
		t.Fatalf("level 0 should still map to full attenuation, got %d", got)
	}
}
