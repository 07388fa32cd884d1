package convert

import "testing"

func TestPacketizerFirstFrameEmitsEverything(t *testing.T) {
	p := NewPacketizer()
	frame := newSilentSnFrame()
	frame.ToneOn[0] = true
	frame.Tone[0] = 100
	frame.Atten[0] = 5

	cmds := p.Emit(frame)
	// 3 tone channels * 2 bytes + 4 attenuations + 1 noise latch = 11.
	if len(cmds) != 11 {
		t.Fatalf("first frame should emit all 11 registers, got %d", len(cmds))
	}
}

func TestPacketizerDiffSuppressesUnchangedRegisters(t *testing.T) {
	p := NewPacketizer()
	frame := newSilentSnFrame()
	frame.ToneOn[0] = true
	frame.Tone[0] = 100
	frame.Atten[0] = 5
	p.Emit(frame)

	// Identical frame again: nothing changed, nothing should be emitted.
	cmds := p.Emit(frame)
	if len(cmds) != 0 {
		t.Fatalf("unchanged frame should emit no commands, got %d", len(cmds))
	}

	frame.Atten[1] = 3
	cmds = p.Emit(frame)
	if len(cmds) != 1 {
		t.Fatalf("single changed register should emit exactly one command, got %d", len(cmds))
	}
}

func TestPacketizerEmitsAtMostElevenBytesPerFrame(t *testing.T) {
	p := NewPacketizer()
	frame := newSilentSnFrame()
	for c := 0; c < 3; c++ {
		frame.ToneOn[c] = true
		frame.Tone[c] = uint16(100 + c)
	}
	frame.Atten = [4]uint8{1, 2, 3, 4}
	frame.NoiseTone = true
	frame.NoiseRate = 2

	cmds := p.Emit(frame)
	if len(cmds) > 11 {
		t.Fatalf("frame emitted %d commands, exceeds the 11-byte maximum", len(cmds))
	}
}

func TestPacketizerWaitDriftBounded(t *testing.T) {
	p := NewPacketizer()
	const sampleRateHz = 44100
	const frameRateHz = 50 // does not divide evenly into 44100

	total := 0
	const frames = 1000
	for i := 0; i < frames; i++ {
		cmd := p.Wait(sampleRateHz, frameRateHz)
		total += cmd.Samples
	}

	exact := float64(sampleRateHz) / float64(frameRateHz) * float64(frames)
	drift := float64(total) - exact
	if drift < -1 || drift > 1 {
		t.Fatalf("cumulative wait drift %v exceeds one sample", drift)
	}
}

func TestToneLatchAndDataByteLayout(t *testing.T) {
	b := toneLatchLow(1, 0x1FF)
	if b&0x80 == 0 {
		t.Fatal("latch byte must have bit 7 set")
	}
	if (b>>5)&0x03 != 1 {
		t.Fatalf("channel bits = %d, want 1", (b>>5)&0x03)
	}
	if b&0x0F != 0x1FF&0x0F {
		t.Fatalf("low nibble = %#x, want %#x", b&0x0F, 0x1FF&0x0F)
	}

	d := toneDataHigh(0x1FF)
	if d&0xC0 != 0 {
		t.Fatalf("data-high byte must not set bits 6-7, got %#x", d)
	}
}

func TestBassDataHighSetsTagBit(t *testing.T) {
	d := bassDataHigh(100)
	if d&bassTagBit == 0 {
		t.Fatal("bass-encoded tone write should set the tag bit")
	}
	if d&0x3F != toneDataHigh(100)&0x3F {
		t.Fatal("bass tag bit must not disturb the period bits")
	}
}
