package convert

// snAttenLinear is the default YM-level-to-SN-attenuation table: the
// YM's 16 linear steps are mapped through their equivalent
// position on a logarithmic (2dB/step) attenuation curve rather than
// scaled directly, since the two chips' volume laws are not the same
// shape. Index 0 is YM silence, index 15 is YM full volume; values are SN
// attenuation codes where 0 is loudest and 15 is silent.
var snAttenLinear = [16]uint8{
	15, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 1, 0,
}

// MapVolume implements component E: convert a 4-bit YM level (register
// value or sampled envelope output) into a 4-bit SN attenuation code.
//
// With ForceAttenuationMapping the YM level is instead treated as already
// being on a roughly 3dB/step log scale and rescaled directly onto SN's
// 2dB/step scale by linear index interpolation, which some source material
// (voices authored directly against YM attenuation numbers) matches more
// faithfully than the default curve.
func MapVolume(level uint8, cfg *Config) uint8 {
	level &= 0x0F
	if cfg.ForceAttenuationMapping {
		// Rescale index range [0,15] (3dB/step) onto [0,15] (2dB/step):
		// atten = 15 - round(level * 15 * 3 / (15*2)) clamped to [0,15].
		scaled := roundTiesToEven(float64(level) * 1.5)
		atten := 15 - scaled
		if atten < 0 {
			atten = 0
		}
		if atten > 15 {
			atten = 15
		}
		return uint8(atten)
	}
	return snAttenLinear[level]
}

// silenceAtten is the SN attenuation code that mutes a channel outright,
// used by the arbiter when a channel filter or conflict silences a voice.
const silenceAtten uint8 = 15
