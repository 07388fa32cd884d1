package convert

// Channel identifies one of the SN76489's four mixer inputs, used by
// Config.ChannelFilter.
type Channel int

const (
	ChannelA Channel = iota
	ChannelB
	ChannelC
	ChannelNoise
)

// LFSRTap selects the SN76489 periodic-noise tap bit, which differs by
// chip revision and drives the periodic-noise tone period formula.
type LFSRTap int

const (
	LFSRTap15 LFSRTap = 15
	LFSRTap16 LFSRTap = 16
)

// Common source-clock presets. The converter never infers these from
// song metadata, it only accepts them as an explicit config choice.
const (
	SourceClockAtariST    = 2000000
	SourceClockZXSpectrum = 1773400
	SourceClockPAL        = SourceClockZXSpectrum
	SourceClockNTSC       = 1789772
)

// TargetClockSN is the conventional SN76489 clock used by the large
// majority of VGM-consuming SN76489 hosts.
const TargetClockSN = 4000000

// Config is the full set of enumerated conversion options.
type Config struct {
	TargetClockHz uint32
	SourceClockHz uint32
	LFSRTap       LFSRTap

	// EnvelopeSampleRateHz must be an integer multiple of FrameRateHz.
	// Zero means "use the frame rate" (one envelope sample per frame).
	EnvelopeSampleRateHz uint32

	// ChannelFilter lists the channels that are allowed to sound; any
	// channel absent from a non-empty filter is muted every frame. A nil
	// or empty filter mutes nothing (default: all channels on).
	ChannelFilter map[Channel]bool

	SoftwareBass            bool
	TunedWhiteNoise         bool
	DisableEnvelopes        bool
	ForceAttenuationMapping bool
}

// DefaultConfig returns the baseline conversion defaults.
func DefaultConfig() Config {
	return Config{
		TargetClockHz: TargetClockSN,
		SourceClockHz: SourceClockAtariST,
		LFSRTap:       LFSRTap15,
	}
}

// ChannelAllowed reports whether ch is permitted to sound under the
// configured channel filter.
func (c *Config) ChannelAllowed(ch Channel) bool {
	if len(c.ChannelFilter) == 0 {
		return true
	}
	return c.ChannelFilter[ch]
}
