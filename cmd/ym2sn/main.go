// Command ym2sn converts YM2149 register-dump files into SN76489 VGM
// files, batching over every file given on the command line.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/zayn-psg/ym2sn/internal/convert"
	"github.com/zayn-psg/ym2sn/internal/vgmenc"
	"github.com/zayn-psg/ym2sn/internal/ymfile"
)

var log = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// fileConfig mirrors Config but in a YAML-friendly shape, letting a
// config file set the same options --flags do.
type fileConfig struct {
	TargetClockHz           uint32   `yaml:"target_clock_hz"`
	SourceClock             string   `yaml:"source_clock"`
	LFSRTap                 int      `yaml:"lfsr_tap"`
	EnvelopeSampleRateHz    uint32   `yaml:"envelope_sample_rate_hz"`
	Channels                []string `yaml:"channels"`
	SoftwareBass            bool     `yaml:"software_bass"`
	TunedWhiteNoise         bool     `yaml:"tuned_white_noise"`
	DisableEnvelopes        bool     `yaml:"disable_envelopes"`
	ForceAttenuationMapping bool     `yaml:"force_attenuation_mapping"`
	OutputDir               string   `yaml:"output_dir"`
	Gzip                    bool     `yaml:"gzip"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &fc, nil
}

func parseSourceClock(s string) (uint32, error) {
	switch strings.ToLower(s) {
	case "", "atari", "atari-st":
		return convert.SourceClockAtariST, nil
	case "pal":
		return convert.SourceClockPAL, nil
	case "ntsc":
		return convert.SourceClockNTSC, nil
	case "spectrum", "zx-spectrum":
		return convert.SourceClockZXSpectrum, nil
	default:
		hz, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("unrecognised source clock %q", s)
		}
		return uint32(hz), nil
	}
}

func parseChannelFilter(names []string) (map[convert.Channel]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	filter := make(map[convert.Channel]bool, len(names))
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "a":
			filter[convert.ChannelA] = true
		case "b":
			filter[convert.ChannelB] = true
		case "c":
			filter[convert.ChannelC] = true
		case "noise":
			filter[convert.ChannelNoise] = true
		default:
			return nil, fmt.Errorf("unknown channel %q", n)
		}
	}
	return filter, nil
}

func main() {
	var (
		configPath    = pflag.StringP("config", "c", "", "YAML config file; CLI flags override its values")
		sourceClock   = pflag.String("source-clock", "", "source PSG clock: atari, pal, ntsc, zx-spectrum, or a Hz value")
		targetClockHz = pflag.Uint32("target-clock", convert.TargetClockSN, "target SN76489 clock in Hz")
		lfsrTap       = pflag.Int("lfsr-tap", 15, "SN76489 periodic-noise LFSR tap: 15 or 16")
		envRateHz     = pflag.Uint32("envelope-sample-rate", 0, "envelope sampling rate in Hz, 0 = frame rate")
		channels      = pflag.StringSlice("channels", nil, "comma-separated channel allowlist: a,b,c,noise (default: all)")
		softwareBass  = pflag.Bool("software-bass", false, "enable the software-bass tone re-encoding")
		tunedNoise    = pflag.Bool("tuned-white-noise", false, "retune the shared noise generator for percussive hits")
		noEnvelopes   = pflag.Bool("disable-envelopes", false, "ignore the hardware envelope generator entirely")
		forceAtten    = pflag.Bool("force-attenuation-mapping", false, "rescale YM levels directly instead of the default curve")
		outputDir     = pflag.StringP("output-dir", "o", "", "directory for converted .vgm files (default: alongside input)")
		gzipOutput    = pflag.Bool("gzip", false, "write gzip-compressed .vgz instead of .vgm")
		verbose       = pflag.BoolP("verbose", "v", false, "enable debug logging")
		help          = pflag.Bool("help", false, "display this help text")
	)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: ym2sn [flags] file.ym [file2.ym ...]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help || pflag.NArg() == 0 {
		pflag.Usage()
		if *help {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if *verbose {
		log.SetLevel(charmlog.DebugLevel)
	}

	cfg := convert.DefaultConfig()
	if *configPath != "" {
		fc, err := loadFileConfig(*configPath)
		if err != nil {
			log.Fatal("loading config", "err", err)
		}
		applyFileConfig(&cfg, fc)
		if fc.OutputDir != "" && *outputDir == "" {
			*outputDir = fc.OutputDir
		}
		if fc.Gzip {
			*gzipOutput = true
		}
	}

	if *sourceClock != "" {
		hz, err := parseSourceClock(*sourceClock)
		if err != nil {
			log.Fatal("bad --source-clock", "err", err)
		}
		cfg.SourceClockHz = hz
	}
	if pflag.CommandLine.Changed("target-clock") {
		cfg.TargetClockHz = *targetClockHz
	}
	if pflag.CommandLine.Changed("lfsr-tap") {
		switch *lfsrTap {
		case 15:
			cfg.LFSRTap = convert.LFSRTap15
		case 16:
			cfg.LFSRTap = convert.LFSRTap16
		default:
			log.Fatal("--lfsr-tap must be 15 or 16")
		}
	}
	if pflag.CommandLine.Changed("envelope-sample-rate") {
		cfg.EnvelopeSampleRateHz = *envRateHz
	}
	if pflag.CommandLine.Changed("channels") {
		filter, err := parseChannelFilter(*channels)
		if err != nil {
			log.Fatal("bad --channels", "err", err)
		}
		cfg.ChannelFilter = filter
	}
	if *softwareBass {
		cfg.SoftwareBass = true
	}
	if *tunedNoise {
		cfg.TunedWhiteNoise = true
	}
	if *noEnvelopes {
		cfg.DisableEnvelopes = true
	}
	if *forceAtten {
		cfg.ForceAttenuationMapping = true
	}

	var wg sync.WaitGroup
	results := make([]error, pflag.NArg())
	for i, path := range pflag.Args() {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			// Config is copied per goroutine: each file gets its own
			// Converter instance and never shares one across goroutines.
			results[i] = convertOne(path, cfg, *outputDir, *gzipOutput)
		}(i, path)
	}
	wg.Wait()

	exitCode := 0
	for i, err := range results {
		if err != nil {
			log.Error("conversion failed", "file", pflag.Args()[i], "err", err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func applyFileConfig(cfg *convert.Config, fc *fileConfig) {
	if fc.TargetClockHz != 0 {
		cfg.TargetClockHz = fc.TargetClockHz
	}
	if fc.SourceClock != "" {
		if hz, err := parseSourceClock(fc.SourceClock); err == nil {
			cfg.SourceClockHz = hz
		}
	}
	if fc.LFSRTap == 16 {
		cfg.LFSRTap = convert.LFSRTap16
	}
	if fc.EnvelopeSampleRateHz != 0 {
		cfg.EnvelopeSampleRateHz = fc.EnvelopeSampleRateHz
	}
	if len(fc.Channels) > 0 {
		if filter, err := parseChannelFilter(fc.Channels); err == nil {
			cfg.ChannelFilter = filter
		}
	}
	cfg.SoftwareBass = cfg.SoftwareBass || fc.SoftwareBass
	cfg.TunedWhiteNoise = cfg.TunedWhiteNoise || fc.TunedWhiteNoise
	cfg.DisableEnvelopes = cfg.DisableEnvelopes || fc.DisableEnvelopes
	cfg.ForceAttenuationMapping = cfg.ForceAttenuationMapping || fc.ForceAttenuationMapping
}

func convertOne(path string, cfg convert.Config, outputDir string, gzipOutput bool) error {
	song, err := ymfile.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(song.Frames) == 0 {
		return fmt.Errorf("parsing %s: %w", path, convert.ErrNoFrames)
	}

	frameRateHz := uint32(song.FrameRateHz)
	if frameRateHz == 0 {
		frameRateHz = 50
	}

	conv, err := convert.NewConverter(cfg, frameRateHz, song.Frames)
	if err != nil {
		return fmt.Errorf("configuring converter for %s: %w", path, err)
	}

	enc := vgmenc.NewEncoder(cfg.TargetClockHz, cfg.LFSRTap)
	var sampleN int64
	for i := range song.Frames {
		if song.LoopFrame != 0 && uint32(i) == song.LoopFrame {
			enc.WriteCommand(convert.SnCommand{Kind: convert.CmdLoopStart})
			conv.SetLoopPoint(i, sampleN)
		}
		for _, cmd := range conv.ConvertFrame(&song.Frames[i]) {
			enc.WriteCommand(cmd)
			if cmd.Kind == convert.CmdWait {
				sampleN += int64(cmd.Samples)
			}
		}
	}

	report := conv.Report()
	log.Info("converted",
		"file", path,
		"frames", report.FramesConverted,
		"octave_folds", report.CountByKind(convert.WarnOctaveFold),
		"voices_silenced", report.CountByKind(convert.WarnVoiceSilenced),
		"bass_frames_a", report.BassFrames[0],
		"bass_frames_b", report.BassFrames[1],
		"bass_frames_c", report.BassFrames[2],
		"loop_frame", report.LoopFrame,
	)
	for _, w := range report.Warnings {
		log.Debug("frame warning", "frame", w.Frame, "voice", w.Voice, "kind", w.Kind, "note", w.Note)
	}

	outPath := outputPath(path, outputDir, gzipOutput)
	meta := &vgmenc.Metadata{
		TrackNameEn:  song.Title,
		AuthorEn:     song.Author,
		Notes:        song.Comment,
		SystemNameEn: "Atari ST",
		Converter:    "ym2sn",
	}
	if err := enc.WriteFile(outPath, meta, gzipOutput); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

func outputPath(inputPath, outputDir string, gzipOutput bool) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	ext := ".vgm"
	if gzipOutput {
		ext = ".vgz"
	}
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	return filepath.Join(dir, base+ext)
}
