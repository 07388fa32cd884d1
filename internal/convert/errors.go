package convert

import "errors"

// ErrEnvelopeSampleRateNotDivisible is returned by NewConverter when
// Config.EnvelopeSampleRateHz is set but is not an integer multiple of the
// stream's frame rate. This is checked once, before any frame is
// streamed, rather than discovered mid-conversion.
var ErrEnvelopeSampleRateNotDivisible = errors.New("convert: envelope sample rate is not an integer multiple of the frame rate")

// ErrNoFrames is returned when a conversion is requested over an empty
// frame sequence.
var ErrNoFrames = errors.New("convert: no frames to convert")
