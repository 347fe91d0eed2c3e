package feedback

import (
	"time"

	"voxcmd/pkg/voxtypes"
)

// ToneSequence returns the fixed synthesized tone parameters for a sound
// kind. The sequences are deterministic: same kind, same segments.
func ToneSequence(kind voxtypes.SoundKind) []voxtypes.ToneSegment {
	switch kind {
	case voxtypes.SoundSuccess:
		// Rising major third.
		return []voxtypes.ToneSegment{
			{FrequencyHz: 523.25, Duration: 90 * time.Millisecond, Gain: 0.4, Wave: voxtypes.WaveSine},
			{FrequencyHz: 659.25, Duration: 140 * time.Millisecond, Gain: 0.4, Wave: voxtypes.WaveSine},
		}
	case voxtypes.SoundError:
		// Falling minor second, square wave for bite.
		return []voxtypes.ToneSegment{
			{FrequencyHz: 311.13, Duration: 120 * time.Millisecond, Gain: 0.5, Wave: voxtypes.WaveSquare},
			{FrequencyHz: 233.08, Duration: 220 * time.Millisecond, Gain: 0.5, Wave: voxtypes.WaveSquare},
		}
	case voxtypes.SoundListening:
		return []voxtypes.ToneSegment{
			{FrequencyHz: 880.00, Duration: 60 * time.Millisecond, Gain: 0.3, Wave: voxtypes.WaveSine},
			{FrequencyHz: 987.77, Duration: 60 * time.Millisecond, Gain: 0.3, Wave: voxtypes.WaveSine},
		}
	case voxtypes.SoundProcessing:
		return []voxtypes.ToneSegment{
			{FrequencyHz: 440.00, Duration: 50 * time.Millisecond, Gain: 0.25, Wave: voxtypes.WaveTriangle},
		}
	case voxtypes.SoundNotification:
		return []voxtypes.ToneSegment{
			{FrequencyHz: 698.46, Duration: 80 * time.Millisecond, Gain: 0.35, Wave: voxtypes.WaveSine},
			{FrequencyHz: 698.46, Duration: 80 * time.Millisecond, Gain: 0.35, Wave: voxtypes.WaveSine},
		}
	default:
		return nil
	}
}
