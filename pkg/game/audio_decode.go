package game

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/ImXico/Cyberpunk/internal/sunau"
)

// ErrAssetNotFound is returned when a sound, track or atlas key has not been loaded.
var ErrAssetNotFound = errors.New("asset not found")

// ErrUnsupportedAudio is returned for audio files other than .ogg, .mp3, .wav and .au.
var ErrUnsupportedAudio = errors.New("unsupported audio format")

// bytesPerFrame is the size of one stereo frame of 16-bit PCM, the format ebiten's
// decoders produce.
const bytesPerFrame = 4

// readAsset reads a whole file from fsys.
func readAsset(fsys fs.FS, name string) ([]byte, error) {
	if fsys == nil {
		return nil, fmt.Errorf("failed to read %s: no asset file system", name)
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// audioExt returns the lowercase extension of name, with the dot.
func audioExt(name string) string {
	return strings.ToLower(path.Ext(name))
}

// decodeAudio decodes an encoded file into 16-bit little-endian stereo PCM at sampleRate.
//
// Parameters:
//   - sampleRate: the audio context's sample rate
//   - ext: file extension, ".ogg", ".mp3", ".wav" or ".au" (with or without the dot)
//   - data: encoded file contents
//
// Returns:
//   - []byte: decoded PCM, a whole number of frames
//   - error: ErrUnsupportedAudio or a decoder error
func decodeAudio(sampleRate int, ext string, data []byte) ([]byte, error) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	reader := bytes.NewReader(data)
	var stream io.Reader
	switch ext {
	case ".ogg":
		s, err := vorbis.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio: %w", err)
		}
		stream = s
	case ".mp3":
		s, err := mp3.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio: %w", err)
		}
		stream = s
	case ".wav":
		s, err := wav.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode WAV audio: %w", err)
		}
		stream = s
	case ".au":
		s, err := sunau.Decode(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode AU audio: %w", err)
		}
		stream = s
		if s.SampleRate() != sampleRate {
			stream = audio.Resample(s, s.Length(), s.SampleRate(), sampleRate)
		}
	default:
		return nil, fmt.Errorf("%w: %q (supported: .ogg, .mp3, .wav, .au)", ErrUnsupportedAudio, ext)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read decoded audio: %w", err)
	}
	return pcm[:len(pcm)-len(pcm)%bytesPerFrame], nil
}

// pcmSeconds converts a PCM byte offset to seconds.
func pcmSeconds(offset int64, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(offset) / float64(bytesPerFrame*sampleRate)
}

// pcmOffset converts seconds to a frame-aligned PCM byte offset.
func pcmOffset(seconds float64, sampleRate int) int64 {
	if seconds <= 0 || sampleRate <= 0 {
		return 0
	}
	frames := int64(seconds * float64(sampleRate))
	return frames * bytesPerFrame
}
