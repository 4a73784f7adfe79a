// Package sunau decodes Sun/NeXT audio (.au) files into the 16-bit little-endian
// stereo PCM that ebiten's audio players consume.
package sunau

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Header layout: six big-endian uint32 fields, then an optional annotation.
const (
	headerSize = 24
	magic      = 0x2e736e64 // ".snd"

	encodingULaw  = 1
	encodingPCM16 = 3

	bytesPerFrame = 4
)

// ErrInvalid is returned for data that is not a usable .au file.
var ErrInvalid = errors.New("invalid au file")

// ulawTable expands an 8-bit G.711 mu-law sample to 16-bit linear PCM.
var ulawTable = [256]int16{
	-32124, -31100, -30076, -29052, -28028, -27004, -25980, -24956,
	-23932, -22908, -21884, -20860, -19836, -18812, -17788, -16764,
	-15996, -15484, -14972, -14460, -13948, -13436, -12924, -12412,
	-11900, -11388, -10876, -10364, -9852, -9340, -8828, -8316,
	-7932, -7676, -7420, -7164, -6908, -6652, -6396, -6140,
	-5884, -5628, -5372, -5116, -4860, -4604, -4348, -4092,
	-3900, -3772, -3644, -3516, -3388, -3260, -3132, -3004,
	-2876, -2748, -2620, -2492, -2364, -2236, -2108, -1980,
	-1884, -1820, -1756, -1692, -1628, -1564, -1500, -1436,
	-1372, -1308, -1244, -1180, -1116, -1052, -988, -924,
	-876, -844, -812, -780, -748, -716, -684, -652,
	-620, -588, -556, -524, -492, -460, -428, -396,
	-372, -356, -340, -324, -308, -292, -276, -260,
	-244, -228, -212, -196, -180, -164, -148, -132,
	-120, -112, -104, -96, -88, -80, -72, -64,
	-56, -48, -40, -32, -24, -16, -8, 0,
	32124, 31100, 30076, 29052, 28028, 27004, 25980, 24956,
	23932, 22908, 21884, 20860, 19836, 18812, 17788, 16764,
	15996, 15484, 14972, 14460, 13948, 13436, 12924, 12412,
	11900, 11388, 10876, 10364, 9852, 9340, 8828, 8316,
	7932, 7676, 7420, 7164, 6908, 6652, 6396, 6140,
	5884, 5628, 5372, 5116, 4860, 4604, 4348, 4092,
	3900, 3772, 3644, 3516, 3388, 3260, 3132, 3004,
	2876, 2748, 2620, 2492, 2364, 2236, 2108, 1980,
	1884, 1820, 1756, 1692, 1628, 1564, 1500, 1436,
	1372, 1308, 1244, 1180, 1116, 1052, 988, 924,
	876, 844, 812, 780, 748, 716, 684, 652,
	620, 588, 556, 524, 492, 460, 428, 396,
	372, 356, 340, 324, 308, 292, 276, 260,
	244, 228, 212, 196, 180, 164, 148, 132,
	120, 112, 104, 96, 88, 80, 72, 64,
	56, 48, 40, 32, 24, 16, 8, 0,
}

// Stream is a decoded .au file. It implements io.ReadSeeker over 16-bit little-endian
// stereo PCM; mono files are duplicated onto both channels.
type Stream struct {
	pcm        []byte
	sampleRate int
	channels   int
	offset     int64
}

// Decode reads a whole .au file from r. Mu-law and 16-bit linear encodings with one
// or two channels are supported.
func Decode(r io.Reader) (*Stream, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read au file: %w", err)
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrInvalid, len(data), headerSize)
	}

	be := binary.BigEndian
	if m := be.Uint32(data[0:]); m != magic {
		return nil, fmt.Errorf("%w: magic 0x%08x", ErrInvalid, m)
	}
	dataOffset := int(be.Uint32(data[4:]))
	dataSize := be.Uint32(data[8:])
	encoding := be.Uint32(data[12:])
	sampleRate := int(be.Uint32(data[16:]))
	channels := int(be.Uint32(data[20:]))

	if dataOffset < headerSize || dataOffset > len(data) {
		return nil, fmt.Errorf("%w: data offset %d outside %d-byte file", ErrInvalid, dataOffset, len(data))
	}
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalid, channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalid, sampleRate)
	}

	body := data[dataOffset:]
	// 0xffffffff means unknown size; otherwise trust the smaller of header and file.
	if dataSize != 0xffffffff && int64(dataSize) < int64(len(body)) {
		body = body[:dataSize]
	}

	var samples []int16
	switch encoding {
	case encodingULaw:
		samples = make([]int16, len(body))
		for i, b := range body {
			samples[i] = ulawTable[b]
		}
	case encodingPCM16:
		samples = make([]int16, len(body)/2)
		for i := range samples {
			samples[i] = int16(be.Uint16(body[i*2:]))
		}
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %d", ErrInvalid, encoding)
	}

	return &Stream{
		pcm:        toStereo(samples, channels),
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

// toStereo interleaves samples as little-endian stereo frames.
func toStereo(samples []int16, channels int) []byte {
	frames := len(samples) / channels
	pcm := make([]byte, frames*bytesPerFrame)
	le := binary.LittleEndian
	for f := 0; f < frames; f++ {
		left := samples[f*channels]
		right := left
		if channels == 2 {
			right = samples[f*channels+1]
		}
		le.PutUint16(pcm[f*bytesPerFrame:], uint16(left))
		le.PutUint16(pcm[f*bytesPerFrame+2:], uint16(right))
	}
	return pcm
}

// Read implements io.Reader.
func (s *Stream) Read(p []byte) (int, error) {
	if s.offset >= int64(len(s.pcm)) {
		return 0, io.EOF
	}
	n := copy(p, s.pcm[s.offset:])
	s.offset += int64(n)
	return n, nil
}

// Seek implements io.Seeker.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = s.offset + offset
	case io.SeekEnd:
		next = int64(len(s.pcm)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("negative position: %d", next)
	}
	s.offset = next
	return next, nil
}

// Length returns the decoded size in bytes.
func (s *Stream) Length() int64 {
	return int64(len(s.pcm))
}

// SampleRate returns the file's sample rate in Hz.
func (s *Stream) SampleRate() int {
	return s.sampleRate
}

// Channels returns the file's channel count before stereo expansion.
func (s *Stream) Channels() int {
	return s.channels
}
