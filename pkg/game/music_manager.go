package game

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// MusicManager plays long background tracks. Only one track plays at a time:
// playing a track pauses the previous one.
//
// Operations on a name that was never loaded are no-ops, except Play which reports
// ErrAssetNotFound.
type MusicManager struct {
	context  *audio.Context
	fsys     fs.FS
	settings *SettingsManager

	tracks  map[string]*track
	current string
}

type track struct {
	stream *loopStream
	player *audio.Player
	volume float64
}

// NewMusicManager creates a music manager. fsys and settings may be nil.
func NewMusicManager(ctx *audio.Context, fsys fs.FS, settings *SettingsManager) *MusicManager {
	return &MusicManager{
		context:  ctx,
		fsys:     fsys,
		settings: settings,
		tracks:   make(map[string]*track),
	}
}

// Load decodes the file at path and registers it under name.
func (mm *MusicManager) Load(name, path string) error {
	data, err := readAsset(mm.fsys, path)
	if err != nil {
		return err
	}
	if err := mm.LoadBytes(name, audioExt(path), data); err != nil {
		return fmt.Errorf("failed to load music %s from %s: %w", name, path, err)
	}
	return nil
}

// LoadBytes decodes encoded audio data of the given format and registers it under name.
// Tracks do not loop until SetLooping is called.
func (mm *MusicManager) LoadBytes(name, ext string, data []byte) error {
	pcm, err := decodeAudio(mm.context.SampleRate(), ext, data)
	if err != nil {
		return err
	}
	stream := newLoopStream(pcm)
	player, err := mm.context.NewPlayer(stream)
	if err != nil {
		return fmt.Errorf("failed to create player for music %s: %w", name, err)
	}
	mm.Dispose(name)
	mm.tracks[name] = &track{stream: stream, player: player, volume: 1}
	log.Printf("[MusicManager] Loaded track %s (%.2fs)", name, pcmSeconds(int64(len(pcm)), mm.context.SampleRate()))
	return nil
}

// Play starts or resumes name at volume in [0, 1], scaled by the music volume setting.
// A finished, non-looping track restarts from the beginning. With music disabled in
// the settings nothing plays and nil is returned.
func (mm *MusicManager) Play(name string, volume float64) error {
	t, ok := mm.tracks[name]
	if !ok {
		return fmt.Errorf("music %s: %w", name, ErrAssetNotFound)
	}
	if mm.settings != nil && !mm.settings.GetSettings().MusicEnabled {
		return nil
	}

	if mm.current != "" && mm.current != name {
		if prev, ok := mm.tracks[mm.current]; ok {
			prev.player.Pause()
		}
	}
	mm.current = name

	t.volume = clampVolume(volume)
	t.player.SetVolume(t.volume * mm.musicVolume())
	if !t.player.IsPlaying() && t.stream.finished() {
		if err := t.player.Rewind(); err != nil {
			log.Printf("[MusicManager] Warning: Failed to rewind %s: %v", name, err)
		}
	}
	t.player.Play()
	return nil
}

// Pause pauses name, keeping its position.
func (mm *MusicManager) Pause(name string) {
	if t, ok := mm.tracks[name]; ok {
		t.player.Pause()
	}
}

// Stop pauses name and rewinds it.
func (mm *MusicManager) Stop(name string) {
	t, ok := mm.tracks[name]
	if !ok {
		return
	}
	t.player.Pause()
	if err := t.player.Rewind(); err != nil {
		log.Printf("[MusicManager] Warning: Failed to rewind %s: %v", name, err)
	}
	if mm.current == name {
		mm.current = ""
	}
}

// SetLooping makes name repeat from the start when it reaches the end, until turned off.
func (mm *MusicManager) SetLooping(name string, looping bool) {
	if t, ok := mm.tracks[name]; ok {
		t.stream.setLooping(looping)
	}
}

// IsPlaying reports whether name is playing.
func (mm *MusicManager) IsPlaying(name string) bool {
	t, ok := mm.tracks[name]
	return ok && t.player.IsPlaying()
}

// IsLooping reports whether name repeats.
func (mm *MusicManager) IsLooping(name string) bool {
	t, ok := mm.tracks[name]
	return ok && t.stream.isLooping()
}

// Position returns name's playback position in seconds, or -1 if it is not loaded.
func (mm *MusicManager) Position(name string) float64 {
	t, ok := mm.tracks[name]
	if !ok {
		return -1
	}
	return t.player.Position().Seconds()
}

// SetPosition seeks name to seconds from the start.
func (mm *MusicManager) SetPosition(name string, seconds float64) error {
	t, ok := mm.tracks[name]
	if !ok {
		return fmt.Errorf("music %s: %w", name, ErrAssetNotFound)
	}
	offset := pcmOffset(seconds, mm.context.SampleRate())
	if err := t.player.SetPosition(secondsToDuration(pcmSeconds(offset, mm.context.SampleRate()))); err != nil {
		return fmt.Errorf("failed to seek music %s: %w", name, err)
	}
	return nil
}

// Current returns the name of the track last played, or "".
func (mm *MusicManager) Current() string {
	return mm.current
}

// SetMusicVolume stores the music volume setting and applies it to every track.
func (mm *MusicManager) SetMusicVolume(volume float64) {
	if mm.settings != nil {
		mm.settings.SetMusicVolume(volume)
	}
	for _, t := range mm.tracks {
		t.player.SetVolume(t.volume * mm.musicVolume())
	}
}

// Dispose closes name's player and forgets it.
func (mm *MusicManager) Dispose(name string) {
	t, ok := mm.tracks[name]
	if !ok {
		return
	}
	if err := t.player.Close(); err != nil {
		log.Printf("[MusicManager] Warning: Failed to close %s: %v", name, err)
	}
	delete(mm.tracks, name)
	if mm.current == name {
		mm.current = ""
	}
}

// DisposeAll releases every track.
func (mm *MusicManager) DisposeAll() {
	for name := range mm.tracks {
		mm.Dispose(name)
	}
}

func (mm *MusicManager) musicVolume() float64 {
	if mm.settings == nil {
		return DefaultSettings().MusicVolume
	}
	return mm.settings.GetSettings().MusicVolume
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// loopStream is an in-memory PCM stream whose looping can be toggled while playing.
// ebiten reads players from its own goroutine, hence the locking.
type loopStream struct {
	mu      sync.Mutex
	pcm     []byte
	pos     int64
	looping atomic.Bool
}

func newLoopStream(pcm []byte) *loopStream {
	return &loopStream{pcm: pcm}
}

func (s *loopStream) setLooping(v bool) { s.looping.Store(v) }
func (s *loopStream) isLooping() bool   { return s.looping.Load() }

// finished reports whether a non-looping stream has been read to the end.
func (s *loopStream) finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.looping.Load() && s.pos >= int64(len(s.pcm))
}

func (s *loopStream) Read(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pcm) == 0 {
		return 0, io.EOF
	}
	n := 0
	for n < len(buf) {
		if s.pos >= int64(len(s.pcm)) {
			if !s.looping.Load() {
				break
			}
			s.pos = 0
		}
		c := copy(buf[n:], s.pcm[s.pos:])
		n += c
		s.pos += int64(c)
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

var errNegativePosition = errors.New("negative position")

func (s *loopStream) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = s.pos + offset
	case io.SeekEnd:
		pos = int64(len(s.pcm)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, errNegativePosition
	}
	if pos > int64(len(s.pcm)) {
		pos = int64(len(s.pcm))
	}
	s.pos = pos
	return pos, nil
}
