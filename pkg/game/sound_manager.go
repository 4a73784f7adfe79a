package game

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SoundManager holds short sound effects decoded fully into memory.
//
// Every Play or Loop creates a new instance with its own id, so the same sound can
// overlap itself. Stop, Pause and Resume act on all instances of a sound.
//
// Pitch is not supported: ebiten players have no playback-rate control.
type SoundManager struct {
	context  *audio.Context
	fsys     fs.FS
	settings *SettingsManager

	sounds map[string]*sound
	nextID int64
}

type sound struct {
	pcm       []byte
	instances map[int64]*soundInstance
}

type soundInstance struct {
	player *audio.Player
	paused bool
}

// PlayOption adjusts a single Play or Loop call.
type PlayOption func(*playOptions)

type playOptions struct {
	volume float64
	pan    float64
}

// WithVolume sets the instance volume in [0, 1]. It is multiplied by the sound volume setting.
func WithVolume(volume float64) PlayOption {
	return func(o *playOptions) { o.volume = clampVolume(volume) }
}

// WithPan sets the stereo position in [-1 (left), 1 (right)].
func WithPan(pan float64) PlayOption {
	return func(o *playOptions) { o.pan = math.Max(-1, math.Min(1, pan)) }
}

// NewSoundManager creates a sound manager.
//
// Parameters:
//   - ctx: the shared audio context
//   - fsys: file system Load reads from (e.g. the embedded assets); may be nil if only LoadBytes is used
//   - settings: source of the sound volume and enable flag; may be nil
func NewSoundManager(ctx *audio.Context, fsys fs.FS, settings *SettingsManager) *SoundManager {
	return &SoundManager{
		context:  ctx,
		fsys:     fsys,
		settings: settings,
		sounds:   make(map[string]*sound),
	}
}

// Load decodes the file at path and registers it under name, replacing any previous sound.
func (sm *SoundManager) Load(name, path string) error {
	data, err := readAsset(sm.fsys, path)
	if err != nil {
		return err
	}
	if err := sm.LoadBytes(name, audioExt(path), data); err != nil {
		return fmt.Errorf("failed to load sound %s from %s: %w", name, path, err)
	}
	return nil
}

// LoadBytes decodes encoded audio data of the given format (ext such as ".ogg") and
// registers it under name.
func (sm *SoundManager) LoadBytes(name, ext string, data []byte) error {
	pcm, err := decodeAudio(sm.context.SampleRate(), ext, data)
	if err != nil {
		return err
	}
	if old, ok := sm.sounds[name]; ok {
		old.closeAll()
	}
	sm.sounds[name] = &sound{pcm: pcm, instances: make(map[int64]*soundInstance)}
	log.Printf("[SoundManager] Loaded sound %s (%.2fs)", name, pcmSeconds(int64(len(pcm)), sm.context.SampleRate()))
	return nil
}

// Has reports whether name is loaded.
func (sm *SoundManager) Has(name string) bool {
	_, ok := sm.sounds[name]
	return ok
}

// Play starts a new one-shot instance of name.
//
// Returns:
//   - int64: the instance id, or 0 when sounds are disabled in the settings
//   - error: ErrAssetNotFound, or an error creating the player
func (sm *SoundManager) Play(name string, opts ...PlayOption) (int64, error) {
	return sm.start(name, false, opts)
}

// Loop starts a new instance of name that repeats until stopped.
func (sm *SoundManager) Loop(name string, opts ...PlayOption) (int64, error) {
	return sm.start(name, true, opts)
}

func (sm *SoundManager) start(name string, loop bool, opts []PlayOption) (int64, error) {
	s, ok := sm.sounds[name]
	if !ok {
		return 0, fmt.Errorf("sound %s: %w", name, ErrAssetNotFound)
	}
	if !sm.enabled() {
		return 0, nil
	}
	s.reap()

	o := playOptions{volume: 1}
	for _, opt := range opts {
		opt(&o)
	}

	var src io.ReadSeeker = bytes.NewReader(s.pcm)
	if loop {
		src = audio.NewInfiniteLoop(src, int64(len(s.pcm)))
	}
	if o.pan != 0 {
		src = newPanStream(src, o.pan)
	}

	player, err := sm.context.NewPlayer(src)
	if err != nil {
		return 0, fmt.Errorf("failed to create player for sound %s: %w", name, err)
	}
	player.SetVolume(o.volume * sm.volume())
	player.Play()

	sm.nextID++
	s.instances[sm.nextID] = &soundInstance{player: player}
	return sm.nextID, nil
}

// Stop stops and releases every instance of name.
func (sm *SoundManager) Stop(name string) error {
	s, ok := sm.sounds[name]
	if !ok {
		return fmt.Errorf("sound %s: %w", name, ErrAssetNotFound)
	}
	s.closeAll()
	return nil
}

// Pause pauses every playing instance of name.
func (sm *SoundManager) Pause(name string) error {
	s, ok := sm.sounds[name]
	if !ok {
		return fmt.Errorf("sound %s: %w", name, ErrAssetNotFound)
	}
	for _, inst := range s.instances {
		if inst.player.IsPlaying() {
			inst.player.Pause()
			inst.paused = true
		}
	}
	return nil
}

// Resume resumes every instance of name paused by Pause.
func (sm *SoundManager) Resume(name string) error {
	s, ok := sm.sounds[name]
	if !ok {
		return fmt.Errorf("sound %s: %w", name, ErrAssetNotFound)
	}
	for _, inst := range s.instances {
		if inst.paused {
			inst.player.Play()
			inst.paused = false
		}
	}
	return nil
}

// Dispose stops name and forgets it.
func (sm *SoundManager) Dispose(name string) error {
	s, ok := sm.sounds[name]
	if !ok {
		return fmt.Errorf("sound %s: %w", name, ErrAssetNotFound)
	}
	s.closeAll()
	delete(sm.sounds, name)
	return nil
}

// PauseAll pauses every playing instance of every sound.
func (sm *SoundManager) PauseAll() {
	for name := range sm.sounds {
		_ = sm.Pause(name)
	}
}

// ResumeAll resumes every instance paused by Pause or PauseAll.
func (sm *SoundManager) ResumeAll() {
	for name := range sm.sounds {
		_ = sm.Resume(name)
	}
}

// DisposeAll releases every sound.
func (sm *SoundManager) DisposeAll() {
	for name := range sm.sounds {
		_ = sm.Dispose(name)
	}
}

// Instances returns the number of live instances of name.
func (sm *SoundManager) Instances(name string) int {
	s, ok := sm.sounds[name]
	if !ok {
		return 0
	}
	return len(s.instances)
}

func (sm *SoundManager) enabled() bool {
	if sm.settings == nil {
		return true
	}
	return sm.settings.GetSettings().SoundEnabled
}

func (sm *SoundManager) volume() float64 {
	if sm.settings == nil {
		return DefaultSettings().SoundVolume
	}
	return sm.settings.GetSettings().SoundVolume
}

// reap releases instances that finished playing on their own.
func (s *sound) reap() {
	for id, inst := range s.instances {
		if !inst.paused && !inst.player.IsPlaying() {
			if err := inst.player.Close(); err != nil {
				log.Printf("[SoundManager] Warning: Failed to close player: %v", err)
			}
			delete(s.instances, id)
		}
	}
}

func (s *sound) closeAll() {
	for id, inst := range s.instances {
		if err := inst.player.Close(); err != nil {
			log.Printf("[SoundManager] Warning: Failed to close player: %v", err)
		}
		delete(s.instances, id)
	}
}

// panStream applies constant stereo gains to 16-bit little-endian stereo PCM.
type panStream struct {
	src         io.ReadSeeker
	left, right float64
	pos         int64
}

// newPanStream pans src: -1 silences the right channel, 1 silences the left one.
func newPanStream(src io.ReadSeeker, pan float64) *panStream {
	left, right := panGains(pan)
	return &panStream{src: src, left: left, right: right}
}

func panGains(pan float64) (left, right float64) {
	return math.Min(1, 1-pan), math.Min(1, 1+pan)
}

func (p *panStream) Read(buf []byte) (int, error) {
	n, err := p.src.Read(buf)
	for i := 0; i+1 < n; i += 2 {
		sampleIndex := (p.pos + int64(i)) / 2
		gain := p.left
		if sampleIndex%2 == 1 {
			gain = p.right
		}
		v := float64(int16(binary.LittleEndian.Uint16(buf[i:])))
		binary.LittleEndian.PutUint16(buf[i:], uint16(int16(v*gain)))
	}
	p.pos += int64(n)
	return n, err
}

func (p *panStream) Seek(offset int64, whence int) (int64, error) {
	pos, err := p.src.Seek(offset, whence)
	if err == nil {
		p.pos = pos
	}
	return pos, err
}
