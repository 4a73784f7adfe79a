package game

import (
	"io/fs"
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioManager groups the sound and music managers behind the user's settings.
//
// Responsibilities:
//   - owns the SoundManager and MusicManager sharing one audio context and asset FS
//   - applies setting changes (volume, enable flags) to what is already playing
//   - pauses and resumes all audio when the application loses or regains focus
type AudioManager struct {
	context  *audio.Context
	settings *SettingsManager
	sounds   *SoundManager
	music    *MusicManager

	paused      bool
	pausedTrack string
}

// NewAudioManager creates both managers.
//
// Parameters:
//   - ctx: the shared audio context
//   - fsys: asset file system, may be nil
//   - settings: user settings, may be nil (defaults apply)
func NewAudioManager(ctx *audio.Context, fsys fs.FS, settings *SettingsManager) *AudioManager {
	return &AudioManager{
		context:  ctx,
		settings: settings,
		sounds:   NewSoundManager(ctx, fsys, settings),
		music:    NewMusicManager(ctx, fsys, settings),
	}
}

// Sounds returns the sound effect manager.
func (am *AudioManager) Sounds() *SoundManager {
	return am.sounds
}

// Music returns the music manager.
func (am *AudioManager) Music() *MusicManager {
	return am.music
}

// Context returns the audio context.
func (am *AudioManager) Context() *audio.Context {
	return am.context
}

// SetMusicVolume stores the music volume and applies it to every loaded track.
func (am *AudioManager) SetMusicVolume(volume float64) {
	am.music.SetMusicVolume(volume)
}

// SetSoundVolume stores the sound volume. It applies to sounds played afterwards.
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settings != nil {
		am.settings.SetSoundVolume(volume)
	}
}

// SetMusicEnabled turns music on or off, pausing the current track when turned off.
func (am *AudioManager) SetMusicEnabled(enabled bool) {
	if am.settings != nil {
		am.settings.SetMusicEnabled(enabled)
	}
	if !enabled && am.music.Current() != "" {
		am.music.Pause(am.music.Current())
	}
}

// SetSoundEnabled turns sound effects on or off, stopping playing sounds when turned off.
func (am *AudioManager) SetSoundEnabled(enabled bool) {
	if am.settings != nil {
		am.settings.SetSoundEnabled(enabled)
	}
	if !enabled {
		for name := range am.sounds.sounds {
			_ = am.sounds.Stop(name)
		}
	}
}

// PauseAll pauses every sound and the current track.
func (am *AudioManager) PauseAll() {
	if am.paused {
		return
	}
	am.paused = true
	am.sounds.PauseAll()
	if cur := am.music.Current(); cur != "" && am.music.IsPlaying(cur) {
		am.pausedTrack = cur
		am.music.Pause(cur)
	}
	log.Printf("[AudioManager] Audio paused")
}

// ResumeAll undoes PauseAll.
func (am *AudioManager) ResumeAll() {
	if !am.paused {
		return
	}
	am.paused = false
	am.sounds.ResumeAll()
	if am.pausedTrack != "" {
		if t, ok := am.music.tracks[am.pausedTrack]; ok {
			if err := am.music.Play(am.pausedTrack, t.volume); err != nil {
				log.Printf("[AudioManager] Warning: Failed to resume music %s: %v", am.pausedTrack, err)
			}
		}
		am.pausedTrack = ""
	}
	log.Printf("[AudioManager] Audio resumed")
}

// Dispose releases every sound and track.
func (am *AudioManager) Dispose() {
	am.sounds.DisposeAll()
	am.music.DisposeAll()
}
