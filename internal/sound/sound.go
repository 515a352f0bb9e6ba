// Package sound plays fire-and-forget audio cues through an external
// player binary. Sound is a side effect only: a missing asset or missing
// player disables the cue with a warning and nothing else.
package sound

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// Cue names map to files under the sound directory.
const (
	CueKeyPress = "key_press.mp3"
	CueComplete = "complete.mp3"
)

var playerCandidates = []string{"afplay", "paplay", "aplay", "mpg123", "ffplay"}

// Player resolves and plays audio cues.
type Player struct {
	dir     string
	binary  string
	enabled bool
	log     *slog.Logger
}

// New builds a player over the given sound directory. When the directory,
// a cue file, or a player binary is missing, the player stays constructed
// but disabled.
func New(dir, binary string, disabled bool, log *slog.Logger) *Player {
	if log == nil {
		log = slog.Default()
	}
	p := &Player{dir: dir, binary: binary, log: log}
	if disabled {
		return p
	}
	if p.binary == "" {
		p.binary = findPlayer()
	}
	if p.binary == "" {
		log.Warn("no audio player found; sound disabled")
		return p
	}
	p.enabled = true
	return p
}

// Play starts the named cue without waiting for it. Absence of the asset
// is a warning logged once per call, never an error.
func (p *Player) Play(cue string) {
	if !p.enabled {
		return
	}
	path := filepath.Join(p.dir, cue)
	if _, err := os.Stat(path); err != nil {
		p.log.Warn("sound file not found", "path", path)
		return
	}
	cmd := exec.Command(p.binary, path)
	if err := cmd.Start(); err != nil {
		p.log.Warn("failed to play sound", "cue", cue, "error", err)
		return
	}
	go func() {
		// Reap the player process; its exit status is irrelevant.
		_ = cmd.Wait()
	}()
}

func findPlayer() string {
	for _, candidate := range playerCandidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path
		}
	}
	return ""
}
