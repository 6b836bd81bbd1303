package sound

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/hajimehoshi/go-mp3"
	"github.com/hajimehoshi/oto/v2"
)

// 16-bit stereo at 44.1kHz, the format go-mp3 decodes to
const (
	sampleRate      = 44100
	channelCount    = 2
	bitDepthInBytes = 2
)

// Nop is a silent player
type Nop struct{}

// Play does nothing
func (Nop) Play(entities.SoundEffect) {}

// Close does nothing
func (Nop) Close() error { return nil }

// LoadEffects decodes <dir>/<effect>.mp3 for every table cue into raw PCM.
// Missing files are skipped; a missing directory is an error.
func LoadEffects(dir string, logger *logging.Logger) (map[entities.SoundEffect][]byte, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("error opening sound directory: %w", err)
	}

	data := make(map[entities.SoundEffect][]byte)
	for _, effect := range entities.SoundEffects() {
		path := filepath.Join(dir, string(effect)+".mp3")
		pcm, err := decodeFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Debug("[SOUND] No file for %s", effect)
				continue
			}
			logger.Warn("[SOUND] Skipping %s: %v", path, err)
			continue
		}
		data[effect] = pcm
	}
	return data, nil
}

func decodeFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoder, err := mp3.NewDecoder(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("error decoding mp3: %w", err)
	}
	if decoder.SampleRate() != sampleRate {
		return nil, fmt.Errorf("sample rate %d, want %d", decoder.SampleRate(), sampleRate)
	}
	return io.ReadAll(decoder)
}

// OtoPlayer plays preloaded effects through the system audio device
type OtoPlayer struct {
	ctx    *oto.Context
	data   map[entities.SoundEffect][]byte
	logger *logging.Logger

	mu     sync.Mutex
	active []oto.Player
}

// NewOtoPlayer loads the effects in dir and opens the audio device.
// Only one audio context can exist per process.
func NewOtoPlayer(dir string, logger *logging.Logger) (*OtoPlayer, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	data, err := LoadEffects(dir, logger)
	if err != nil {
		return nil, err
	}

	ctx, ready, err := oto.NewContext(sampleRate, channelCount, bitDepthInBytes)
	if err != nil {
		return nil, fmt.Errorf("error opening audio device: %w", err)
	}
	<-ready

	logger.Info("[SOUND] Loaded %d effects from %s", len(data), dir)
	return &OtoPlayer{ctx: ctx, data: data, logger: logger}, nil
}

// Play starts an effect and returns without waiting for it to finish
func (p *OtoPlayer) Play(effect entities.SoundEffect) {
	pcm, ok := p.data[effect]
	if !ok {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.sweep()

	player := p.ctx.NewPlayer(bytes.NewReader(pcm))
	player.Play()
	p.active = append(p.active, player)
}

// sweep closes finished players. Callers hold mu.
func (p *OtoPlayer) sweep() {
	playing := p.active[:0]
	for _, player := range p.active {
		if player.IsPlaying() {
			playing = append(playing, player)
			continue
		}
		if err := player.Close(); err != nil {
			p.logger.Warn("[SOUND] Error closing player: %v", err)
		}
	}
	p.active = playing
}

// Close stops every effect still playing
func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for _, player := range p.active {
		errs = append(errs, player.Close())
	}
	p.active = nil
	return errors.Join(errs...)
}
