package sound

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEffectsMissingDirectory(t *testing.T) {
	_, err := LoadEffects(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}

func TestLoadEffectsSkipsMissingAndBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "card.mp3"), []byte("not an mp3"), 0644))

	data, err := LoadEffects(dir, nil)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestNop(t *testing.T) {
	var n Nop
	for _, effect := range entities.SoundEffects() {
		n.Play(effect)
	}
	assert.NoError(t, n.Close())
}
