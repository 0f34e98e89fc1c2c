package sample

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liveset-audio/dsp-engine/internal/errs"
)

func TestInitScansPackManifests(t *testing.T) {
	dir := t.TempDir()
	writeTestWav(t, filepath.Join(dir, "kick.wav"), 1, []int{1, 2, 3})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drums.pack.yaml"), []byte(
		"samples:\n  - name: kick\n    midi_note: 36\n    path: kick.wav\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a manifest"), 0o644))

	mgr, err := Init(dir, testSampleRate)
	require.NoError(t, err)
	require.Equal(t, []string{"drums"}, mgr.PackNames())

	pack, err := mgr.GetPack("drums")
	require.NoError(t, err)
	_, ok := pack.GetByName("kick")
	require.True(t, ok)
}

func TestGetPackUnknownIsNotFound(t *testing.T) {
	mgr, err := Init(t.TempDir(), testSampleRate)
	require.NoError(t, err)

	_, err = mgr.GetPack("does_not_exist")
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.NotFound))
}

func TestInitMissingDirectoryIsNotFound(t *testing.T) {
	_, err := Init(filepath.Join(t.TempDir(), "nope"), testSampleRate)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.NotFound))
}
