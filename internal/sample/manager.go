package sample

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/liveset-audio/dsp-engine/internal/errs"
)

const packManifestSuffix = ".pack.yaml"

// Manager scans a sample directory for pack manifests at startup and keeps
// every loaded pack resident for the lifetime of the process: loaded
// samples are never evicted.
type Manager struct {
	packs map[string]*Pack
}

// Init scans dir for every "*.pack.yaml" file, loading each as a pack named
// after its file stem. A pack's directory (for resolving relative sample
// paths) is the directory the manifest lives in.
func Init(dir string, sampleRate int) (*Manager, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.New(errs.NotFound, "sample.Init", fmt.Errorf("sample directory %s: %w", dir, err))
	}

	m := &Manager{packs: make(map[string]*Pack)}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), packManifestSuffix) {
			continue
		}

		packName := strings.TrimSuffix(entry.Name(), packManifestSuffix)
		manifestPath := filepath.Join(dir, entry.Name())

		p, err := LoadPack(packName, dir, manifestPath, sampleRate)
		if err != nil {
			return nil, err
		}
		m.packs[packName] = p
	}

	return m, nil
}

// GetPack returns the pack registered under name, or an errs.NotFound error
// for an unknown pack (Open Question (b)).
func (m *Manager) GetPack(name string) (*Pack, error) {
	p, ok := m.packs[name]
	if !ok {
		return nil, errs.Newf(errs.NotFound, "sample.GetPack", "pack %q not loaded", name)
	}
	return p, nil
}

// PackNames returns every loaded pack's name, for introspection.
func (m *Manager) PackNames() []string {
	names := make([]string, 0, len(m.packs))
	for name := range m.packs {
		names = append(names, name)
	}
	return names
}
