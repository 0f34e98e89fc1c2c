package sample

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
	"gopkg.in/yaml.v3"

	"github.com/liveset-audio/dsp-engine/internal/errs"
)

// manifest mirrors the *.pack.yaml document: samples: [{name, midi_note, path}, ...].
type manifest struct {
	Samples []manifestEntry `yaml:"samples"`
}

type manifestEntry struct {
	Name     string `yaml:"name"`
	MidiNote int    `yaml:"midi_note"`
	Path     string `yaml:"path"`
}

// Pack is a named, immutable collection of samples, addressable by name or
// by MIDI note.
type Pack struct {
	Name      string
	byName    map[string]*Sample
	byNote    map[int]*Sample
	sampleSeq []string // preserves manifest order for GetSampleNames
}

// LoadPack parses manifestPath (relative paths inside it resolve against
// dir) and decodes every referenced WAV file at sampleRate. Any single
// failure fails the whole pack, per spec: loaded samples are never partial.
func LoadPack(name, dir, manifestPath string, sampleRate int) (*Pack, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, errs.New(errs.NotFound, "sample.LoadPack", err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errs.New(errs.InvalidArgument, "sample.LoadPack", fmt.Errorf("parse manifest %s: %w", manifestPath, err))
	}

	p := &Pack{
		Name:   name,
		byName: make(map[string]*Sample, len(m.Samples)),
		byNote: make(map[int]*Sample, len(m.Samples)),
	}

	for _, entry := range m.Samples {
		wavPath := entry.Path
		if !filepath.IsAbs(wavPath) {
			wavPath = filepath.Join(dir, wavPath)
		}

		s, err := decodeWav(entry.Name, wavPath, sampleRate)
		if err != nil {
			return nil, errs.New(errs.InvalidArgument, "sample.LoadPack", fmt.Errorf("pack %s: %w", name, err))
		}

		p.byName[entry.Name] = s
		p.byNote[entry.MidiNote] = s
		p.sampleSeq = append(p.sampleSeq, entry.Name)
	}

	return p, nil
}

// GetByName looks up a sample by its manifest name.
func (p *Pack) GetByName(name string) (*Sample, bool) {
	s, ok := p.byName[name]
	return s, ok
}

// GetByNote looks up the sample assigned to a MIDI note number.
func (p *Pack) GetByNote(note int) (*Sample, bool) {
	s, ok := p.byNote[note]
	return s, ok
}

// GetSampleNames returns the sample names in manifest order, supplemented
// from original_source's sample_pack.cc for pack introspection (used by the
// tracks CLI subcommand).
func (p *Pack) GetSampleNames() []string {
	names := make([]string, len(p.sampleSeq))
	copy(names, p.sampleSeq)
	return names
}

// decodeWav reads a WAV file and returns a stereo Sample at the engine
// sample rate, mirroring mono input to both channels.
func decodeWav(name, path string, sampleRate int) (*Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	d.ReadInfo()
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%s: not a valid WAV file", path)
	}
	if int(d.SampleRate) != sampleRate {
		return nil, fmt.Errorf("%s: sample rate %d, want %d", path, d.SampleRate, sampleRate)
	}
	if d.NumChans != 1 && d.NumChans != 2 {
		return nil, fmt.Errorf("%s: unsupported channel count %d", path, d.NumChans)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	maxVal := float32(int(1) << (uint(buf.SourceBitDepth) - 1))
	chans := int(d.NumChans)
	frames := len(buf.Data) / chans

	left := make([]float32, frames)
	right := make([]float32, frames)

	if chans == 1 {
		for i := 0; i < frames; i++ {
			v := float32(buf.Data[i]) / maxVal
			left[i] = v
			right[i] = v
		}
	} else {
		for i := 0; i < frames; i++ {
			left[i] = float32(buf.Data[i*2]) / maxVal
			right[i] = float32(buf.Data[i*2+1]) / maxVal
		}
	}

	return &Sample{Name: name, Path: path, Left: left, Right: right}, nil
}
