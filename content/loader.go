// Package content loads the engine's keyword lists, topic content, tone
// profiles and copy from YAML data files and keeps the current engine snapshot.
package content

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"srhbot/engine"
)

//go:embed data/*.yaml
var embedded embed.FS

// Files lists the data files that make up a content bundle, in load order.
var Files = []string{
	"manifest.yaml",
	"keywords.yaml",
	"intents.yaml",
	"topics.yaml",
	"personalities.yaml",
	"suggestions.yaml",
	"copy.yaml",
	"hotlines.yaml",
}

// Hotline is one entry of the emergency hotline directory.
type Hotline struct {
	Name        string `yaml:"name" json:"name"`
	Phone       string `yaml:"phone" json:"phone"`
	Hours       string `yaml:"hours" json:"hours"`
	Description string `yaml:"description" json:"description"`
}

// Bundle is a decoded, not yet validated, set of data files.
type Bundle struct {
	engine.Tables `yaml:",inline"`
	Hotlines      []Hotline `yaml:"hotlines"`
}

// Embedded returns the data files compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(fmt.Sprintf("content: embedded data missing: %v", err))
	}
	return sub
}

// Source returns the filesystem to load from. Files present in dir replace the
// embedded file of the same name; an empty dir means embedded data only.
func Source(dir string) fs.FS {
	if dir == "" {
		return Embedded()
	}
	return overlayFS{top: os.DirFS(dir), base: Embedded()}
}

type overlayFS struct {
	top  fs.FS
	base fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.top.Open(name)
	if err == nil {
		return f, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return o.base.Open(name)
	}
	return nil, err
}

// Decode reads every data file from fsys into one Bundle. Unknown keys are
// rejected so that typos in hand-edited files surface as errors.
func Decode(fsys fs.FS) (*Bundle, error) {
	b := &Bundle{}
	for _, name := range Files {
		if err := decodeFile(fsys, name, b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func decodeFile(fsys fs.FS, name string, b *Bundle) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(b); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Load decodes and validates the bundle found in fsys.
func Load(fsys fs.FS) (*Bundle, error) {
	b, err := Decode(fsys)
	if err != nil {
		return nil, err
	}
	if err := Validate(b); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadDir loads dir layered over the embedded data.
func LoadDir(dir string) (*Bundle, error) {
	return Load(Source(dir))
}
