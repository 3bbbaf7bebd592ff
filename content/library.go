package content

import (
	"io/fs"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"srhbot/engine"
)

// Snapshot is one immutable, validated generation of content and the engine
// built over it.
type Snapshot struct {
	Engine   *engine.Engine
	Hotlines []Hotline
	Version  string
	LoadedAt time.Time
}

// Library holds the current Snapshot. Reload swaps it atomically, so a caller
// that already took a snapshot keeps using it until it is done.
type Library struct {
	source     func() fs.FS
	engineOpts []engine.Option
	onReload   func(error)

	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// LibraryOption customises a Library.
type LibraryOption func(*Library)

// WithEngineOptions passes options to every engine the library builds.
func WithEngineOptions(opts ...engine.Option) LibraryOption {
	return func(l *Library) {
		l.engineOpts = append(l.engineOpts, opts...)
	}
}

// WithReloadHook registers fn to be called after every Reload with its result.
func WithReloadHook(fn func(error)) LibraryOption {
	return func(l *Library) {
		l.onReload = fn
	}
}

// NewLibrary loads dir layered over the embedded data. The initial load must
// succeed.
func NewLibrary(dir string, opts ...LibraryOption) (*Library, error) {
	return NewLibraryFS(func() fs.FS { return Source(dir) }, opts...)
}

// NewLibraryFS is NewLibrary over an arbitrary filesystem, reopened on every reload.
func NewLibraryFS(source func() fs.FS, opts ...LibraryOption) (*Library, error) {
	l := &Library{source: source}
	for _, opt := range opts {
		opt(l)
	}
	snap, err := l.build()
	if err != nil {
		return nil, err
	}
	l.current.Store(snap)
	log.Printf("INFO: [Content] Loaded content version %s (%d topics)", snap.Version, snap.Engine.Tables().TopicCount())
	return l, nil
}

// Snapshot returns the current generation.
func (l *Library) Snapshot() *Snapshot {
	return l.current.Load()
}

// Engine returns the engine of the current generation.
func (l *Library) Engine() *engine.Engine {
	return l.current.Load().Engine
}

// Reload rebuilds the snapshot from the source. On failure the previous
// snapshot stays in place and the error is returned.
func (l *Library) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.build()
	if err != nil {
		log.Printf("WARN: [Content] Reload failed, keeping version %s: %v", l.current.Load().Version, err)
	} else {
		l.current.Store(snap)
		log.Printf("INFO: [Content] Reloaded content version %s (%d topics)", snap.Version, snap.Engine.Tables().TopicCount())
	}
	if l.onReload != nil {
		l.onReload(err)
	}
	return err
}

func (l *Library) build() (*Snapshot, error) {
	b, err := Load(l.source())
	if err != nil {
		return nil, err
	}
	tables := b.Tables
	return &Snapshot{
		Engine:   engine.New(&tables, l.engineOpts...),
		Hotlines: b.Hotlines,
		Version:  b.Version,
		LoadedAt: time.Now(),
	}, nil
}
