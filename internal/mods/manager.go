package mods

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"coreshell/internal/commands"
	"coreshell/internal/i18n"
	"coreshell/internal/logger"
	"coreshell/pkg/shelltypes"
)

// MessageDefiner publishes help strings under a key.
type MessageDefiner interface {
	Define(locale, key, text string) error
}

// Mod is a loaded manifest and the commands it registered.
type Mod struct {
	Manifest *Manifest
	Path     string
	commands map[shelltypes.ShellType][]string
}

// Options configures a Manager.
type Options struct {
	Registry *commands.Registry
	// Fs defaults to the OS filesystem.
	Fs  afero.Fs
	Dir string
	// Messages receives help strings. Nil leaves help keys unresolved.
	Messages MessageDefiner
}

// Manager loads mods from a directory into the mod layer.
type Manager struct {
	registry *commands.Registry
	fs       afero.Fs
	dir      string
	messages MessageDefiner
	logger   *log.Logger

	mu     sync.Mutex
	loaded map[string]*Mod
}

// NewManager creates a manager. Nothing is loaded until Load is called.
func NewManager(opts Options) *Manager {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	return &Manager{
		registry: opts.Registry,
		fs:       opts.Fs,
		dir:      opts.Dir,
		messages: opts.Messages,
		logger:   logger.NewStyledLogger("Mods"),
		loaded:   make(map[string]*Mod),
	}
}

// Load registers every *.yaml and *.yml manifest in the directory. A missing
// directory loads nothing. Failures are collected; valid mods stay loaded.
func (m *Manager) Load() error {
	if m.dir == "" {
		return nil
	}
	exists, err := afero.DirExists(m.fs, m.dir)
	if err != nil {
		return fmt.Errorf("stat mods directory %s: %w", m.dir, err)
	}
	if !exists {
		m.logger.Debug("Mods directory not found", "dir", m.dir)
		return nil
	}

	entries, err := afero.ReadDir(m.fs, m.dir)
	if err != nil {
		return fmt.Errorf("read mods directory %s: %w", m.dir, err)
	}

	var errs []error
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(m.dir, entry.Name())
		if err := m.LoadFile(path); err != nil {
			m.logger.Warn("Mod rejected", "path", path, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", entry.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// LoadFile parses, checks and registers a single manifest.
func (m *Manager) LoadFile(path string) error {
	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		return err
	}
	if err := manifest.CheckEngine(); err != nil {
		return err
	}
	return m.install(manifest, path)
}

func (m *Manager) install(manifest *Manifest, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.loaded[manifest.Name]; ok {
		return fmt.Errorf("mod %s is already loaded", manifest.Name)
	}

	byShell := make(map[shelltypes.ShellType][]*shelltypes.CommandContract)
	for _, spec := range manifest.Commands {
		byShell[spec.shellType()] = append(byShell[spec.shellType()], spec.contract(manifest.Name))
	}

	mod := &Mod{Manifest: manifest, Path: path, commands: make(map[shelltypes.ShellType][]string)}
	for shellType, contracts := range byShell {
		err := m.registry.RegisterMany(shelltypes.LayerMod, shellType, contracts)
		for _, contract := range contracts {
			if resolved, rerr := m.registry.Resolve(contract.Name, shellType); rerr == nil && resolved == contract {
				mod.commands[shellType] = append(mod.commands[shellType], contract.Name)
			}
		}
		if err != nil {
			_ = m.remove(mod)
			return err
		}
	}

	if m.messages != nil {
		for _, spec := range manifest.Commands {
			for key, text := range spec.messages(manifest.Name) {
				if err := m.messages.Define(i18n.BaseLocale, key, strings.ReplaceAll(text, "%", "%%")); err != nil {
					m.logger.Warn("Mod help text dropped", "mod", manifest.Name, "key", key, "error", err)
				}
			}
		}
	}

	m.loaded[manifest.Name] = mod
	m.logger.Info("Mod loaded", "mod", manifest.Name, "version", manifest.Version, "commands", len(manifest.Commands))
	return nil
}

// remove unregisters the commands of mod. Callers hold m.mu.
func (m *Manager) remove(mod *Mod) error {
	var errs []error
	for shellType, names := range mod.commands {
		errs = append(errs, m.registry.UnregisterMany(shelltypes.LayerMod, shellType, names))
	}
	return errors.Join(errs...)
}

// Unload removes a mod and its commands.
func (m *Manager) Unload(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mod, ok := m.loaded[name]
	if !ok {
		return fmt.Errorf("mod %s is not loaded", name)
	}
	delete(m.loaded, name)
	m.logger.Info("Mod unloaded", "mod", name)
	return m.remove(mod)
}

// Reload unloads every mod and loads the directory again.
func (m *Manager) Reload() error {
	var errs []error
	for _, name := range m.Names() {
		errs = append(errs, m.Unload(name))
	}
	errs = append(errs, m.Load())
	return errors.Join(errs...)
}

// Names returns the loaded mod names, sorted.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.loaded))
	for name := range m.loaded {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a loaded mod.
func (m *Manager) Get(name string) (*Mod, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mod, ok := m.loaded[name]
	return mod, ok
}

// Commands returns the command names a mod registered in shellType, sorted.
func (mod *Mod) Commands(shellType shelltypes.ShellType) []string {
	names := append([]string(nil), mod.commands[shellType]...)
	sort.Strings(names)
	return names
}
