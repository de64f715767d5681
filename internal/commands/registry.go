// Package commands provides the layered command registry for coreshell.
//
// Every shell type owns a built-in, an addon and a mod layer plus an alias
// table. The unified layer is shared by all shell types. A command name is
// unique across the union of layers visible to a shell type, and lookups
// check mod, addon, unified and built-in layers in that order before falling
// back to aliases.
package commands

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"coreshell/internal/logger"
	"coreshell/pkg/shelltypes"
)

// MissingHelpKey replaces an empty help key at registration time.
const MissingHelpKey = "help.missing"

// resolveOrder is the layer priority used by Resolve.
var resolveOrder = []shelltypes.Layer{
	shelltypes.LayerMod,
	shelltypes.LayerAddon,
	shelltypes.LayerUnified,
	shelltypes.LayerBuiltin,
}

type shellLayers struct {
	layers  map[shelltypes.Layer]map[string]*shelltypes.CommandContract
	aliases map[string]string
}

func newShellLayers() *shellLayers {
	return &shellLayers{
		layers: map[shelltypes.Layer]map[string]*shelltypes.CommandContract{
			shelltypes.LayerBuiltin: {},
			shelltypes.LayerAddon:   {},
			shelltypes.LayerMod:     {},
		},
		aliases: make(map[string]string),
	}
}

// Registry manages command registration and lookup for every shell type.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	shells  map[shelltypes.ShellType]*shellLayers
	unified map[string]*shelltypes.CommandContract
	logger  *log.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		shells:  make(map[shelltypes.ShellType]*shellLayers),
		unified: make(map[string]*shelltypes.CommandContract),
		logger:  logger.NewStyledLogger("Registry"),
	}
}

// shell returns the layers for shellType, creating them when create is set.
// Callers hold r.mu.
func (r *Registry) shell(shellType shelltypes.ShellType, create bool) *shellLayers {
	layers, ok := r.shells[shellType]
	if !ok && create {
		layers = newShellLayers()
		r.shells[shellType] = layers
	}
	return layers
}

// layerMap returns the map backing layer for shellType. Callers hold r.mu.
func (r *Registry) layerMap(layer shelltypes.Layer, shellType shelltypes.ShellType, create bool) map[string]*shelltypes.CommandContract {
	if layer == shelltypes.LayerUnified {
		return r.unified
	}
	layers := r.shell(shellType, create)
	if layers == nil {
		return nil
	}
	return layers.layers[layer]
}

// exists reports the layer already holding name for shellType. Callers hold r.mu.
func (r *Registry) exists(name string, shellType shelltypes.ShellType) (shelltypes.Layer, bool) {
	if _, ok := r.unified[name]; ok {
		return shelltypes.LayerUnified, true
	}
	if layers := r.shell(shellType, false); layers != nil {
		for _, layer := range shelltypes.Layers {
			if m, ok := layers.layers[layer]; ok {
				if _, found := m[name]; found {
					return layer, true
				}
			}
		}
	}
	return 0, false
}

// Register adds contract to layer for shellType. Unified registrations
// ignore shellType and must not collide with any shell type.
func (r *Registry) Register(layer shelltypes.Layer, shellType shelltypes.ShellType, contract *shelltypes.CommandContract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(layer, shellType, contract)
}

func (r *Registry) register(layer shelltypes.Layer, shellType shelltypes.ShellType, contract *shelltypes.CommandContract) error {
	if contract == nil || contract.Name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if contract.Command == nil {
		return fmt.Errorf("command %s has no implementation", contract.Name)
	}
	if !layer.Valid() {
		return fmt.Errorf("command %s: unknown layer %d", contract.Name, int(layer))
	}

	if layer == shelltypes.LayerUnified {
		if _, ok := r.unified[contract.Name]; ok {
			return fmt.Errorf("%w: %s in unified layer", shelltypes.ErrDuplicateRegistration, contract.Name)
		}
		for st := range r.shells {
			if existing, ok := r.exists(contract.Name, st); ok {
				return fmt.Errorf("%w: %s in %s layer of %s", shelltypes.ErrDuplicateRegistration, contract.Name, existing, st)
			}
		}
	} else if existing, ok := r.exists(contract.Name, shellType); ok {
		return fmt.Errorf("%w: %s in %s layer of %s", shelltypes.ErrDuplicateRegistration, contract.Name, existing, shellType)
	}

	if contract.HelpKey == "" {
		r.logger.Warn("Command registered without help key", "command", contract.Name, "shell", shellType)
		substituted := *contract
		substituted.HelpKey = MissingHelpKey
		contract = &substituted
	}

	r.layerMap(layer, shellType, true)[contract.Name] = contract
	r.logger.Debug("Registered command", "command", contract.Name, "layer", layer, "shell", shellType)
	return nil
}

// RegisterMany registers each contract independently. Failures do not stop
// the remaining registrations; they are joined into one error with one line
// per failed command.
func (r *Registry) RegisterMany(layer shelltypes.Layer, shellType shelltypes.ShellType, contracts []*shelltypes.CommandContract) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, contract := range contracts {
		if err := r.register(layer, shellType, contract); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Unregister removes name from layer for shellType.
func (r *Registry) Unregister(layer shelltypes.Layer, shellType shelltypes.ShellType, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unregister(layer, shellType, name)
}

func (r *Registry) unregister(layer shelltypes.Layer, shellType shelltypes.ShellType, name string) error {
	if !layer.Valid() {
		return fmt.Errorf("command %s: unknown layer %d", name, int(layer))
	}
	m := r.layerMap(layer, shellType, false)
	if _, ok := m[name]; !ok {
		return fmt.Errorf("%w: %s in %s layer of %s", shelltypes.ErrUnknownCommand, name, layer, shellType)
	}
	delete(m, name)
	r.logger.Debug("Unregistered command", "command", name, "layer", layer, "shell", shellType)
	return nil
}

// UnregisterMany removes each name independently and joins the failures.
func (r *Registry) UnregisterMany(layer shelltypes.Layer, shellType shelltypes.ShellType, names []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, name := range names {
		if err := r.unregister(layer, shellType, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Resolve returns the contract for name in shellType. Aliases are followed
// once; an alias pointing at another alias or a missing command fails with
// ErrUnknownCommand.
func (r *Registry) Resolve(name string, shellType shelltypes.ShellType) (*shelltypes.CommandContract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if contract, ok := r.lookup(name, shellType); ok {
		return contract, nil
	}
	if layers := r.shell(shellType, false); layers != nil {
		if target, ok := layers.aliases[name]; ok {
			if contract, found := r.lookup(target, shellType); found {
				return contract, nil
			}
			return nil, fmt.Errorf("%w: %s (alias of %s)", shelltypes.ErrUnknownCommand, name, target)
		}
	}
	return nil, fmt.Errorf("%w: %s", shelltypes.ErrUnknownCommand, name)
}

// lookup checks the layers in resolve order. Callers hold r.mu.
func (r *Registry) lookup(name string, shellType shelltypes.ShellType) (*shelltypes.CommandContract, bool) {
	for _, layer := range resolveOrder {
		if contract, ok := r.layerMap(layer, shellType, false)[name]; ok {
			return contract, true
		}
	}
	return nil, false
}

// IsValidCommand reports whether name resolves in shellType.
func (r *Registry) IsValidCommand(name string, shellType shelltypes.ShellType) bool {
	_, err := r.Resolve(name, shellType)
	return err == nil
}

// List returns every contract visible to shellType: built-ins, then unified,
// addon and mod commands, each layer sorted by name. On a name collision the
// first contract seen wins.
func (r *Registry) List(shellType shelltypes.ShellType) []*shelltypes.CommandContract {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*shelltypes.CommandContract
	seen := make(map[string]bool)
	for _, layer := range shelltypes.Layers {
		m := r.layerMap(layer, shellType, false)
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			result = append(result, m[name])
		}
	}
	return result
}

// ListLayer returns the names registered in one layer, sorted.
func (r *Registry) ListLayer(layer shelltypes.Layer, shellType shelltypes.ShellType) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m := r.layerMap(layer, shellType, false)
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Names returns the command names and alias names visible to shellType, sorted.
func (r *Registry) Names(shellType shelltypes.ShellType) []string {
	contracts := r.List(shellType)

	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(contracts))
	seen := make(map[string]bool)
	for _, contract := range contracts {
		seen[contract.Name] = true
		names = append(names, contract.Name)
	}
	if layers := r.shell(shellType, false); layers != nil {
		for alias := range layers.aliases {
			if !seen[alias] {
				names = append(names, alias)
			}
		}
	}
	sort.Strings(names)
	return names
}

// AddAlias maps alias to target for shellType. The target is not checked
// here; dangling aliases simply fail to resolve.
func (r *Registry) AddAlias(shellType shelltypes.ShellType, alias, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if alias == "" || target == "" {
		return fmt.Errorf("alias and target cannot be empty")
	}
	if alias == target {
		return fmt.Errorf("alias %s cannot point at itself", alias)
	}
	if existing, ok := r.exists(alias, shellType); ok {
		return fmt.Errorf("%w: alias %s shadows a command in the %s layer", shelltypes.ErrDuplicateRegistration, alias, existing)
	}
	r.shell(shellType, true).aliases[alias] = target
	return nil
}

// RemoveAlias deletes alias from shellType.
func (r *Registry) RemoveAlias(shellType shelltypes.ShellType, alias string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	layers := r.shell(shellType, false)
	if layers == nil {
		return fmt.Errorf("%w: alias %s", shelltypes.ErrUnknownCommand, alias)
	}
	if _, ok := layers.aliases[alias]; !ok {
		return fmt.Errorf("%w: alias %s", shelltypes.ErrUnknownCommand, alias)
	}
	delete(layers.aliases, alias)
	return nil
}

// Aliases returns a copy of the alias table for shellType.
func (r *Registry) Aliases(shellType shelltypes.ShellType) map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]string)
	if layers := r.shell(shellType, false); layers != nil {
		for alias, target := range layers.aliases {
			result[alias] = target
		}
	}
	return result
}
