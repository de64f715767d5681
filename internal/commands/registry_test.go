package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coreshell/pkg/shelltypes"
)

func newContract(name string) *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    name,
		HelpKey: "help." + name,
		Command: shelltypes.CommandFunc(func(_ context.Context, _ *shelltypes.Call) error {
			return nil
		}),
	}
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	help := newContract("help")

	require.NoError(t, r.Register(shelltypes.LayerBuiltin, shelltypes.ShellTypeMain, help))

	got, err := r.Resolve("help", shelltypes.ShellTypeMain)
	require.NoError(t, err)
	assert.Same(t, help, got)

	_, err = r.Resolve("help", shelltypes.ShellTypeAdmin)
	assert.ErrorIs(t, err, shelltypes.ErrUnknownCommand)
}

func TestRegistry_DuplicateRegistrationKeepsFirst(t *testing.T) {
	r := NewRegistry()
	first := newContract("help")
	second := newContract("help")

	require.NoError(t, r.Register(shelltypes.LayerBuiltin, shelltypes.ShellTypeMain, first))
	err := r.Register(shelltypes.LayerBuiltin, shelltypes.ShellTypeMain, second)
	assert.ErrorIs(t, err, shelltypes.ErrDuplicateRegistration)

	got, err := r.Resolve("help", shelltypes.ShellTypeMain)
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestRegistry_DuplicateAcrossLayers(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(shelltypes.LayerBuiltin, shelltypes.ShellTypeMain, newContract("ls")))

	err := r.Register(shelltypes.LayerMod, shelltypes.ShellTypeMain, newContract("ls"))
	assert.ErrorIs(t, err, shelltypes.ErrDuplicateRegistration)

	// A different shell type has its own namespace.
	assert.NoError(t, r.Register(shelltypes.LayerMod, shelltypes.ShellTypeAdmin, newContract("ls")))

	// Unified commands collide with every shell type.
	err = r.Register(shelltypes.LayerUnified, "", newContract("ls"))
	assert.ErrorIs(t, err, shelltypes.ErrDuplicateRegistration)
}

func TestRegistry_EmptyHelpKeyIsSubstituted(t *testing.T) {
	r := NewRegistry()
	contract := newContract("bare")
	contract.HelpKey = ""

	require.NoError(t, r.Register(shelltypes.LayerAddon, shelltypes.ShellTypeMain, contract))
	assert.Empty(t, contract.HelpKey)

	resolved, err := r.Resolve("bare", shelltypes.ShellTypeMain)
	require.NoError(t, err)
	assert.Equal(t, MissingHelpKey, resolved.HelpKey)
	assert.Equal(t, "bare", resolved.Name)
}

func TestRegistry_UnknownLayerIsRejected(t *testing.T) {
	r := NewRegistry()

	err := r.Register(shelltypes.Layer(42), shelltypes.ShellTypeMain, newContract("stray"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown layer 42")

	err = r.RegisterMany(shelltypes.Layer(-1), shelltypes.ShellTypeMain, []*shelltypes.CommandContract{newContract("a")})
	assert.Error(t, err)

	assert.Error(t, r.Unregister(shelltypes.Layer(42), shelltypes.ShellTypeMain, "stray"))
	_, err = r.Resolve("stray", shelltypes.ShellTypeMain)
	assert.ErrorIs(t, err, shelltypes.ErrUnknownCommand)
}

func TestRegistry_RegisterManyAggregatesFailures(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(shelltypes.LayerBuiltin, shelltypes.ShellTypeMain, newContract("taken")))

	err := r.RegisterMany(shelltypes.LayerAddon, shelltypes.ShellTypeMain, []*shelltypes.CommandContract{
		newContract("one"),
		newContract("taken"),
		newContract("two"),
		{Name: ""},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shelltypes.ErrDuplicateRegistration)
	assert.Contains(t, err.Error(), "taken")
	assert.Contains(t, err.Error(), "name cannot be empty")

	assert.True(t, r.IsValidCommand("one", shelltypes.ShellTypeMain))
	assert.True(t, r.IsValidCommand("two", shelltypes.ShellTypeMain))
}

func TestRegistry_UnregisterAndReregister(t *testing.T) {
	r := NewRegistry()
	contract := newContract("tool")

	require.NoError(t, r.Register(shelltypes.LayerAddon, shelltypes.ShellTypeMain, contract))
	require.NoError(t, r.Unregister(shelltypes.LayerAddon, shelltypes.ShellTypeMain, "tool"))
	assert.False(t, r.IsValidCommand("tool", shelltypes.ShellTypeMain))

	require.NoError(t, r.Register(shelltypes.LayerAddon, shelltypes.ShellTypeMain, contract))
	got, err := r.Resolve("tool", shelltypes.ShellTypeMain)
	require.NoError(t, err)
	assert.Same(t, contract, got)
	assert.Equal(t, []string{"tool"}, r.ListLayer(shelltypes.LayerAddon, shelltypes.ShellTypeMain))
}

func TestRegistry_UnregisterUnknown(t *testing.T) {
	r := NewRegistry()
	err := r.Unregister(shelltypes.LayerMod, shelltypes.ShellTypeMain, "ghost")
	assert.ErrorIs(t, err, shelltypes.ErrUnknownCommand)

	require.NoError(t, r.Register(shelltypes.LayerMod, shelltypes.ShellTypeMain, newContract("real")))
	err = r.UnregisterMany(shelltypes.LayerMod, shelltypes.ShellTypeMain, []string{"real", "ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shelltypes.ErrUnknownCommand))
	assert.False(t, r.IsValidCommand("real", shelltypes.ShellTypeMain))
}

func TestRegistry_ResolvePriority(t *testing.T) {
	r := NewRegistry()
	unified := newContract("info")
	require.NoError(t, r.Register(shelltypes.LayerUnified, "", unified))

	got, err := r.Resolve("info", shelltypes.ShellTypeAdmin)
	require.NoError(t, err)
	assert.Same(t, unified, got)

	got, err = r.Resolve("info", shelltypes.ShellTypeMain)
	require.NoError(t, err)
	assert.Same(t, unified, got)
}

func TestRegistry_AliasResolution(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(shelltypes.LayerBuiltin, shelltypes.ShellTypeMain, newContract("help")))
	require.NoError(t, r.AddAlias(shelltypes.ShellTypeMain, "h", "help"))

	got, err := r.Resolve("h", shelltypes.ShellTypeMain)
	require.NoError(t, err)
	assert.Equal(t, "help", got.Name)

	require.NoError(t, r.Unregister(shelltypes.LayerBuiltin, shelltypes.ShellTypeMain, "help"))
	_, err = r.Resolve("h", shelltypes.ShellTypeMain)
	assert.ErrorIs(t, err, shelltypes.ErrUnknownCommand)
}

func TestRegistry_AliasIsNotTransitive(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(shelltypes.LayerBuiltin, shelltypes.ShellTypeMain, newContract("help")))
	require.NoError(t, r.AddAlias(shelltypes.ShellTypeMain, "h", "help"))
	require.NoError(t, r.AddAlias(shelltypes.ShellTypeMain, "hh", "h"))

	_, err := r.Resolve("hh", shelltypes.ShellTypeMain)
	assert.ErrorIs(t, err, shelltypes.ErrUnknownCommand)
}

func TestRegistry_AliasCannotShadowCommand(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(shelltypes.LayerBuiltin, shelltypes.ShellTypeMain, newContract("help")))
	require.NoError(t, r.Register(shelltypes.LayerBuiltin, shelltypes.ShellTypeMain, newContract("echo")))

	err := r.AddAlias(shelltypes.ShellTypeMain, "echo", "help")
	assert.ErrorIs(t, err, shelltypes.ErrDuplicateRegistration)

	require.NoError(t, r.AddAlias(shelltypes.ShellTypeMain, "e", "echo"))
	require.NoError(t, r.RemoveAlias(shelltypes.ShellTypeMain, "e"))
	assert.ErrorIs(t, r.RemoveAlias(shelltypes.ShellTypeMain, "e"), shelltypes.ErrUnknownCommand)
}

func TestRegistry_ListOrderAndNames(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(shelltypes.LayerMod, shelltypes.ShellTypeMain, newContract("alpha")))
	require.NoError(t, r.Register(shelltypes.LayerAddon, shelltypes.ShellTypeMain, newContract("beta")))
	require.NoError(t, r.Register(shelltypes.LayerUnified, "", newContract("zeta")))
	require.NoError(t, r.Register(shelltypes.LayerBuiltin, shelltypes.ShellTypeMain, newContract("gamma")))
	require.NoError(t, r.Register(shelltypes.LayerBuiltin, shelltypes.ShellTypeMain, newContract("delta")))
	require.NoError(t, r.AddAlias(shelltypes.ShellTypeMain, "d", "delta"))

	var listed []string
	for _, contract := range r.List(shelltypes.ShellTypeMain) {
		listed = append(listed, contract.Name)
	}
	assert.Equal(t, []string{"delta", "gamma", "zeta", "beta", "alpha"}, listed)

	assert.Equal(t, []string{"alpha", "beta", "d", "delta", "gamma", "zeta"}, r.Names(shelltypes.ShellTypeMain))
	assert.Equal(t, map[string]string{"d": "delta"}, r.Aliases(shelltypes.ShellTypeMain))
}
