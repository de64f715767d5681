package addons

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coreshell/internal/testutils"
	"coreshell/pkg/shelltypes"
)

func TestRegister(t *testing.T) {
	h := testutils.NewHarness(t, testutils.HarnessOptions{})
	require.NoError(t, Register(h.Registry, false))

	assert.Equal(t, []string{"countdown", "uuidgen"}, h.Registry.ListLayer(shelltypes.LayerAddon, shelltypes.ShellTypeMain))
	assert.ErrorIs(t, Register(h.Registry, false), shelltypes.ErrDuplicateRegistration)
}

func TestUUIDGenCommand_Name(t *testing.T) {
	assert.Equal(t, "uuidgen", (&UUIDGenCommand{}).Name())
}

func TestUUIDGenCommand_Execute(t *testing.T) {
	h := testutils.NewHarness(t, testutils.HarnessOptions{})
	require.NoError(t, Register(h.Registry, false))

	require.NoError(t, h.Submit("uuidgen -count=3"))
	lines := h.Buffer.Lines()
	require.Len(t, lines, 3)
	for _, line := range lines {
		parsed, err := uuid.Parse(line)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), parsed.Version())
	}
	assert.NotEqual(t, lines[0], lines[1])

	h.Buffer.Reset()
	assert.Error(t, h.Submit("uuidgen -count=0"))
	assert.True(t, h.Buffer.Contains("count must be between 1 and 100"))
}

func TestUUIDGenCommand_TestMode(t *testing.T) {
	testutils.ResetTestCounters()
	h := testutils.NewHarness(t, testutils.HarnessOptions{})
	require.NoError(t, Register(h.Registry, true))

	require.NoError(t, h.Submit("uuidgen -count=2"))
	assert.Equal(t, []string{
		"00000001-0000-4000-8000-000000000001",
		"00000002-0000-4000-8000-000000000002",
	}, h.Buffer.Lines())
}

func TestCountdownCommand_Execute(t *testing.T) {
	h := testutils.NewHarness(t, testutils.HarnessOptions{})
	require.NoError(t, h.Registry.Register(shelltypes.LayerAddon, shelltypes.ShellTypeMain, (&CountdownCommand{Tick: time.Millisecond}).Contract()))

	require.NoError(t, h.Submit("countdown 3"))
	assert.Equal(t, []string{"3", "2", "1", "0"}, h.Buffer.Lines())
}

func TestCountdownCommand_Cancel(t *testing.T) {
	h := testutils.NewHarness(t, testutils.HarnessOptions{})
	require.NoError(t, h.Registry.Register(shelltypes.LayerAddon, shelltypes.ShellTypeMain, (&CountdownCommand{Tick: time.Hour}).Contract()))

	done := h.SubmitAsync("countdown 5")
	require.Eventually(t, func() bool {
		return h.Dispatcher.Coordinator().Allowed() && h.Buffer.Contains("5")
	}, time.Second, 5*time.Millisecond)
	assert.True(t, h.Dispatcher.Coordinator().Cancel())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, shelltypes.ErrCancelled)
	case <-time.After(2 * time.Second):
		t.Fatal("countdown was not interrupted")
	}
	assert.Equal(t, []string{"5"}, h.Buffer.Lines())
}
