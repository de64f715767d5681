package shell

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coreshell/internal/config"
	"coreshell/internal/output"
	"coreshell/pkg/shelltypes"
)

const echoMod = `
name: shout
version: 1.0.0
commands:
  - name: shout
    help: "Echoes twice."
    arguments:
      - slots: [{name: text, required: true}]
    run:
      - echo $1
      - echo $1
`

func testConfig() config.Config {
	return config.Config{
		Language:    "en-US",
		ModsDir:     "/mods",
		CancelGrace: time.Second,
		Dumb:        true,
		Prompt:      "%s> ",
		User:        "guest",
		Users: map[string][]string{
			"guest": {"users"},
			"root":  {"admin", "users"},
		},
		Themes: []string{"notty", "dark"},
	}
}

func newTestEngine(t *testing.T) (*Engine, *output.CaptureBuffer, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/mods/shout.yaml", []byte(echoMod), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/mods/broken.yaml", []byte("name: ["), 0o644))

	buffer := output.NewCaptureBuffer()
	engine, err := NewEngine(testConfig(), Options{Writer: buffer, Fs: fs})
	require.NoError(t, err)
	return engine, buffer, fs
}

func TestNewEngine(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	assert.Equal(t, []string{"shout"}, engine.Mods.Names())
	for _, name := range []string{"help", "alias", "uuidgen", "shout"} {
		assert.True(t, engine.Registry.IsValidCommand(name, shelltypes.ShellTypeMain), name)
	}
	assert.True(t, engine.Registry.IsValidCommand("mods", shelltypes.ShellTypeAdmin))
	assert.True(t, engine.Session.DumbTerminal())
	assert.Equal(t, "Shell> ", engine.Prompt())
}

func TestEngineCompletionTables(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	assert.Equal(t, []string{"oot"}, engine.Completer.Complete("su r", 4, ""))
	assert.Equal(t, []string{"uest"}, engine.Completer.Complete("groups g", 8, ""))
	assert.Equal(t, []string{"ark"}, engine.Completer.Complete("theme d", 7, ""))
	assert.Equal(t, []string{"out"}, engine.Completer.Complete("help sh", 7, ""))
}

func TestProcessInput(t *testing.T) {
	engine, buffer, _ := newTestEngine(t)

	engine.ProcessInput(context.Background(), []string{"echo", "hello world"})
	engine.ProcessInput(context.Background(), []string{"shout", "hey"})
	engine.ProcessInput(context.Background(), nil)
	assert.Equal(t, []string{"hello world", "hey", "hey"}, buffer.Lines())
}

func TestJoinArgs(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"echo", "a b", "c"}, `echo "a b" c`},
		{[]string{"wrap", "-title=My title", "echo", "x"}, `wrap -title="My title" echo x`},
		{[]string{"echo", `say "hi"`}, `echo "say \"hi\""`},
		{[]string{"echo", "-n", "hi"}, "echo -n hi"},
		{nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, JoinArgs(tt.args))
		})
	}
}

func TestRunBatch(t *testing.T) {
	engine, buffer, _ := newTestEngine(t)

	script := strings.Join([]string{
		"# greeting",
		"",
		"echo one",
		"   echo two   ",
		"shout three",
	}, "\n")
	require.NoError(t, engine.RunBatch(context.Background(), strings.NewReader(script)))
	assert.Equal(t, []string{"one", "two", "three", "three"}, buffer.Lines())
}

func TestRunBatch_StopsAtFirstError(t *testing.T) {
	engine, buffer, _ := newTestEngine(t)

	err := engine.RunBatch(context.Background(), strings.NewReader("echo one\nnosuch\necho never"))
	require.Error(t, err)
	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 2, batchErr.Line)
	assert.ErrorIs(t, err, shelltypes.ErrUnknownCommand)
	assert.Equal(t, []string{"one", "Unknown command: nosuch"}, buffer.Lines())
}

func TestRunBatch_StopsAtExit(t *testing.T) {
	engine, buffer, _ := newTestEngine(t)

	require.NoError(t, engine.RunBatch(context.Background(), strings.NewReader("echo one\nexit\necho never")))
	assert.True(t, engine.Dispatcher.Closed())
	assert.Equal(t, []string{"one"}, buffer.Lines())
}

func TestRunScript(t *testing.T) {
	engine, buffer, fs := newTestEngine(t)
	require.NoError(t, afero.WriteFile(fs, "/scripts/demo.csh", []byte("su root\nadmin\nmaintenance -on\n"), 0o644))

	require.NoError(t, engine.RunScript(context.Background(), fs, "/scripts/demo.csh"))
	assert.True(t, engine.Session.MaintenanceMode())
	assert.Equal(t, shelltypes.ShellTypeAdmin, engine.Dispatcher.ShellType())
	assert.Equal(t, "Admin> ", engine.Prompt())
	assert.Equal(t, []string{"maintenance: on"}, buffer.Lines())

	assert.Error(t, engine.RunScript(context.Background(), fs, "/scripts/missing.csh"))
}
