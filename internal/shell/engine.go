// Package shell assembles the engine from configuration and connects it to
// the interactive line editor and to batch scripts.
package shell

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"coreshell/internal/addons"
	"coreshell/internal/autocomplete"
	"coreshell/internal/cancellation"
	"coreshell/internal/commands"
	"coreshell/internal/commands/builtin"
	"coreshell/internal/config"
	"coreshell/internal/execution"
	"coreshell/internal/i18n"
	"coreshell/internal/logger"
	"coreshell/internal/mods"
	"coreshell/internal/output"
	"coreshell/internal/session"
)

// Options overrides the collaborators NewEngine would otherwise create.
type Options struct {
	// Writer receives command output. Defaults to stdout.
	Writer io.Writer
	// Fs backs mod loading and path completion. Defaults to the OS filesystem.
	Fs afero.Fs
}

// Engine is a fully wired shell.
type Engine struct {
	Config     config.Config
	Bundle     *i18n.Bundle
	Texter     *i18n.Localizer
	Session    *session.Session
	Registry   *commands.Registry
	Mods       *mods.Manager
	Output     *output.Switch
	Dispatcher *execution.Dispatcher
	Completer  *autocomplete.Resolver

	logger *log.Logger
}

// NewEngine builds every component and registers the built-in, addon and
// mod commands. Mods that fail to load are logged and skipped.
func NewEngine(cfg config.Config, opts Options) (*Engine, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	e := &Engine{Config: cfg, logger: logger.NewStyledLogger("Shell")}

	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load message catalogs: %w", err)
	}
	e.Bundle = bundle
	e.Texter = bundle.NewLocalizer(cfg.Language)

	dumb := session.DetectDumbTerminal(cfg.Dumb)
	e.Session = session.New(session.Options{
		User:        cfg.User,
		Users:       cfg.Users,
		Themes:      cfg.ThemeNames(),
		Maintenance: cfg.Maintenance,
		Dumb:        dumb,
	})

	e.Registry = commands.NewRegistry()
	e.Mods = mods.NewManager(mods.Options{
		Registry: e.Registry,
		Fs:       opts.Fs,
		Dir:      cfg.ModsDir,
		Messages: bundle,
	})
	deps := builtin.Deps{Registry: e.Registry, Session: e.Session, Texter: e.Texter, Mods: e.Mods}
	if err := builtin.Register(deps); err != nil {
		return nil, fmt.Errorf("register built-in commands: %w", err)
	}
	if err := addons.Register(e.Registry, cfg.TestMode); err != nil {
		return nil, fmt.Errorf("register addons: %w", err)
	}
	if err := e.Mods.Load(); err != nil {
		e.logger.Warn("Some mods failed to load", "error", err)
	}

	printerOpts := []output.Option{output.WithWriter(opts.Writer)}
	if dumb {
		printerOpts = append(printerOpts, output.PlainText())
	} else {
		printerOpts = append(printerOpts, output.WithStyles(output.NewLipglossStyles()))
	}
	e.Output = output.NewSwitch(output.NewPrinter(printerOpts...))

	e.Dispatcher = execution.NewDispatcher(execution.Options{
		Lookup:      e.Registry,
		Environment: e.Session,
		Texter:      e.Texter,
		Output:      e.Output,
		Coordinator: cancellation.NewCoordinator(e.Output, cfg.CancelGrace),
	})

	e.Completer = autocomplete.NewResolver(e.Registry, e.Dispatcher.ShellType, opts.Fs)
	e.Completer.RegisterTable("user", e.Session.UserNames)
	e.Completer.RegisterTable("group", e.Session.GroupNames)
	e.Completer.RegisterTable("theme", e.Session.Themes)
	e.Completer.RegisterTable("command", func() []string {
		return e.Registry.Names(e.Dispatcher.ShellType())
	})

	e.logger.Debug("Engine ready", "user", cfg.User, "dumb", dumb, "locale", e.Texter.Locale(), "mods", len(e.Mods.Names()))
	return e, nil
}

// Prompt renders the configured prompt for the active shell type.
func (e *Engine) Prompt() string {
	return fmt.Sprintf(e.Config.Prompt, e.Dispatcher.ShellType())
}
