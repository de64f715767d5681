// Package main provides the coreshell CLI entry point.
// coreshell is a command shell engine with layered command registries,
// validated switches and cooperative cancellation.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"coreshell/internal/config"
	"coreshell/internal/logger"
	"coreshell/internal/shell"
	"coreshell/internal/version"
)

var (
	configFile string
	cfg        config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coreshell",
	Short: "coreshell - interactive command shell",
	Long: `coreshell runs commands from layered registries with validated switches,
nested shells and Ctrl-C cancellation.`,
	Run: runShell, // Default behavior is to run the interactive shell
}

// shellCmd represents the shell command (explicit version of default behavior)
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start interactive shell mode",
	Run:   runShell,
}

// batchCmd represents the batch command for non-interactive script execution
var batchCmd = &cobra.Command{
	Use:   "batch <script>",
	Short: "Execute a script file in batch mode",
	Long: `Execute each line of a script file without entering interactive mode.
Empty lines and lines starting with # are skipped. The run stops at the first failing line.`,
	Args: cobra.ExactArgs(1),
	Run:  runBatch,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.GetFormattedVersion())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String("log-file", "", "Write logs to file instead of stderr")
	flags.Bool("test-mode", false, "Run in deterministic test mode")
	flags.StringVar(&configFile, "config", "", "Config file [default: $XDG_CONFIG_HOME/coreshell/config.yaml]")

	// Bind flags to viper
	for key, flag := range map[string]string{
		"log_level": "log-level",
		"log_file":  "log-file",
		"test_mode": "test-mode",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)

	// Load configuration and configure the logger before any command runs
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	var err error
	cfg, err = config.Load(viper.GetViper(), configFile, config.DotEnvFiles()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile, cfg.TestMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

func newEngine() *shell.Engine {
	engine, err := shell.NewEngine(cfg, shell.Options{})
	if err != nil {
		logger.Fatal("Failed to build engine", "error", err)
	}
	return engine
}

func runShell(_ *cobra.Command, _ []string) {
	logger.Info("Starting coreshell", "version", version.GetVersion())
	newEngine().RunInteractive(context.Background())
}

func runBatch(_ *cobra.Command, args []string) {
	scriptPath := args[0]
	logger.Info("Starting coreshell batch mode", "version", version.GetVersion(), "script", scriptPath)

	engine := newEngine()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.Dispatcher.Coordinator().Listen(ctx)

	if err := engine.RunScript(ctx, afero.NewOsFs(), scriptPath); err != nil {
		logger.Error("Script execution failed", "error", err)
		cancel()
		os.Exit(1)
	}
	logger.Info("Script executed successfully", "script", scriptPath)
}
