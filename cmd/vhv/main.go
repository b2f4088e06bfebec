package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vhvplatform/react-framework-sub001/internal/config"
	"github.com/vhvplatform/react-framework-sub001/internal/errors"
	"github.com/vhvplatform/react-framework-sub001/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦╦ ╦╦  ╦
  ╚╗╔╝╠═╣╚╗╔╝
   ╚╝ ╩ ╩ ╚╝
`

// globalFlags are the persistent flags every command shares.
type globalFlags struct {
	verbose    bool
	logJSON    bool
	logFile    string
	configPath string
}

var (
	flags     globalFlags
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
)

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vhv",
		Short: "Turn existing front-end apps into reusable templates",
		Long: `vhv imports an existing front-end application and keeps it as a
reusable template.

An import statically analyzes the app's source tree to recover:

  • Components, their imports, props and hook usage
  • Routes, route guards and layouts
  • State management and styling conventions
  • The API endpoints the app calls

and merges the app's dependencies with the framework's own before
writing the template to the registry.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&flags.logJSON, "log-json", false, "Write logs as JSON")
	pf.StringVar(&flags.logFile, "log-file", "", "Also write logs to a rotating file")
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to vhv.json (default: search upward from the working directory)")

	rootCmd.AddCommand(
		importCmd(),
		analyzeCmd(),
		templateCmd(),
		remoteCmd(),
		serveCmd(),
		versionCmd(),
	)
	return rootCmd
}

// setup loads the configuration and installs the process logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	logger, logCloser, err = logging.Setup(logging.Options{
		Verbose: flags.verbose,
		JSON:    flags.logJSON,
		File:    flags.logFile,
	})
	if err != nil {
		return errors.New("E401").WithPath(flags.logFile).Wrap(err)
	}
	slog.SetDefault(logger)

	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Debug("configuration loaded", "path", cfg.Path(), "templates", cfg.TemplatesPath())
	return nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// printBanner prints the vhv ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
