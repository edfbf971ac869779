package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/k1LoW/errors"
	"github.com/mattn/go-colorable"
	"github.com/rook-computer/titlecard/internal/app"
	"github.com/rook-computer/titlecard/internal/config"
	"github.com/rook-computer/titlecard/internal/render"
	"github.com/rook-computer/titlecard/internal/state"
	"github.com/rook-computer/titlecard/internal/system"
	"github.com/spf13/cobra"
)

const (
	EnvStdioLog  = "TITLECARD_STDIO_LOG"
	debugLogPath = "./titlecard-debug.log"
)

// Exit statuses.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

var red = color.New(color.FgRed, color.Bold).SprintFunc()

type options struct {
	background string
	font       string
	fontSize   float64
	color      string
	style      string
	qr         string
	debug      bool
	stdioLog   string
}

func newRootCmd(opts *options, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "titlecard TITLE OUTPUT_PATH",
		Short:         "titlecard renders a word-wrapped title onto a background image and saves it as PNG",
		Long:          `titlecard renders a word-wrapped title onto a background image and saves it as PNG.`,
		Args:          exactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args, stderr)
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return app.NewError(app.UsageError, state.START, err)
	})

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.background, "background", "b", "", "background image (default \"background.png\")")
	flags.StringVarP(&opts.font, "font", "f", "", "TrueType/OpenType font (default \"Roboto-Regular.ttf\")")
	flags.Float64VarP(&opts.fontSize, "font-size", "s", config.DefaultFontSize, "font size in pixels")
	flags.StringVarP(&opts.color, "color", "c", config.DefaultTextColor, "text color as hex")
	flags.StringVarP(&opts.style, "config", "", "", "YAML style file overriding the defaults")
	flags.StringVarP(&opts.qr, "qr", "", "", "payload rendered as a QR code in the bottom-right corner")
	flags.BoolVarP(&opts.debug, "debug", "", false, "enable debug logging to "+debugLogPath)
	flags.StringVarP(&opts.stdioLog, "stdio-log", "", "", "redirect stdout+stderr (including panics) to this file; also configurable via "+EnvStdioLog)
	return rootCmd
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return app.NewError(app.UsageError, state.START, fmt.Errorf("needs %d arguments! got %d: %q", n, len(args), args))
		}
		return nil
	}
}

func run(cmd *cobra.Command, opts *options, args []string, stderr io.Writer) error {
	logPath := opts.stdioLog
	if logPath == "" {
		logPath = os.Getenv(EnvStdioLog)
	}
	if logPath != "" {
		if err := system.RedirectStdIO(logPath); err != nil {
			_, _ = fmt.Fprintln(stderr, "stdio log redirect error:", err)
		}
	}

	var debugLog io.Writer
	if opts.debug {
		f, err := os.OpenFile(debugLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, "debug log open error:", err)
		} else {
			defer f.Close()
			debugLog = f
		}
	}
	logger := app.NewLogger(stderr, debugLog, opts.debug)

	cfg, err := buildConfig(cmd, opts, args)
	if err != nil {
		return app.NewError(app.UsageError, state.START, err)
	}
	logger.Debug("config", "title", cfg.Title, "output", cfg.OutputPath, "background", cfg.BackgroundPath, "font", cfg.FontPath, "size", cfg.FontSize)

	a := app.New(state.NewStore(), render.NewRaster(logger.With("component", "render")), logger)
	if err := a.Run(cmd.Context(), cfg); err != nil {
		logger.Debug("stack traces", slog.Any("stack", errors.StackTraces(err)))
		return err
	}
	return nil
}

// buildConfig layers defaults, the optional style file and explicitly set flags, in that order.
func buildConfig(cmd *cobra.Command, opts *options, args []string) (config.Config, error) {
	cfg := config.Default(args[0], args[1])
	style, err := config.LoadStyle(opts.style)
	if err != nil {
		return cfg, err
	}
	if err := style.Apply(&cfg); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("background") {
		cfg.BackgroundPath = opts.background
	}
	if flags.Changed("font") {
		cfg.FontPath = opts.font
	}
	if flags.Changed("font-size") {
		cfg.FontSize = opts.fontSize
	}
	if flags.Changed("color") {
		c, err := config.ParseColor(opts.color)
		if err != nil {
			return cfg, err
		}
		cfg.TextColor = c
	}
	if flags.Changed("qr") {
		cfg.QRPayload = opts.qr
	}
	return cfg, cfg.Validate()
}

// Run executes the command line and returns the process exit status.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(&options{}, stderr)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(stderr, "%s %v\n", red("Error:"), err)
		if app.KindOf(err) == app.UsageError {
			_, _ = fmt.Fprintln(stderr, rootCmd.UseLine())
			return ExitUsage
		}
		return ExitError
	}
	return ExitOK
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Args[1:], colorable.NewColorableStdout(), colorable.NewColorableStderr())
	stop()
	os.Exit(code)
}
