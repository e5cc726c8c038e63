package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"pkt.systems/jcat"
	"pkt.systems/jcat/internal/config"
	"pkt.systems/jcat/internal/termwidth"
)

// streams bundles the process resources a run touches so tests can swap
// them out.
type streams struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Fs     afero.Fs
	Prober *termwidth.Prober
	Getenv func(string) string
}

func osStreams() streams {
	return streams{
		In:     os.Stdin,
		Out:    os.Stdout,
		Err:    os.Stderr,
		Fs:     afero.NewOsFs(),
		Prober: termwidth.New(),
		Getenv: os.Getenv,
	}
}

// NewRootCmd creates the root command for the jcat CLI.
func NewRootCmd(s streams) *cobra.Command {
	var (
		width      int
		indent     int
		sortKeys   bool
		format     = jcat.DefaultFormat // VarP does not allow you to set a default value
		style      string
		formatter  string
		unwrap     bool
		plainCopy  bool
		noColor    bool
		configPath string
		level      string
		listStyles bool
	)

	// closure initializer
	loadConfig := func(cmd *cobra.Command) (*config.Config, error) {
		switch {
		case cmd.Flags().Changed("config"):
			return config.Load(s.Fs, configPath, false)
		case s.Getenv(config.EnvConfig) != "":
			return config.Load(s.Fs, s.Getenv(config.EnvConfig), false)
		default:
			p, err := config.DefaultPath()
			if err != nil {
				return &config.Config{}, nil
			}
			return config.Load(s.Fs, p, true)
		}
	}

	root := &cobra.Command{
		Use:   "jcat [FILE ...]",
		Short: "Print pretty-formatted JSON files",
		Long: `Print JSON documents as syntax highlighted literal notation wrapped to the
terminal width. With no FILE, or when FILE is -, read standard input.`,
		Example: `
jcat package.json

curl -s https://api.github.com/repos/golang/go | jcat

jcat - other.json < first.json | less -R

jcat -f json -w 100 --style monokai data.json
`,
		Args: cobra.ArbitraryArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := log.ParseLevel(level)
			if err != nil {
				return err
			}
			log.FromContext(cmd.Context()).SetLevel(l)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.FromContext(cmd.Context())

			if listStyles {
				for _, name := range jcat.StyleNames() {
					fmt.Fprintln(s.Out, name)
				}
				return nil
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// default < cfg < flags
			opts := *jcat.DefaultOptions
			cfg.Apply(&opts)
			flags := cmd.Flags()
			if flags.Changed("indent") {
				opts.Indent = indent
			}
			if flags.Changed("sort-keys") {
				opts.SortKeys = sortKeys
			}
			if flags.Changed("format") {
				opts.Format = format
			}
			if flags.Changed("style") {
				opts.Style = style
			}
			if flags.Changed("formatter") {
				opts.Formatter = formatter
			}
			if flags.Changed("unwrap") {
				opts.Unwrap = unwrap
			}
			if flags.Changed("plain-copy") {
				opts.PlainCopy = plainCopy
			}

			stdout, stderr := asStream(s.Out), asStream(s.Err)
			switch {
			case flags.Changed("width"):
				opts.Width = width
			case cfg.Width != nil:
				logger.Debug("width from config", "columns", opts.Width)
			default:
				w, from := s.Prober.Probe(stdout, stderr)
				opts.Width = w
				logger.Debug("probed width", "columns", w, "from", from)
			}
			if opts.Width < 1 {
				return fmt.Errorf("width must be positive, got %d", opts.Width)
			}

			opts.NoColor = noColor || termenv.EnvNoColor()

			// The uncoloured copy is only wanted when nothing is attached
			// to a terminal.
			if opts.PlainCopy && (interactive(s.Prober, stdout) || interactive(s.Prober, stderr)) {
				opts.PlainCopy = false
			}

			return run(cmd.Context(), s, &opts, args)
		},
	}

	root.Flags().IntVarP(&width, "width", "w", 0, "Wrap output to this many columns instead of the terminal width")
	root.Flags().IntVar(&indent, "indent", jcat.DefaultOptions.Indent, "Columns of indentation per nesting level")
	root.Flags().BoolVar(&sortKeys, "sort-keys", jcat.DefaultOptions.SortKeys, "Sort object keys")
	root.Flags().VarP(&format, "format", "f", fmt.Sprintf(`Output notation ("%s")`, strings.Join(jcat.AvailableFormats(), `", "`)))
	_ = root.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return jcat.AvailableFormats(), cobra.ShellCompDirectiveNoFileComp
	})
	root.Flags().StringVarP(&style, "style", "s", "", `Highlighting style, "none" disables colour (default depends on terminal background)`)
	_ = root.RegisterFlagCompletionFunc("style", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return jcat.StyleNames(), cobra.ShellCompDirectiveNoFileComp
	})
	root.Flags().StringVar(&formatter, "formatter", jcat.DefaultFormatter, "Terminal colour formatter")
	_ = root.RegisterFlagCompletionFunc("formatter", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return jcat.FormatterNames(), cobra.ShellCompDirectiveNoFileComp
	})
	root.Flags().BoolVar(&unwrap, "unwrap", false, "Decode JSON objects and arrays found inside string values")
	root.Flags().BoolVar(&plainCopy, "plain-copy", false, "Also print an uncoloured copy of each document when no terminal is attached")
	root.Flags().BoolVar(&noColor, "no-color", false, "Disable colourized output")
	root.Flags().StringVar(&configPath, "config", "", "Path to jcat config file (default $XDG_CONFIG_HOME/jcat/config.yaml)")
	_ = root.MarkFlagFilename("config", "yaml", "yml")
	root.Flags().StringVarP(&level, "log-level", "l", "info", "Set log level")
	_ = root.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{log.DebugLevel.String(), log.InfoLevel.String(), log.WarnLevel.String(), log.ErrorLevel.String()}, cobra.ShellCompDirectiveNoFileComp
	})
	root.Flags().BoolVar(&listStyles, "list-styles", false, "Print the available highlighting styles and exit")

	root.SetIn(s.In)
	root.SetOut(s.Out)
	root.SetErr(s.Err)

	return root
}

func asStream(w any) termwidth.Stream {
	if st, ok := w.(termwidth.Stream); ok {
		return st
	}
	return nil
}

func interactive(p *termwidth.Prober, st termwidth.Stream) bool {
	return st != nil && p.IsTerminal(st.Fd())
}

// Main executes the root command for the jcat CLI.
//
// It returns 0 on success, 1 on failure and logs any errors.
func Main() int {
	return execute(osStreams(), os.Args[1:])
}

func execute(s streams, args []string) int {
	// With SIGPIPE observed, writes to a closed stdout fail with EPIPE
	// instead of killing the process, and run can end quietly.
	sigpipe := make(chan os.Signal, 1)
	signal.Notify(sigpipe, syscall.SIGPIPE)
	defer signal.Stop(sigpipe)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := log.NewWithOptions(s.Err, log.Options{
		ReportTimestamp: false,
		Prefix:          "jcat",
	})
	logger.SetStyles(DefaultStyles())
	ctx = log.WithContext(ctx, logger)

	cli := NewRootCmd(s)
	cli.SetArgs(args)
	if _, err := cli.ExecuteContextC(ctx); err != nil {
		return reportError(logger, err)
	}
	return 0
}

// reportError logs err unless the run was interrupted and returns the exit
// code for it.
func reportError(logger *log.Logger, err error) int {
	if !errors.Is(err, context.Canceled) {
		logger.Error(err)
	}
	return ParseExitCode(err)
}

// ParseExitCode calculates the exit code from a given error
//
// 0 - the error was nil or the output pipe was closed early
// 1 - there was some error
func ParseExitCode(err error) int {
	if err == nil || jcat.IsBrokenPipe(err) {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	return 1
}
