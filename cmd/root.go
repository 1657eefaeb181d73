package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/hsbacot/bysykkel/client"
	"github.com/hsbacot/bysykkel/config"
	"github.com/hsbacot/bysykkel/tui"
	"github.com/hsbacot/bysykkel/ui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// debugLogFile receives logs while the TUI owns the terminal
const debugLogFile = "bysykkel-debug.log"

// rootOptions holds flags shared by every command
type rootOptions struct {
	configFile  string
	verbose     bool
	interactive bool
}

// env is what a command needs once flags are parsed
type env struct {
	cfg    *config.Config
	logger *log.Logger
	client *client.Client
}

func (o *rootOptions) load(stderr io.Writer) (*env, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFromFile(o.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := ui.NewLogger(stderr, o.verbose, cfg.LogLevel)
	c := client.NewClient(
		client.WithGBFSBaseURL(cfg.GBFS.BaseURL),
		client.WithAirQualityBaseURL(cfg.AirQuality.BaseURL),
		client.WithLogger(logger),
	)
	return &env{cfg: cfg, logger: logger, client: c}, nil
}

// NewRootCmd builds the bysykkel command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "bysykkel",
		Short: "Norwegian bike-share and air quality data in your terminal",
		Long: `bysykkel shows GBFS system information from Urban Sharing and
air quality readings from NILU.

Run without arguments in a terminal to open the interactive browser.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				// Not a terminal: behave like `info` for the default system
				return runInfo(cmd, opts, &infoOptions{output: string(formatText)}, nil)
			}
			return runTUI(opts)
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to config.toml")
	root.PersistentFlags().BoolVarP(&opts.interactive, "interactive", "i", false, "Pick from a selection menu when no value is given")

	root.AddCommand(newInfoCmd(opts))
	root.AddCommand(newAirCmd(opts))
	root.AddCommand(newSystemsCmd(opts))

	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func runTUI(opts *rootOptions) error {
	logOut := io.Discard
	if opts.verbose {
		f, err := tea.LogToFile(debugLogFile, "")
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	e, err := opts.load(logOut)
	if err != nil {
		return err
	}

	model := tui.NewModel(tui.Options{
		Systems: e.cfg.GBFS.Systems,
		System:  e.cfg.GBFS.DefaultSystem,
		Areas:   e.cfg.AirQuality.Areas,
		Area:    e.cfg.AirQuality.DefaultArea,
		Logger:  e.logger,
		Client:  e.client,
	})

	e.logger.Debug("Starting TUI", "systems", len(e.cfg.GBFS.Systems), "areas", len(e.cfg.AirQuality.Areas))
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
