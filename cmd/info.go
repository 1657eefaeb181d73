package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hsbacot/bysykkel/client"
	"github.com/hsbacot/bysykkel/fetch"
	"github.com/hsbacot/bysykkel/link"
	"github.com/hsbacot/bysykkel/loader"
	"github.com/hsbacot/bysykkel/tui"
	"github.com/hsbacot/bysykkel/ui"
	"github.com/spf13/cobra"
)

type infoOptions struct {
	output string
}

// infoResult is the structured output of one system
type infoResult struct {
	System string             `json:"system" yaml:"system"`
	Info   *client.SystemInfo `json:"info,omitempty" yaml:"info,omitempty"`
	Error  string             `json:"error,omitempty" yaml:"error,omitempty"`
}

func newInfoCmd(opts *rootOptions) *cobra.Command {
	infoOpts := &infoOptions{}

	cmd := &cobra.Command{
		Use:   "info [system...]",
		Short: "Show system information for one or more bike-share systems",
		Example: `  bysykkel info oslobysykkel.no
  bysykkel info -o json oslobysykkel.no bergenbysykkel.no
  bysykkel info -i`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, opts, infoOpts, args)
		},
	}

	cmd.Flags().StringVarP(&infoOpts.output, "output", "o", string(formatText), "Output format: text, json or yaml")
	return cmd
}

func runInfo(cmd *cobra.Command, opts *rootOptions, infoOpts *infoOptions, systems []string) error {
	format, err := parseFormat(infoOpts.output)
	if err != nil {
		return err
	}

	e, err := opts.load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if len(systems) == 0 {
		system, err := pickOne("Velg et bysykkelsystem", e.cfg.GBFS.DefaultSystem, e.cfg.GBFS.Systems, opts.interactive)
		if err != nil {
			return err
		}
		systems = []string{system}
	}

	e.logger.Info("Fetching system information", "systems", len(systems))
	group := loadGroup(e, systems)

	results, failed := collectResults(e.logger, group, systems)

	out := cmd.OutOrStdout()
	if format == formatText {
		for _, r := range results {
			printSystemInfo(out, r)
		}
	} else if err := printStructured(out, format, results); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d systems failed", failed, len(systems))
	}
	return nil
}

// collectResults reads the outcome of every system. Systems whose fetch never
// delivered count as failed with "no result".
func collectResults(logger *log.Logger, group loader.Group[client.SystemInfo], systems []string) ([]infoResult, int) {
	results := make([]infoResult, 0, len(systems))
	failed := 0
	for _, id := range systems {
		state := group.State(id)
		switch state.Status() {
		case fetch.StatusSuccess:
			info, _ := state.Value()
			results = append(results, infoResult{System: id, Info: &info})
		case fetch.StatusFailed:
			failed++
			logger.Error("Fetch failed", "system", id, "error", state.Err())
			results = append(results, infoResult{System: id, Error: state.Err().Error()})
		default:
			failed++
			logger.Error("Fetch produced no result", "system", id, "status", state.Status())
			results = append(results, infoResult{System: id, Error: "no result"})
		}
	}
	return results, failed
}

// loadGroup fetches every system through the same batch path the TUI
// overview uses and applies the result synchronously.
func loadGroup(e *env, systems []string) loader.Group[client.SystemInfo] {
	group := loader.NewGroup("info", link.New(e.logger), e.client.FetchSystemInfo)
	group, cmd := group.LoadAll(systems)
	if cmd == nil {
		return group
	}
	if msg := cmd(); msg != nil {
		group, _ = group.Update(msg)
	}
	return group
}

func printSystemInfo(w io.Writer, r infoResult) {
	printHeader(w, r.System)
	if r.Info == nil {
		fmt.Fprintf(w, "Error: %s\n\n", r.Error)
		return
	}

	d := r.Info.Data
	fmt.Fprintf(w, "System ID:     %s\n", d.SystemID)
	fmt.Fprintf(w, "Name:          %s\n", d.Name)
	fmt.Fprintf(w, "Operator:      %s\n", d.Operator)
	fmt.Fprintf(w, "Language:      %s\n", d.Language)
	fmt.Fprintf(w, "Timezone:      %s\n", d.Timezone)
	fmt.Fprintf(w, "Phone:         %s\n", d.PhoneNumber)
	fmt.Fprintf(w, "Email:         %s\n", d.Email)
	fmt.Fprintf(w, "Last updated:  %s\n", tui.FormatLastUpdated(r.Info.LastUpdated.Time, d.Location()))
	fmt.Fprintln(w)
}

// pickOne resolves a single value: the configured default, or an interactive
// choice when allowed.
func pickOne(title, fallback string, options []string, interactive bool) (string, error) {
	if interactive {
		var selected *string
		if fallback != "" {
			selected = &fallback
		}
		return ui.Select(title, options, selected, nil)
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", errors.New("nothing selected: pass a value, set a default in config.toml or use -i")
}
