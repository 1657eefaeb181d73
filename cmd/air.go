package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hsbacot/bysykkel/client"
	"github.com/hsbacot/bysykkel/fetch"
	"github.com/hsbacot/bysykkel/link"
	"github.com/hsbacot/bysykkel/loader"
	"github.com/spf13/cobra"
)

func newAirCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "air [area]",
		Short: "Show the latest air quality readings for an area",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(output)
			if err != nil {
				return err
			}

			e, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var area string
			if len(args) == 1 {
				area = args[0]
			} else if area, err = pickOne("Velg et område", e.cfg.AirQuality.DefaultArea, e.cfg.AirQuality.Areas, opts.interactive); err != nil {
				return err
			}

			e.logger.Info("Fetching air quality", "area", area)
			state := loadOne(e.logger, "air", area, e.client.FetchAirQuality)
			readings, ok := state.Value()
			if !ok {
				return fmt.Errorf("air quality for %s: %w", area, state.Err())
			}

			out := cmd.OutOrStdout()
			if format != formatText {
				return printStructured(out, format, readings)
			}
			printReadings(out, area, readings)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(formatText), "Output format: text, json or yaml")
	return cmd
}

// loadOne drives a loader through one selection and its completion
func loadOne[T any](logger *log.Logger, name, id string, fn loader.FetchFunc[T]) fetch.State[T] {
	l := loader.New(name, link.New(logger), fn)
	l, cmd := l.Select(id)
	logger.Debug("Fetch started", "loader", name, "id", id, "status", l.State().Status())
	if msg := cmd(); msg != nil {
		l, _ = l.Update(msg)
	}
	return l.State()
}

func printReadings(w io.Writer, area string, readings []client.Reading) {
	printHeader(w, "Air quality: "+area)
	if len(readings) == 0 {
		fmt.Fprintln(w, "No readings.")
		return
	}
	station := ""
	for _, r := range readings {
		if r.Station != station {
			station = r.Station
			fmt.Fprintf(w, "%s (%s)\n", station, formatAge(parseNILUTime(r.ToTime)))
		}
		fmt.Fprintf(w, "  %-8s %8.1f %s\n", r.Component, r.Value, r.Unit)
	}
}
