package cmd

import (
	"fmt"

	"github.com/hsbacot/bysykkel/fetch"
	"github.com/spf13/cobra"
)

func newSystemsCmd(opts *rootOptions) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "systems",
		Short: "List the configured bike-share systems and air quality areas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			printHeader(out, "Bike-share systems")
			if !check {
				for _, id := range e.cfg.GBFS.Systems {
					marker := " "
					if id == e.cfg.GBFS.DefaultSystem {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %s\n", marker, id)
				}
			} else {
				group := loadGroup(e, e.cfg.GBFS.Systems)
				for _, id := range e.cfg.GBFS.Systems {
					state := group.State(id)
					switch state.Status() {
					case fetch.StatusSuccess:
						info, _ := state.Value()
						fmt.Fprintf(out, "✓ %-26s %s (%s)\n", id, info.Data.Name, formatAge(info.LastUpdated.Time))
					case fetch.StatusFailed:
						fmt.Fprintf(out, "✗ %-26s %s\n", id, state.Err().Kind)
					default:
						fmt.Fprintf(out, "? %-26s %s\n", id, state.Status())
					}
				}
			}

			fmt.Fprintln(out)
			printHeader(out, "Air quality areas")
			for _, area := range e.cfg.AirQuality.Areas {
				marker := " "
				if area == e.cfg.AirQuality.DefaultArea {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, area)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Fetch every system and report whether it answers")
	return cmd
}
