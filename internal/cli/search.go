package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Sternrassler/hubeau-client/pkg/hubeau"
	"github.com/Sternrassler/hubeau-client/pkg/session"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		river   string
		geojson string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find a river's fishing stations and summarize their activity",
		Long: "search fetches every fishing station of the river with its operations and observations, " +
			"stores the per-station summary in the session file and prints it. The previous selection is discarded.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			sess := a.newSession(a.cfg.Fetch.StartYear, a.cfg.Fetch.EndYear)

			spinner, _ := pterm.DefaultSpinner.WithWriter(os.Stderr).WithRemoveWhenDone().Start("Searching stations for " + river + "...")
			st, err := sess.Search(cmd.Context(), river)
			if spinner != nil {
				_ = spinner.Stop()
			}
			if err != nil {
				return err
			}

			if err := st.Save(a.cfg.Session.File); err != nil {
				return err
			}

			if err := printSummary(cmd.OutOrStdout(), st); err != nil {
				return err
			}

			if geojson != "" {
				data, err := session.GeoJSON(session.Markers(st.Summary))
				if err != nil {
					return err
				}
				if err := os.WriteFile(geojson, data, 0o644); err != nil {
					return fmt.Errorf("write geojson: %w", err)
				}
				pterm.Success.Printf("Station markers written to %s\n", geojson)
			}

			pterm.Info.Printf("Session saved to %s; next: hubeau select --station LABEL --validate\n", a.cfg.Session.File)
			return nil
		},
	}

	cmd.Flags().StringVar(&river, "river", "", "river name (libelle_entite_hydrographique)")
	cmd.Flags().StringVar(&geojson, "geojson", "", "write styled station markers as GeoJSON to this file")
	_ = cmd.MarkFlagRequired("river")

	return cmd
}

func (a *app) newSession(startYear, endYear int) *session.Session {
	return session.New(
		hubeau.NewEtatPiscicole(a.base, a.paging),
		hubeau.NewQualiteRivieres(a.base, a.paging),
		session.Config{StartYear: startYear, EndYear: endYear},
	)
}

func printSummary(w io.Writer, st *session.State) error {
	selected := make(map[string]struct{}, len(st.Selected))
	for _, code := range st.Selected {
		selected[code] = struct{}{}
	}

	data := pterm.TableData{{"", "Code", "Station", "Operations", "Observations"}}
	for _, s := range st.Summary {
		mark := ""
		if _, ok := selected[s.Code]; ok {
			mark = "*"
		}
		data = append(data, []string{
			mark,
			s.Code,
			s.DisplayLabel(),
			strconv.Itoa(s.Operations),
			strconv.Itoa(s.Observations),
		})
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %d stations\n%s\n", st.River, len(st.Summary), rendered)
	return nil
}
