package cli

import (
	"github.com/Sternrassler/hubeau-client/pkg/export"
	"github.com/Sternrassler/hubeau-client/pkg/session"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		outDir    string
		startYear int
		endYear   int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Collect the eight datasets of a validated session and write CSV files and a zip archive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app

			st, err := session.Load(a.cfg.Session.File)
			if err != nil {
				return err
			}

			if !changed(cmd, "out") {
				outDir = a.cfg.Export.OutDir
			}
			if !changed(cmd, "from") {
				startYear = a.cfg.Fetch.StartYear
			}
			if !changed(cmd, "to") {
				endYear = a.cfg.Fetch.EndYear
			}

			pterm.Info.Printf("Collecting data for %s (%d selected stations)\n", st.River, len(st.Selected))
			datasets, err := a.newSession(startYear, endYear).Collect(cmd.Context(), st)
			if err != nil {
				return err
			}

			pterm.DefaultSection.Println("Dataset sizes")
			for _, ds := range datasets {
				pterm.Printf("  %s: %d rows, %d columns\n", ds.Name, ds.Table.Len(), len(ds.Table.Columns()))
			}

			res, err := export.Export(outDir, st.River, datasets)
			if err != nil {
				return err
			}

			pterm.Success.Printf("%d CSV files written under %s\n", len(res.Files), res.Root)
			pterm.Success.Printf("Archive: %s\n", res.Archive)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config, \".\")")
	cmd.Flags().IntVar(&startYear, "from", 0, "first year of water quality analyses")
	cmd.Flags().IntVar(&endYear, "to", 0, "last year of water quality analyses")

	return cmd
}
