package cli

import (
	"github.com/Sternrassler/hubeau-client/pkg/session"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newSelectCmd(opts *rootOptions) *cobra.Command {
	var (
		labels   []string
		codes    []string
		validate bool
		list     bool
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Choose the stations whose water quality data is exported",
		Long: "select records a station selection in the session, by label or by code. " +
			"Changing the selection clears validation; --validate marks the selection as final.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app

			st, err := session.Load(a.cfg.Session.File)
			if err != nil {
				return err
			}

			if list {
				for _, label := range st.Labels() {
					pterm.Println(label)
				}
				return nil
			}

			if len(labels) > 0 || len(codes) > 0 {
				if err := st.Select(labels, codes); err != nil {
					return err
				}
			}
			if validate {
				st.Validate()
			}

			if err := st.Save(a.cfg.Session.File); err != nil {
				return err
			}

			if err := printSummary(cmd.OutOrStdout(), st); err != nil {
				return err
			}
			if st.Validated {
				pterm.Success.Printf("%d stations selected and validated\n", len(st.Selected))
			} else {
				pterm.Info.Printf("%d stations selected (not validated)\n", len(st.Selected))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&labels, "station", nil, "station label to select (repeatable)")
	cmd.Flags().StringArrayVar(&codes, "code", nil, "station code to select (repeatable)")
	cmd.Flags().BoolVar(&validate, "validate", false, "mark the selection as final")
	cmd.Flags().BoolVar(&list, "list", false, "list selectable station labels and exit")

	return cmd
}
