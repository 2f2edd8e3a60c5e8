package cli

import (
	"chathistory/internal/format"
	"chathistory/internal/store"

	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the messages table against the columns the browser needs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			report, err := st.Doctor(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			if format.IsTable(app.Format) {
				rows := make([][]string, 0, len(report.Issues))
				for _, it := range report.Issues {
					rows = append(rows, []string{string(it.Level), it.Code, it.Message})
				}
				if err := format.WriteTable(cmd.OutOrStdout(), []string{"level", "code", "message"}, rows); err != nil {
					return err
				}
			} else {
				meta := map[string]any{
					"issues":    len(report.Issues),
					"hasErrors": report.HasErrors(),
				}
				hints := []string{
					"chathistory status",
				}
				if err := writeOut(cmd, app, map[string]any{
					"data":   report,
					"meta":   meta,
					"_hints": hints,
				}); err != nil {
					return err
				}
			}

			if fail && report.HasErrors() {
				return store.ErrDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
