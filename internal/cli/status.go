package cli

import (
	"strconv"

	"chathistory/internal/format"

	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show record counts and the stored time range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			stats, err := st.Stats(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			if format.IsTable(app.Format) {
				rows := make([][]string, 0, len(stats.Roles)+1)
				for _, rc := range stats.Roles {
					rows = append(rows, []string{string(rc.Role), strconv.Itoa(rc.Count)})
				}
				rows = append(rows, []string{"total", strconv.Itoa(stats.Total)})
				return format.WriteTable(cmd.OutOrStdout(), []string{"role", "count"}, rows)
			}
			return writeOut(cmd, app, map[string]any{
				"data": stats,
			})
		},
	}
	return cmd
}
