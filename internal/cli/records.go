package cli

import (
	"strconv"
	"strings"

	"chathistory/internal/format"
	"chathistory/internal/model"
	"chathistory/internal/store"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
)

// contentPreview bounds the content column of `records --format table`.
const contentPreview = 60

func newRecordsCmd(app *App) *cobra.Command {
	var (
		orderBy string
		asc     bool
		role    string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "records",
		Short: "Print the newest chat records (same query as the browser)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			f := store.Filter{OrderBy: orderBy, Ascending: asc, Role: model.Role(role), Limit: limit}
			rs, err := st.List(cmd.Context(), f)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Debug("records listed", "rows", rs.Len(), "orderBy", orderBy, "asc", asc)

			if format.IsTable(app.Format) {
				return format.WriteTable(cmd.OutOrStdout(), recordHeaders(), recordRows(rs))
			}
			return writeOut(cmd, app, map[string]any{
				"data": rs.Records,
				"meta": map[string]any{
					"count":     rs.Len(),
					"columns":   rs.Columns,
					"orderBy":   orderByOrDefault(orderBy),
					"ascending": asc,
					"cap":       store.ResultCap,
				},
			})
		},
	}

	cmd.Flags().StringVar(&orderBy, "order-by", "", "Column to order by (default: timestamp)")
	cmd.Flags().BoolVar(&asc, "asc", false, "Ascending order (default: newest first)")
	cmd.Flags().StringVar(&role, "role", "", "Only records with this role (user|assistant|thinking)")
	cmd.Flags().IntVar(&limit, "limit", store.ResultCap, "Maximum records (capped at 100)")
	return cmd
}

func orderByOrDefault(col string) string {
	if col == "" {
		return model.ColTimestamp
	}
	return col
}

func recordHeaders() []string {
	return []string{model.ColID, model.ColUserName, model.ColIsDM, model.ColRole, model.ColTimestamp, model.ColContent}
}

func recordRows(rs model.ResultSet) [][]string {
	rows := make([][]string, 0, rs.Len())
	for _, r := range rs.Records {
		dm := "0"
		if r.IsDM {
			dm = "1"
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.UserName,
			dm,
			string(r.Role),
			r.Timestamp,
			preview(r.Content, contentPreview),
		})
	}
	return rows
}

// preview collapses whitespace and truncates s to n display columns.
func preview(s string, n int) string {
	return xansi.Truncate(strings.Join(strings.Fields(s), " "), n, "…")
}
