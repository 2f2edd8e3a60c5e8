package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chathistory/internal/model"
)

// ErrDoctorIssuesFound is returned by `doctor --fail` when the report has errors.
var ErrDoctorIssuesFound = errors.New("doctor found schema errors")

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level   DoctorIssueLevel `json:"level"`
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Column  string           `json:"column,omitempty"`
}

type DoctorReport struct {
	Path    string        `json:"path"`
	Columns []string      `json:"columns"`
	Issues  []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Doctor inspects the messages table against the columns the browser depends on.
func (s *Store) Doctor(ctx context.Context) (DoctorReport, error) {
	report := DoctorReport{Path: s.Path, Columns: []string{}, Issues: []DoctorIssue{}}

	rows, err := s.db.QueryContext(ctx, `PRAGMA table_info(`+tableName+`)`)
	if err != nil {
		return report, err
	}
	defer rows.Close()

	types := map[string]string{}
	pk := ""
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    any
			isPK    int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &isPK); err != nil {
			return report, err
		}
		report.Columns = append(report.Columns, name)
		types[strings.ToLower(name)] = strings.ToUpper(typ)
		if isPK > 0 {
			pk = strings.ToLower(name)
		}
	}
	if err := rows.Err(); err != nil {
		return report, err
	}

	for _, c := range model.SchemaColumns {
		if _, ok := types[c]; !ok {
			report.Issues = append(report.Issues, DoctorIssue{
				Level:   DoctorIssueLevelError,
				Code:    "missing_column",
				Message: fmt.Sprintf("%s.%s is missing", tableName, c),
				Column:  c,
			})
		}
	}
	if pk != model.ColID {
		report.Issues = append(report.Issues, DoctorIssue{
			Level:   DoctorIssueLevelWarn,
			Code:    "id_not_primary_key",
			Message: fmt.Sprintf("%s.%s is not the primary key; deletes may resolve ambiguously", tableName, model.ColID),
			Column:  model.ColID,
		})
	}
	// Timestamps sort as text; anything else breaks the default ordering.
	if typ, ok := types[model.ColTimestamp]; ok && typ != "" && !strings.Contains(typ, "TEXT") {
		report.Issues = append(report.Issues, DoctorIssue{
			Level:   DoctorIssueLevelWarn,
			Code:    "timestamp_not_text",
			Message: fmt.Sprintf("%s.%s has type %s; expected ISO-8601 TEXT", tableName, model.ColTimestamp, typ),
			Column:  model.ColTimestamp,
		})
	}
	return report, nil
}

type RoleCount struct {
	Role  model.Role `json:"role"`
	Count int        `json:"count"`
}

type Stats struct {
	Path   string      `json:"path"`
	Total  int         `json:"total"`
	Oldest string      `json:"oldest,omitempty"`
	Newest string      `json:"newest,omitempty"`
	Roles  []RoleCount `json:"roles"`
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	out := Stats{Path: s.Path, Roles: []RoleCount{}}

	var oldest, newest any
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(timestamp), MAX(timestamp) FROM `+tableName,
	).Scan(&out.Total, &oldest, &newest); err != nil {
		return out, fmt.Errorf("stats %s: %w", tableName, err)
	}
	out.Oldest = asString(oldest)
	out.Newest = asString(newest)

	rows, err := s.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM `+tableName+` GROUP BY role ORDER BY role`)
	if err != nil {
		return out, fmt.Errorf("stats %s roles: %w", tableName, err)
	}
	defer rows.Close()
	for rows.Next() {
		var role any
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return out, err
		}
		out.Roles = append(out.Roles, RoleCount{Role: model.Role(asString(role)), Count: n})
	}
	return out, rows.Err()
}
