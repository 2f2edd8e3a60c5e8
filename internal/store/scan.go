package store

import (
	"strconv"
	"strings"
	"time"

	"chathistory/internal/model"
)

// recordFromRow maps a SELECT * row onto a Record by column name, so the
// physical column order of the table doesn't matter.
func recordFromRow(cols []string, vals []any) model.Record {
	var r model.Record
	for i, c := range cols {
		v := vals[i]
		switch strings.ToLower(c) {
		case model.ColID:
			r.ID = asInt64(v)
		case model.ColUserID:
			r.UserID = asInt64(v)
		case model.ColUserName:
			r.UserName = asString(v)
		case model.ColChannelID:
			r.ChannelID = asInt64(v)
		case model.ColIsDM:
			r.IsDM = asInt64(v) != 0
		case model.ColRole:
			r.Role = model.Role(asString(v))
		case model.ColContent:
			r.Content = asString(v)
		case model.ColTimestamp:
			r.Timestamp = asString(v)
		}
	}
	return r
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case nil:
		return 0
	case int64:
		return t
	case float64:
		return int64(t)
	case bool:
		if t {
			return 1
		}
		return 0
	case []byte:
		n, _ := strconv.ParseInt(strings.TrimSpace(string(t)), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n
	default:
		return 0
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return ""
	}
}
