package model

import "slices"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleThinking  Role = "thinking"
)

// Column names of the messages table.
const (
	ColID        = "id"
	ColUserID    = "user_id"
	ColUserName  = "user_name"
	ColChannelID = "channel_id"
	ColIsDM      = "is_dm"
	ColRole      = "role"
	ColContent   = "content"
	ColTimestamp = "timestamp"
)

// SchemaColumns lists the messages columns in declaration order.
var SchemaColumns = ColumnSet{
	ColID,
	ColUserID,
	ColUserName,
	ColChannelID,
	ColIsDM,
	ColRole,
	ColContent,
	ColTimestamp,
}

// Record is one persisted chat exchange entry.
type Record struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	UserName  string `json:"userName"`
	ChannelID int64  `json:"channelId"`
	IsDM      bool   `json:"isDm"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	// Timestamp is kept as stored (ISO-8601 text) so it sorts and compares like the store does.
	Timestamp string `json:"timestamp"`
}

// Value resolves a field by its store column name.
// is_dm is reported in its stored 0/1 form.
func (r Record) Value(column string) (any, bool) {
	switch column {
	case ColID:
		return r.ID, true
	case ColUserID:
		return r.UserID, true
	case ColUserName:
		return r.UserName, true
	case ColChannelID:
		return r.ChannelID, true
	case ColIsDM:
		if r.IsDM {
			return int64(1), true
		}
		return int64(0), true
	case ColRole:
		return string(r.Role), true
	case ColContent:
		return r.Content, true
	case ColTimestamp:
		return r.Timestamp, true
	default:
		return nil, false
	}
}

// ColumnSet is the ordered column list of one query result.
type ColumnSet []string

func (c ColumnSet) Index(name string) int {
	return slices.Index(c, name)
}

func (c ColumnSet) Has(name string) bool {
	return c.Index(name) >= 0
}

type ResultSet struct {
	Columns ColumnSet `json:"columns"`
	Records []Record  `json:"records"`
}

func (rs ResultSet) Len() int { return len(rs.Records) }

// Equal reports structural equality (column order and record order matter).
func (rs ResultSet) Equal(other ResultSet) bool {
	return slices.Equal(rs.Columns, other.Columns) && slices.Equal(rs.Records, other.Records)
}

// Without returns a copy of rs with the record at i removed.
func (rs ResultSet) Without(i int) ResultSet {
	if i < 0 || i >= len(rs.Records) {
		return rs
	}
	out := ResultSet{
		Columns: rs.Columns,
		Records: make([]Record, 0, len(rs.Records)-1),
	}
	out.Records = append(out.Records, rs.Records[:i]...)
	out.Records = append(out.Records, rs.Records[i+1:]...)
	return out
}

// IndexOf returns the position of the first record equal to rec, or -1.
func (rs ResultSet) IndexOf(rec Record) int {
	return slices.Index(rs.Records, rec)
}
