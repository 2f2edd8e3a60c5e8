package tui

import (
	"context"
	"sort"
	"sync"

	"chathistory/internal/model"
)

// fakeStore is an in-memory RecordStore with the same ordering and cap rules as the sqlite store.
type fakeStore struct {
	mu       sync.Mutex
	cols     model.ColumnSet
	recs     []model.Record
	nextID   int64
	queryErr error

	queries []fakeQuery
	deletes []model.Record
}

type fakeQuery struct {
	orderBy    string
	descending bool
}

func newFakeStore(recs ...model.Record) *fakeStore {
	f := &fakeStore{cols: model.SchemaColumns}
	for _, r := range recs {
		f.add(r)
	}
	return f
}

func (f *fakeStore) add(r model.Record) model.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	r.ID = f.nextID
	f.recs = append(f.recs, r)
	return r
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recs)
}

func (f *fakeStore) Query(_ context.Context, orderBy string, descending bool) (model.ResultSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, fakeQuery{orderBy: orderBy, descending: descending})
	if f.queryErr != nil {
		return model.ResultSet{}, f.queryErr
	}
	if orderBy == "" {
		orderBy = model.ColTimestamp
	}

	out := append([]model.Record(nil), f.recs...)
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].Value(orderBy)
		b, _ := out[j].Value(orderBy)
		c := compareValues(a, b)
		if c == 0 {
			c = compareValues(out[i].ID, out[j].ID)
		}
		if descending {
			return c > 0
		}
		return c < 0
	})
	if len(out) > 100 {
		out = out[:100]
	}
	return model.ResultSet{Columns: append(model.ColumnSet(nil), f.cols...), Records: out}, nil
}

func (f *fakeStore) Delete(_ context.Context, rec model.Record) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, rec)
	for i, r := range f.recs {
		probe := r
		probe.ID = rec.ID
		if probe == rec {
			f.recs = append(f.recs[:i], f.recs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func compareValues(a, b any) int {
	switch x := a.(type) {
	case int64:
		y := b.(int64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case string:
		y := b.(string)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	default:
		return 0
	}
}

func sampleRecords() []model.Record {
	return []model.Record{
		{UserID: 1001, UserName: "alice", ChannelID: 2001, IsDM: true, Role: model.RoleAssistant, Content: "Answer 1", Timestamp: "2024-02-08T10:00:00Z"},
		{UserID: 1002, UserName: "bob", ChannelID: 2001, IsDM: true, Role: model.RoleUser, Content: "Question 1", Timestamp: "2024-02-08T10:01:00Z"},
		{UserID: 1003, UserName: "charlie", ChannelID: 2001, IsDM: true, Role: model.RoleThinking, Content: "Answer 2", Timestamp: "2024-02-08T10:02:00Z"},
	}
}
