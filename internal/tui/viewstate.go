package tui

import "chathistory/internal/model"

// VisibleColumns are the columns shown in the table; everything else is overlay-only.
// They are looked up by name in each result's ColumnSet.
var VisibleColumns = [...]string{
	model.ColUserName,
	model.ColIsDM,
	model.ColRole,
	model.ColTimestamp,
}

const lastVisibleCol = len(VisibleColumns) - 1

// Dimensions used until the first WindowSizeMsg arrives (and for non-interactive runs).
const (
	defaultHeight = 24
	defaultWidth  = 80
)

type Mode int

const (
	ModeTable Mode = iota
	ModeOverlay
)

func (m Mode) String() string {
	if m == ModeOverlay {
		return "overlay"
	}
	return "table"
}

type Event int

const (
	EventNone Event = iota
	EventLeft
	EventRight
	EventUp
	EventDown
	EventPageUp
	EventPageDown
	EventTop
	EventBottom
	EventToggleOverlay
	EventSort
	EventDelete
	EventQuit
)

// Effect tells the shell what follow-up a transition needs.
type Effect int

const (
	EffectNone Effect = iota
	EffectRedraw
	// EffectQuery re-runs the query with the (new) sort state.
	EffectQuery
	// EffectDelete deletes the record at SelectedRow.
	EffectDelete
	EffectQuit
)

// ViewState is the browser's selection, sort and overlay state.
// It is owned by the event loop and never shared.
type ViewState struct {
	SelectedRow int
	SelectedCol int
	// TableTop is the first row shown in table mode; it follows the selection.
	TableTop int

	// SortColumn is empty until the user sorts (the store then orders by timestamp).
	SortColumn     string
	SortLastColumn string
	SortDescending bool

	OverlayOpen   bool
	OverlayText   string
	OverlayOffset int

	Height int
	Width  int
}

func NewViewState() ViewState {
	return ViewState{
		SortDescending: true,
		Height:         defaultHeight,
		Width:          defaultWidth,
	}
}

func (vs ViewState) Mode() Mode {
	if vs.OverlayOpen {
		return ModeOverlay
	}
	return ModeTable
}

// BodyHeight is the number of lines below the header.
func (vs ViewState) BodyHeight() int {
	h := vs.Height - 1
	if h < 1 {
		h = 1
	}
	return h
}

func (vs *ViewState) Resize(height, width int) {
	vs.Height = height
	vs.Width = width
}

// Apply runs one transition. rows is the cached result; wrappedLines is the
// overlay's wrapped line count at the current width (ignored in table mode).
func (vs *ViewState) Apply(ev Event, rows model.ResultSet, wrappedLines int) Effect {
	n := rows.Len()

	if ev == EventQuit {
		return EffectQuit
	}

	if vs.OverlayOpen {
		maxOff := maxOverlayOffset(wrappedLines, vs.BodyHeight())
		before := vs.OverlayOffset
		switch ev {
		case EventUp:
			vs.OverlayOffset = clamp(vs.OverlayOffset-1, 0, maxOff)
		case EventDown:
			vs.OverlayOffset = clamp(vs.OverlayOffset+1, 0, maxOff)
		case EventPageUp:
			vs.OverlayOffset = clamp(vs.OverlayOffset-vs.BodyHeight(), 0, maxOff)
		case EventPageDown:
			vs.OverlayOffset = clamp(vs.OverlayOffset+vs.BodyHeight(), 0, maxOff)
		case EventTop:
			vs.OverlayOffset = 0
		case EventBottom:
			vs.OverlayOffset = maxOff
		case EventToggleOverlay:
			vs.closeOverlay()
			return EffectRedraw
		default:
			// Selection is frozen; sort and delete are table-only.
			return EffectNone
		}
		if vs.OverlayOffset != before {
			return EffectRedraw
		}
		return EffectNone
	}

	beforeRow, beforeCol := vs.SelectedRow, vs.SelectedCol
	switch ev {
	case EventLeft:
		vs.SelectedCol = clamp(vs.SelectedCol-1, 0, lastVisibleCol)
	case EventRight:
		vs.SelectedCol = clamp(vs.SelectedCol+1, 0, lastVisibleCol)
	case EventUp:
		vs.SelectedRow = clamp(vs.SelectedRow-1, 0, n-1)
	case EventDown:
		vs.SelectedRow = clamp(vs.SelectedRow+1, 0, n-1)
	case EventPageUp:
		vs.SelectedRow = clamp(vs.SelectedRow-vs.BodyHeight(), 0, n-1)
	case EventPageDown:
		vs.SelectedRow = clamp(vs.SelectedRow+vs.BodyHeight(), 0, n-1)
	case EventTop:
		vs.SelectedRow = 0
	case EventBottom:
		vs.SelectedRow = clamp(n-1, 0, n-1)
	case EventToggleOverlay:
		if n == 0 {
			return EffectNone
		}
		vs.OverlayOpen = true
		vs.OverlayText = rows.Records[clamp(vs.SelectedRow, 0, n-1)].Content
		vs.OverlayOffset = 0
		return EffectRedraw
	case EventSort:
		col := VisibleColumns[vs.SelectedCol]
		if col == vs.SortLastColumn {
			vs.SortDescending = !vs.SortDescending
		} else {
			vs.SortDescending = true
		}
		vs.SortLastColumn = col
		vs.SortColumn = col
		return EffectQuery
	case EventDelete:
		if n == 0 {
			return EffectNone
		}
		return EffectDelete
	default:
		return EffectNone
	}
	vs.FollowSelection()
	if vs.SelectedRow != beforeRow || vs.SelectedCol != beforeCol {
		return EffectRedraw
	}
	return EffectNone
}

func (vs *ViewState) closeOverlay() {
	vs.OverlayOpen = false
	vs.OverlayText = ""
	vs.OverlayOffset = 0
}

// ClampSelection keeps SelectedRow inside [0, rowCount-1] (0 when empty).
func (vs *ViewState) ClampSelection(rowCount int) {
	vs.SelectedRow = clamp(vs.SelectedRow, 0, rowCount-1)
	vs.SelectedCol = clamp(vs.SelectedCol, 0, lastVisibleCol)
	vs.FollowSelection()
}

// ClampOverlay re-bounds the overlay offset, e.g. after a resize changed the wrap.
func (vs *ViewState) ClampOverlay(wrappedLines int) {
	if !vs.OverlayOpen {
		vs.OverlayOffset = 0
		return
	}
	vs.OverlayOffset = clamp(vs.OverlayOffset, 0, maxOverlayOffset(wrappedLines, vs.BodyHeight()))
}

// FollowSelection scrolls the table window so SelectedRow stays visible.
func (vs *ViewState) FollowSelection() {
	h := vs.BodyHeight()
	if vs.SelectedRow < vs.TableTop {
		vs.TableTop = vs.SelectedRow
	}
	if vs.SelectedRow >= vs.TableTop+h {
		vs.TableTop = vs.SelectedRow - h + 1
	}
	if vs.TableTop < 0 {
		vs.TableTop = 0
	}
}

func maxOverlayOffset(wrappedLines, bodyHeight int) int {
	return max(0, wrappedLines-bodyHeight)
}

// clamp bounds v to [lo, hi]; an empty range (hi < lo) yields lo.
func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
