// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package algorithms

// IDIndex maps external user and item identifiers to dense matrix rows in
// first-seen order, and back.
//
// Integer identifiers of any width are normalized to int64 so that an ID
// read from CSV (int64) matches one passed by a caller as int.
type IDIndex struct {
	userIndex map[any]int
	itemIndex map[any]int

	indexToUser []any
	indexToItem []any
}

// NewIDIndex creates an empty index.
func NewIDIndex() *IDIndex {
	return &IDIndex{
		userIndex: make(map[any]int),
		itemIndex: make(map[any]int),
	}
}

// AddUser returns the row for id, assigning the next row on first sight.
func (x *IDIndex) AddUser(id any) int {
	id = normalizeID(id)
	if row, ok := x.userIndex[id]; ok {
		return row
	}
	row := len(x.indexToUser)
	x.userIndex[id] = row
	x.indexToUser = append(x.indexToUser, id)
	return row
}

// AddItem returns the row for id, assigning the next row on first sight.
func (x *IDIndex) AddItem(id any) int {
	id = normalizeID(id)
	if row, ok := x.itemIndex[id]; ok {
		return row
	}
	row := len(x.indexToItem)
	x.itemIndex[id] = row
	x.indexToItem = append(x.indexToItem, id)
	return row
}

// User returns the row of a known user.
func (x *IDIndex) User(id any) (int, bool) {
	if x == nil {
		return 0, false
	}
	row, ok := x.userIndex[normalizeID(id)]
	return row, ok
}

// Item returns the row of a known item.
func (x *IDIndex) Item(id any) (int, bool) {
	if x == nil {
		return 0, false
	}
	row, ok := x.itemIndex[normalizeID(id)]
	return row, ok
}

// UserAt returns the identifier stored at row.
func (x *IDIndex) UserAt(row int) any {
	return x.indexToUser[row]
}

// ItemAt returns the identifier stored at row.
func (x *IDIndex) ItemAt(row int) any {
	return x.indexToItem[row]
}

// NumUsers returns the number of distinct users.
func (x *IDIndex) NumUsers() int {
	if x == nil {
		return 0
	}
	return len(x.indexToUser)
}

// NumItems returns the number of distinct items.
func (x *IDIndex) NumItems() int {
	if x == nil {
		return 0
	}
	return len(x.indexToItem)
}

// indexState is the persisted form: row order is the whole index.
type indexState struct {
	Users []any
	Items []any
}

func (x *IDIndex) state() indexState {
	return indexState{Users: x.indexToUser, Items: x.indexToItem}
}

func indexFromState(s indexState) *IDIndex {
	x := NewIDIndex()
	for _, id := range s.Users {
		x.AddUser(id)
	}
	for _, id := range s.Items {
		x.AddItem(id)
	}
	return x
}

func normalizeID(id any) any {
	switch v := id.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return int64(v) //nolint:gosec // identifiers beyond int64 are not expected
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v) //nolint:gosec // identifiers beyond int64 are not expected
	case float32:
		return float64(v)
	case []byte:
		return string(v)
	default:
		return id
	}
}
