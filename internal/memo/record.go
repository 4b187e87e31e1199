// Package memo holds the memo data model and its JSON-backed store.
package memo

import (
	"strconv"
	"strings"
)

// Record is a single memo filed under a target label.
type Record struct {
	Target  string `json:"target"`
	Content string `json:"content"`
}

// Document maps a user identifier to that user's memos in insertion order.
// An absent key is equivalent to an empty list.
type Document map[string][]Record

// NewDocument returns an empty document.
func NewDocument() Document {
	return Document{}
}

// List returns the memos of a user. The returned slice must not be modified.
func (d Document) List(uid string) []Record {
	return d[uid]
}

// Append adds a memo at the end of the user's list, creating the list if needed.
func (d Document) Append(uid string, rec Record) {
	d[uid] = append(d[uid], rec)
}

// Count returns the total number of memos across all users.
func (d Document) Count() int {
	n := 0
	for _, list := range d {
		n += len(list)
	}
	return n
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for uid, list := range d {
		cp := make([]Record, len(list))
		copy(cp, list)
		out[uid] = cp
	}
	return out
}

// normalize replaces nil lists so the document always serialises as an
// object of arrays.
func (d Document) normalize() {
	for uid, list := range d {
		if list == nil {
			d[uid] = []Record{}
		}
	}
}

// DeleteMode identifies which selector matched a delete request.
type DeleteMode int

const (
	DeleteAll DeleteMode = iota
	DeleteByIndex
	DeleteByTarget
)

// String returns the name of the mode.
func (m DeleteMode) String() string {
	switch m {
	case DeleteAll:
		return "all"
	case DeleteByIndex:
		return "index"
	case DeleteByTarget:
		return "target"
	default:
		return "unknown"
	}
}

// DeleteOutcome describes the result of a delete request.
// An outcome with no removed records is a normal "not found" result.
type DeleteOutcome struct {
	Mode    DeleteMode
	Key     string
	Index   int // 1-based position, only meaningful for DeleteByIndex
	Removed []Record
}

// Found reports whether the request matched anything. A DeleteAll request
// always counts as found, even when the list was already empty.
func (o DeleteOutcome) Found() bool {
	return o.Mode == DeleteAll || len(o.Removed) > 0
}

// Changed reports whether the document was mutated.
func (o DeleteOutcome) Changed() bool {
	return len(o.Removed) > 0
}

// Delete removes memos from a user's list according to key.
//
// Selectors are tried in a fixed order: "all" (case-insensitive) clears
// the list, a string of ASCII digits is a 1-based position, and anything
// else removes every memo whose target equals key. A target that reads as
// "all" or as a number can therefore never be deleted by target.
func (d Document) Delete(uid, key string) DeleteOutcome {
	list := d[uid]

	if strings.EqualFold(key, "all") {
		out := DeleteOutcome{Mode: DeleteAll, Key: key, Removed: list}
		if _, ok := d[uid]; ok {
			d[uid] = []Record{}
		}
		return out
	}

	if isDigits(key) {
		out := DeleteOutcome{Mode: DeleteByIndex, Key: key}
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 1 || idx > len(list) {
			return out
		}
		out.Index = idx
		out.Removed = []Record{list[idx-1]}

		kept := make([]Record, 0, len(list)-1)
		kept = append(kept, list[:idx-1]...)
		kept = append(kept, list[idx:]...)
		d[uid] = kept
		return out
	}

	out := DeleteOutcome{Mode: DeleteByTarget, Key: key}
	kept := make([]Record, 0, len(list))
	for _, rec := range list {
		if rec.Target == key {
			out.Removed = append(out.Removed, rec)
			continue
		}
		kept = append(kept, rec)
	}
	if len(out.Removed) > 0 {
		d[uid] = kept
	}
	return out
}

// isDigits reports whether s is a non-empty run of ASCII decimal digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
