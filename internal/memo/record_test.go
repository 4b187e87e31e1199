package memo

import (
	"reflect"
	"testing"
)

func sampleDoc() Document {
	return Document{
		"alice": {
			{Target: "牙医", Content: "周三复诊"},
			{Target: "购物", Content: "买牛奶"},
			{Target: "牙医", Content: "带病历"},
		},
		"bob": {
			{Target: "work", Content: "standup"},
		},
	}
}

func TestDocument_Append(t *testing.T) {
	doc := sampleDoc()
	doc.Append("alice", Record{Target: "书", Content: "还书"})

	list := doc.List("alice")
	if len(list) != 4 {
		t.Fatalf("len = %d, want 4", len(list))
	}
	if got := list[3]; got != (Record{Target: "书", Content: "还书"}) {
		t.Errorf("last record = %+v", got)
	}
	if !reflect.DeepEqual(doc["bob"], sampleDoc()["bob"]) {
		t.Errorf("other user's list changed: %+v", doc["bob"])
	}
}

func TestDocument_AppendCreatesList(t *testing.T) {
	doc := NewDocument()
	doc.Append("carol", Record{Target: "a", Content: "b"})
	if len(doc.List("carol")) != 1 {
		t.Fatalf("List(carol) = %+v", doc.List("carol"))
	}
}

func TestDocument_Count(t *testing.T) {
	if got := sampleDoc().Count(); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}
	if got := NewDocument().Count(); got != 0 {
		t.Errorf("Count() on empty = %d, want 0", got)
	}
}

func TestDocument_Clone(t *testing.T) {
	doc := sampleDoc()
	cp := doc.Clone()
	cp["alice"][0].Content = "changed"
	if doc["alice"][0].Content != "周三复诊" {
		t.Error("Clone shares backing array with original")
	}
}

func TestDocument_Delete(t *testing.T) {
	tests := []struct {
		name        string
		uid         string
		key         string
		wantMode    DeleteMode
		wantIndex   int
		wantRemoved []Record
		wantFound   bool
		wantLeft    []Record
	}{
		{
			name:        "all clears list",
			uid:         "alice",
			key:         "all",
			wantMode:    DeleteAll,
			wantRemoved: sampleDoc()["alice"],
			wantFound:   true,
			wantLeft:    []Record{},
		},
		{
			name:        "all is case-insensitive",
			uid:         "alice",
			key:         "ALL",
			wantMode:    DeleteAll,
			wantRemoved: sampleDoc()["alice"],
			wantFound:   true,
			wantLeft:    []Record{},
		},
		{
			name:      "all on unknown user reports zero",
			uid:       "nobody",
			key:       "All",
			wantMode:  DeleteAll,
			wantFound: true,
			wantLeft:  nil,
		},
		{
			name:        "index first",
			uid:         "alice",
			key:         "1",
			wantMode:    DeleteByIndex,
			wantIndex:   1,
			wantRemoved: []Record{{Target: "牙医", Content: "周三复诊"}},
			wantFound:   true,
			wantLeft:    []Record{{Target: "购物", Content: "买牛奶"}, {Target: "牙医", Content: "带病历"}},
		},
		{
			name:        "index last",
			uid:         "alice",
			key:         "3",
			wantMode:    DeleteByIndex,
			wantIndex:   3,
			wantRemoved: []Record{{Target: "牙医", Content: "带病历"}},
			wantFound:   true,
			wantLeft:    []Record{{Target: "牙医", Content: "周三复诊"}, {Target: "购物", Content: "买牛奶"}},
		},
		{
			name:        "index with leading zero",
			uid:         "bob",
			key:         "01",
			wantMode:    DeleteByIndex,
			wantIndex:   1,
			wantRemoved: []Record{{Target: "work", Content: "standup"}},
			wantFound:   true,
			wantLeft:    []Record{},
		},
		{
			name:     "index zero not found",
			uid:      "alice",
			key:      "0",
			wantMode: DeleteByIndex,
			wantLeft: sampleDoc()["alice"],
		},
		{
			name:     "index past end not found",
			uid:      "alice",
			key:      "4",
			wantMode: DeleteByIndex,
			wantLeft: sampleDoc()["alice"],
		},
		{
			name:     "index overflowing int not found",
			uid:      "alice",
			key:      "99999999999999999999999",
			wantMode: DeleteByIndex,
			wantLeft: sampleDoc()["alice"],
		},
		{
			name:        "target removes every match",
			uid:         "alice",
			key:         "牙医",
			wantMode:    DeleteByTarget,
			wantRemoved: []Record{{Target: "牙医", Content: "周三复诊"}, {Target: "牙医", Content: "带病历"}},
			wantFound:   true,
			wantLeft:    []Record{{Target: "购物", Content: "买牛奶"}},
		},
		{
			name:     "target is case-sensitive",
			uid:      "bob",
			key:      "Work",
			wantMode: DeleteByTarget,
			wantLeft: sampleDoc()["bob"],
		},
		{
			name:     "negative number is a target",
			uid:      "alice",
			key:      "-1",
			wantMode: DeleteByTarget,
			wantLeft: sampleDoc()["alice"],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDoc()
			out := doc.Delete(tt.uid, tt.key)

			if out.Mode != tt.wantMode {
				t.Errorf("Mode = %v, want %v", out.Mode, tt.wantMode)
			}
			if out.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d", out.Index, tt.wantIndex)
			}
			if len(out.Removed) != len(tt.wantRemoved) || (len(tt.wantRemoved) > 0 && !reflect.DeepEqual(out.Removed, tt.wantRemoved)) {
				t.Errorf("Removed = %+v, want %+v", out.Removed, tt.wantRemoved)
			}
			if out.Found() != tt.wantFound {
				t.Errorf("Found() = %v, want %v", out.Found(), tt.wantFound)
			}
			left := doc[tt.uid]
			if len(left) != len(tt.wantLeft) || (len(tt.wantLeft) > 0 && !reflect.DeepEqual(left, tt.wantLeft)) {
				t.Errorf("remaining = %+v, want %+v", left, tt.wantLeft)
			}
		})
	}
}

func TestDocument_DeleteLeavesOtherUsers(t *testing.T) {
	doc := sampleDoc()
	doc.Delete("alice", "all")
	if !reflect.DeepEqual(doc["bob"], sampleDoc()["bob"]) {
		t.Errorf("bob's list changed: %+v", doc["bob"])
	}
}

// Selector priority makes targets named "all" or made of digits
// unreachable by target matching. These cases pin that behaviour.
func TestDocument_DeleteSelectorPriority(t *testing.T) {
	newDoc := func() Document {
		return Document{"u": {
			{Target: "2", Content: "x"},
			{Target: "all", Content: "y"},
			{Target: "z", Content: "w"},
		}}
	}

	t.Run("digit key deletes by position", func(t *testing.T) {
		doc := newDoc()
		out := doc.Delete("u", "2")
		if out.Mode != DeleteByIndex {
			t.Fatalf("Mode = %v, want index", out.Mode)
		}
		want := []Record{{Target: "2", Content: "x"}, {Target: "z", Content: "w"}}
		if !reflect.DeepEqual(doc["u"], want) {
			t.Errorf("remaining = %+v, want %+v", doc["u"], want)
		}
	})

	t.Run("digit key past end does not fall back to target", func(t *testing.T) {
		doc := Document{"u": {{Target: "2", Content: "x"}}}
		out := doc.Delete("u", "2")
		if out.Found() {
			t.Fatalf("expected not found, got %+v", out)
		}
		if len(doc["u"]) != 1 {
			t.Errorf("list changed: %+v", doc["u"])
		}
	})

	t.Run("all key clears the whole list", func(t *testing.T) {
		doc := newDoc()
		out := doc.Delete("u", "all")
		if out.Mode != DeleteAll || len(out.Removed) != 3 {
			t.Fatalf("outcome = %+v", out)
		}
		if len(doc["u"]) != 0 {
			t.Errorf("remaining = %+v, want empty", doc["u"])
		}
	})
}

func TestDeleteMode_String(t *testing.T) {
	for mode, want := range map[DeleteMode]string{
		DeleteAll:      "all",
		DeleteByIndex:  "index",
		DeleteByTarget: "target",
		DeleteMode(9):  "unknown",
	} {
		if got := mode.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", mode, got, want)
		}
	}
}
