package atlas

import (
	"encoding/json"
	"testing"
)

func TestTileRefShapes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantSet bool
	}{
		{"scalar", `5`, 5, true},
		{"zero", `0`, 0, true},
		{"list", `[7, 8, 9]`, 7, true},
		{"empty list", `[]`, 0, false},
		{"object", `{"sprite": 12, "weight": 3}`, 12, true},
		{"list of objects", `[{"weight": 1, "sprite": 4}, {"weight": 1, "sprite": 5}]`, 4, true},
		{"object with list sprite", `{"sprite": [21, 22]}`, 21, true},
		{"object without sprite", `{"weight": 1}`, 0, false},
		{"null", `null`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref TileRef
			if err := json.Unmarshal([]byte(tt.input), &ref); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tt.input, err)
			}
			got, ok := ref.Index()
			if ok != tt.wantSet || got != tt.want {
				t.Errorf("Index() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantSet)
			}
		})
	}
}

func TestTileRefMissingField(t *testing.T) {
	var entry TileEntry
	if err := json.Unmarshal([]byte(`{"id": "t_dirt", "fg": 3}`), &entry); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if _, ok := entry.BG.Index(); ok {
		t.Error("absent bg should not be set")
	}
	if got, ok := entry.FG.Index(); !ok || got != 3 {
		t.Errorf("FG.Index() = (%d, %v), want (3, true)", got, ok)
	}
}

func TestTileRefInvalid(t *testing.T) {
	var ref TileRef
	if err := json.Unmarshal([]byte(`"five"`), &ref); err == nil {
		t.Error("string reference should fail to decode")
	}
}

func TestTileRefMarshal(t *testing.T) {
	data, _ := json.Marshal(Ref(9))
	if string(data) != "9" {
		t.Errorf("Marshal(Ref(9)) = %s, want 9", data)
	}
	data, _ = json.Marshal(TileRef{})
	if string(data) != "null" {
		t.Errorf("Marshal(TileRef{}) = %s, want null", data)
	}
}

func TestIDList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{`"mon_zombie"`, []string{"mon_zombie"}},
		{`["mon_zombie", "mon_zombie_fat"]`, []string{"mon_zombie", "mon_zombie_fat"}},
		{`[]`, []string{}},
		{`null`, nil},
	}

	for _, tt := range tests {
		var ids IDList
		if err := json.Unmarshal([]byte(tt.input), &ids); err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", tt.input, err)
		}
		if len(ids) != len(tt.want) {
			t.Fatalf("Unmarshal(%s) = %v, want %v", tt.input, ids, tt.want)
		}
		for i := range ids {
			if ids[i] != tt.want[i] {
				t.Errorf("Unmarshal(%s)[%d] = %q, want %q", tt.input, i, ids[i], tt.want[i])
			}
		}
	}
}

func TestIDListInvalid(t *testing.T) {
	var ids IDList
	if err := json.Unmarshal([]byte(`42`), &ids); err == nil {
		t.Error("numeric id should fail to decode")
	}
}
