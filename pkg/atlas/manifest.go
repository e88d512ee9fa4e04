package atlas

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Manifest is the decoded form of a tile_config.json file.
type Manifest struct {
	TileInfo []TileInfo `json:"tile_info"`
	Chunks   []Chunk    `json:"tiles-new"`
}

// TileInfo holds the global sprite geometry. Only the first entry of the
// manifest's tile_info list is used.
type TileInfo struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	PixelScale float64 `json:"pixelscale,omitempty"`
}

// Chunk is one spritesheet plus its grid geometry and tile entries.
// Pointer fields distinguish "not declared" from zero.
type Chunk struct {
	File          string      `json:"file,omitempty"`
	NX            *int        `json:"nx,omitempty"`
	NY            *int        `json:"ny,omitempty"`
	SpriteWidth   *int        `json:"sprite_width,omitempty"`
	SpriteHeight  *int        `json:"sprite_height,omitempty"`
	SpriteOffsetX *int        `json:"sprite_offset_x,omitempty"`
	SpriteOffsetY *int        `json:"sprite_offset_y,omitempty"`
	Tiles         []TileEntry `json:"tiles,omitempty"`
}

// HasFile reports whether the chunk references a spritesheet.
// File-less chunks are placeholders that occupy a single tile index.
func (c Chunk) HasFile() bool { return c.File != "" }

// TileEntry binds one or more symbolic ids to foreground and background
// tile references.
type TileEntry struct {
	IDs IDList  `json:"id"`
	FG  TileRef `json:"fg"`
	BG  TileRef `json:"bg"`
}

// IDList is a list of symbolic ids. In JSON it is either a single string
// or an array of strings.
type IDList []string

// UnmarshalJSON accepts a string, an array of strings, or null.
func (l *IDList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			return fmt.Errorf("tile id list: %w", err)
		}
		*l = ids
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("tile id: %w", err)
	}
	*l = IDList{id}
	return nil
}

// TileRef is a reference to a tile in the global index space.
//
// The manifest allows three shapes: a scalar index, a list of indices
// (the first one is used), or an object carrying a "sprite" field. All
// of them are normalized to an optional integer when the manifest is
// decoded.
type TileRef struct {
	index int
	set   bool
}

// Ref returns a TileRef pointing at index i.
func Ref(i int) TileRef { return TileRef{index: i, set: true} }

// Index returns the referenced tile index and whether one is present.
func (r TileRef) Index() (int, bool) { return r.index, r.set }

// UnmarshalJSON normalizes the scalar, list, and object shapes.
func (r *TileRef) UnmarshalJSON(data []byte) error {
	idx, ok, err := normalizeRef(data)
	if err != nil {
		return err
	}
	*r = TileRef{index: idx, set: ok}
	return nil
}

// MarshalJSON writes the normalized index, or null when absent.
func (r TileRef) MarshalJSON() ([]byte, error) {
	if !r.set {
		return []byte("null"), nil
	}
	return json.Marshal(r.index)
}

func normalizeRef(data []byte) (int, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0, false, nil
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return 0, false, fmt.Errorf("tile reference list: %w", err)
		}
		if len(items) == 0 {
			return 0, false, nil
		}
		return normalizeRef(items[0])
	case '{':
		var obj struct {
			Sprite json.RawMessage `json:"sprite"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return 0, false, fmt.Errorf("tile reference object: %w", err)
		}
		return normalizeRef(obj.Sprite)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return 0, false, fmt.Errorf("tile reference: %w", err)
		}
		return int(n), true, nil
	}
}
