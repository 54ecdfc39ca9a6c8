package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var errInvalidBrushPayload = errors.New("dashboard: brush payload is not valid JSON")

// ErrInvalidBrushPayload reports a brush payload that is not valid JSON.
var ErrInvalidBrushPayload = errInvalidBrushPayload

// BrushCell is one dimension/value pair of a brushed data point.
type BrushCell struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// BrushedPath is the dimension path of a single brushed point.
type BrushedPath []BrushCell

// BrushedGroup holds the brushed paths of one chart region.
type BrushedGroup []BrushedPath

// Brushed is the full brushed selection reported by the chart renderer.
type Brushed []BrushedGroup

// HasSelection reports whether any group holds at least one brushed path.
func (b Brushed) HasSelection() bool {
	for _, group := range b {
		for _, path := range group {
			if len(path) > 0 {
				return true
			}
		}
	}
	return false
}

// LastKey returns the deepest dimension of the first brushed path.
func (b Brushed) LastKey() (string, bool) {
	for _, group := range b {
		for _, path := range group {
			if len(path) > 0 {
				return path[len(path)-1].Key, true
			}
		}
	}
	return "", false
}

// BrushSelection is a decoded renderer payload.
type BrushSelection struct {
	Range      []float64
	Brushed    Brushed
	SourceRows []map[string]any
	// Position is never filled from the payload; the overlay is positioned by the host.
	Position *Position
}

// Empty reports whether the payload carried neither brushed paths nor rows.
func (s BrushSelection) Empty() bool {
	return len(s.Brushed) == 0 && len(s.SourceRows) == 0
}

// DecodeBrush parses a renderer payload of the shape
// {"range":[...],"brushed":[[[{"key":..,"value":..}]]],"sourceData":[{...}]}.
func DecodeBrush(payload string) (BrushSelection, error) {
	if strings.TrimSpace(payload) == "" {
		return BrushSelection{}, nil
	}
	if !gjson.Valid(payload) {
		return BrushSelection{}, errInvalidBrushPayload
	}
	root := gjson.Parse(payload)
	var sel BrushSelection

	if r := root.Get("range"); r.IsArray() {
		for _, v := range r.Array() {
			sel.Range = append(sel.Range, v.Float())
		}
	}
	if b := root.Get("brushed"); b.IsArray() && len(b.Array()) > 0 {
		if err := json.Unmarshal([]byte(b.Raw), &sel.Brushed); err != nil {
			return BrushSelection{}, fmt.Errorf("dashboard: decode brushed selection: %w", err)
		}
	}
	if s := root.Get("sourceData"); s.IsArray() {
		for _, row := range s.Array() {
			if m, ok := row.Value().(map[string]any); ok {
				sel.SourceRows = append(sel.SourceRows, m)
			}
		}
	}
	return sel, nil
}
