package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// BoardManifest models a YAML document describing views, widgets and the items
// placed on a board.
type BoardManifest struct {
	Version string         `yaml:"version"`
	Name    string         `yaml:"name,omitempty"`
	Project *Project       `yaml:"project,omitempty"`
	Views   []View         `yaml:"views,omitempty"`
	Widgets []Widget       `yaml:"widgets"`
	Items   []ManifestItem `yaml:"items"`
	Source  string         `yaml:"-"`
}

// ManifestItem places a widget on the board.
type ManifestItem struct {
	ID        int             `yaml:"id"`
	Widget    int             `yaml:"widget"`
	Polling   bool            `yaml:"polling,omitempty"`
	Frequency string          `yaml:"frequency,omitempty"`
	Container string          `yaml:"container,omitempty"`
	DrillPath []DrillPathStep `yaml:"drill_path,omitempty"`
}

// ReadManifest loads a manifest file from disk.
func ReadManifest(path string) (*BoardManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*BoardManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc BoardManifest
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures ids are unique and every item references a known widget.
func (doc *BoardManifest) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	widgets := make(map[int]struct{}, len(doc.Widgets))
	for idx, w := range doc.Widgets {
		if w.ID <= 0 {
			return fmt.Errorf("dashboard: manifest widget at index %d is missing id", idx)
		}
		if _, exists := widgets[w.ID]; exists {
			return fmt.Errorf("dashboard: manifest duplicates widget %d", w.ID)
		}
		widgets[w.ID] = struct{}{}
	}
	items := make(map[int]struct{}, len(doc.Items))
	for idx, item := range doc.Items {
		if item.ID <= 0 {
			return fmt.Errorf("dashboard: manifest item at index %d is missing id", idx)
		}
		if _, exists := items[item.ID]; exists {
			return fmt.Errorf("dashboard: manifest duplicates item %d", item.ID)
		}
		items[item.ID] = struct{}{}
		if _, ok := widgets[item.Widget]; !ok {
			return fmt.Errorf("dashboard: manifest item %d references unknown widget %d", item.ID, item.Widget)
		}
		for _, step := range item.DrillPath {
			if step.Widget == 0 {
				continue
			}
			if _, ok := widgets[step.Widget]; !ok {
				return fmt.Errorf("dashboard: manifest item %d drill path references unknown widget %d", item.ID, step.Widget)
			}
		}
	}
	return nil
}

func (doc *BoardManifest) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}

// Register stores the manifest's views and widgets.
func (doc *BoardManifest) Register(reg *WidgetRegistry) error {
	for _, v := range doc.Views {
		reg.RegisterView(v)
	}
	for _, w := range doc.Widgets {
		if err := reg.Register(w); err != nil {
			return fmt.Errorf("dashboard: register widgets from %s: %w", doc.Source, err)
		}
	}
	return nil
}

// Props builds the initial props of every manifest item. Items are marked
// rendered so mounting performs the initial load.
func (doc *BoardManifest) Props(reg *WidgetRegistry) ([]Props, error) {
	out := make([]Props, 0, len(doc.Items))
	for _, item := range doc.Items {
		w, ok := reg.Widget(item.Widget)
		if !ok {
			return nil, fmt.Errorf("dashboard: manifest item %d: widget %d not registered", item.ID, item.Widget)
		}
		view, _ := reg.View(w.ViewID)
		out = append(out, Props{
			ItemID:           item.ID,
			Widget:           w,
			View:             view,
			Polling:          item.Polling,
			Frequency:        item.Frequency,
			Container:        item.Container,
			DrillPathSetting: item.DrillPath,
			Rendered:         true,
			Project:          doc.Project,
		})
	}
	return out, nil
}

// Load registers the manifest and mounts its items on the board.
func (doc *BoardManifest) Load(ctx context.Context, reg *WidgetRegistry, board *Board) error {
	if err := doc.Register(reg); err != nil {
		return err
	}
	props, err := doc.Props(reg)
	if err != nil {
		return err
	}
	for _, p := range props {
		if err := board.Mount(ctx, p); err != nil {
			return fmt.Errorf("dashboard: mount item %d: %w", p.ItemID, err)
		}
	}
	return nil
}
