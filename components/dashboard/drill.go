package dashboard

// DrillState is the slice of item state the drill reducers read and write.
type DrillState struct {
	Config   *WidgetConfig
	Pristine *WidgetConfig
	// Mode is the display mode of the widget as the parent stored it.
	Mode       DisplayMode
	Drilling   bool
	Brushed    Brushed
	SourceRows []map[string]any
}

// DrillAction drills on a single dimension. Axis is a pivot-table hint; AxisFree
// means the gesture came from a chart.
type DrillAction struct {
	Name string
	Axis AxisMode
}

// HistorySelection picks a drill history entry. FromHistory is false when the
// viewer returns to the undrilled widget.
type HistorySelection struct {
	FromHistory bool
	Index       int
	History     []DrillHistoryEntry
}

func (s HistorySelection) entry() (DrillHistoryEntry, bool) {
	if s.Index < 0 || s.Index >= len(s.History) {
		return DrillHistoryEntry{}, false
	}
	return s.History[s.Index], true
}

// ReduceToggleDrill flips drilling and resets the working config to the pristine one.
func ReduceToggleDrill(s DrillState) DrillState {
	next := s
	next.Drilling = !s.Drilling
	next.Config = s.pristine().Clone()
	if !next.Drilling {
		next.Brushed = nil
	}
	return next
}

// ReduceDrill applies a single-dimension drill and clears the brushed selection.
func ReduceDrill(s DrillState, action DrillAction) DrillState {
	next := s
	next.Brushed = nil
	if s.Config == nil {
		return next
	}
	cfg := s.Config.Clone()
	pristine := s.pristine()
	name := action.Name
	next.Config = cfg

	if name != "" && cfg.HasDimension(name) {
		cfg.Cols = withoutDimension(cfg.Cols, name)
		cfg.Rows = withoutDimension(cfg.Rows, name)
		return next
	}

	switch action.Axis {
	case AxisRow:
		cfg.Rows = extendOrReset(cfg.Rows, pristine.Rows, name)
		return next
	case AxisCol:
		cfg.Cols = extendOrReset(cfg.Cols, pristine.Cols, name)
		return next
	}

	switch layout := cfg.layout().(type) {
	case fixedAxisLayout:
		if layout.axis == AxisRow {
			cfg.Rows = drillAxis(cfg.Rows, pristine.Rows, name, s.Mode)
		} else {
			cfg.Cols = drillAxis(cfg.Cols, pristine.Cols, name, s.Mode)
		}
	case freeLayout:
		if layout.tabular {
			cfg.Cols = insertAfterBrushed(cfg.Cols, pristine.Cols, name, s.Brushed)
		} else {
			cfg.Cols = drillAxis(cfg.Cols, pristine.Cols, name, s.Mode)
		}
	}
	return next
}

// ReduceHistorySelection restores the working config for a history entry.
func ReduceHistorySelection(s DrillState, sel HistorySelection) DrillState {
	next := s
	pristine := s.pristine()
	entry, ok := sel.entry()
	if ok && entry.WidgetConfig != nil {
		next.Config = entry.WidgetConfig.Clone()
		return next
	}
	if !sel.FromHistory && sel.Index == -1 {
		next.Config = pristine.Clone()
		return next
	}

	var groups []string
	cols, rows := pristine.Cols, pristine.Rows
	if sel.FromHistory && ok {
		groups = entry.Groups
		if entry.Col != nil {
			cols = entry.Col
		}
		if entry.Row != nil {
			rows = entry.Row
		}
	}

	cfg := s.Config.Clone()
	if cfg == nil {
		cfg = pristine.Clone()
	}
	switch layout := cfg.layout().(type) {
	case fixedAxisLayout:
		restored := dimensionsFromNames(groups)
		if layout.axis == AxisRow {
			if len(restored) == 0 {
				restored = append([]Dimension{}, pristine.Rows...)
			}
			cfg.Rows = restored
		} else {
			if len(restored) == 0 {
				restored = append([]Dimension{}, pristine.Cols...)
			}
			cfg.Cols = restored
		}
	case freeLayout:
		cfg.Cols = append([]Dimension{}, cols...)
		cfg.Rows = append([]Dimension{}, rows...)
	}
	next.Config = cfg
	return next
}

func (s DrillState) pristine() *WidgetConfig {
	if s.Pristine != nil {
		return s.Pristine
	}
	if s.Config != nil {
		return s.Config
	}
	return &WidgetConfig{}
}

func extendOrReset(current, pristine []Dimension, name string) []Dimension {
	if name == "" {
		return append([]Dimension{}, pristine...)
	}
	return appendDimension(current, name)
}

func drillAxis(current, pristine []Dimension, name string, mode DisplayMode) []Dimension {
	if name == "" {
		return append([]Dimension{}, pristine...)
	}
	if mode == ModePivot {
		return appendDimension(current, name)
	}
	return []Dimension{{Name: name}}
}

// insertAfterBrushed places name right after the deepest brushed dimension. When
// nothing is brushed the dimension is appended.
func insertAfterBrushed(cols, pristine []Dimension, name string, brushed Brushed) []Dimension {
	if name == "" {
		return append([]Dimension{}, pristine...)
	}
	key, ok := brushed.LastKey()
	if !ok || !containsDimension(cols, key) {
		return appendDimension(cols, name)
	}
	out := make([]Dimension, 0, len(cols)+1)
	for _, col := range cols {
		out = append(out, col)
		if col.Name == key {
			out = append(out, Dimension{Name: name})
		}
	}
	return out
}
