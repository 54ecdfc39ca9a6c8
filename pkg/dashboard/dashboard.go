package dashboard

import (
	core "github.com/goliatone/go-dashboard-item/components/dashboard"
)

// Board exposes the underlying components/dashboard.Board type.
type Board = core.Board

// BoardOptions re-export for convenience.
type BoardOptions = core.BoardOptions

// Item, Props and ItemOptions re-exports.
type (
	Item        = core.Item
	Props       = core.Props
	ItemOptions = core.ItemOptions
	ItemView    = core.ItemView
)

// WidgetRegistry re-export.
type WidgetRegistry = core.WidgetRegistry

// NewBoard proxies to the internal constructor.
func NewBoard(opts BoardOptions) *Board {
	return core.NewBoard(opts)
}

// NewItem proxies to the internal constructor.
func NewItem(opts ItemOptions) *Item {
	return core.NewItem(opts)
}

// NewWidgetRegistry proxies to the internal constructor.
func NewWidgetRegistry() (*WidgetRegistry, error) {
	return core.NewWidgetRegistry()
}
