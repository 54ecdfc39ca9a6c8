package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	errItemNotFound = errors.New("dashboard: item not found")
	errItemExists   = errors.New("dashboard: item already on board")
)

// ErrItemNotFound reports a gesture addressed to an item that is not mounted.
var ErrItemNotFound = errItemNotFound

// BoardOptions configures the items a board creates.
type BoardOptions struct {
	// Item is the template every mounted item is built from.
	Item        ItemOptions
	Permissions PermissionChecker
}

// ItemView is the read model of a mounted item.
type ItemView struct {
	ItemID         int            `json:"item_id"`
	WidgetID       int            `json:"widget_id"`
	CacheWidgetID  int            `json:"cache_widget_id"`
	Drilling       bool           `json:"drilling"`
	Polling        bool           `json:"polling"`
	NativeQuery    bool           `json:"native_query"`
	Config         *WidgetConfig  `json:"config,omitempty"`
	Pagination     *Pagination    `json:"pagination,omitempty"`
	QueryVariables map[string]any `json:"query_variables"`
	Brushed        Brushed        `json:"brushed,omitempty"`
	Chrome         Chrome         `json:"chrome"`
}

// Board hosts the items of one dashboard. Gestures on a board are serialized so
// concurrent transports never reach an item at the same time. Fetchers and
// action callbacks must not call back into the board synchronously.
type Board struct {
	mu    sync.Mutex
	opts  BoardOptions
	items map[int]*Item
}

// NewBoard builds an empty board.
func NewBoard(opts BoardOptions) *Board {
	return &Board{opts: opts, items: map[int]*Item{}}
}

// Mount creates and mounts an item for props.ItemID.
func (b *Board) Mount(ctx context.Context, props Props) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.items[props.ItemID]; ok {
		return fmt.Errorf("%w: %d", errItemExists, props.ItemID)
	}
	item := NewItem(b.opts.Item)
	if err := item.Mount(ctx, props); err != nil {
		return err
	}
	b.items[props.ItemID] = item
	return nil
}

// Update reconciles an item with next props.
func (b *Board) Update(ctx context.Context, next Props) error {
	return b.Do(next.ItemID, func(item *Item) error {
		return item.Update(ctx, next)
	})
}

// Patch applies fn to a copy of the current props and reconciles the result.
func (b *Board) Patch(ctx context.Context, itemID int, fn func(*Props)) error {
	return b.Do(itemID, func(item *Item) error {
		next := item.Props()
		fn(&next)
		return item.Update(ctx, next)
	})
}

// ApplyDatasource stores a fetched result on the item and clears its loading flag.
func (b *Board) ApplyDatasource(ctx context.Context, itemID int, renderType RenderType, ds Datasource) error {
	return b.Patch(ctx, itemID, func(p *Props) {
		p.Datasource = ds
		p.Loading = false
		p.RenderType = renderType
	})
}

// Unmount stops and removes an item.
func (b *Board) Unmount(itemID int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.items[itemID]
	if !ok {
		return fmt.Errorf("%w: %d", errItemNotFound, itemID)
	}
	item.Unmount()
	delete(b.items, itemID)
	return nil
}

// Close unmounts every item.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, item := range b.items {
		item.Unmount()
		delete(b.items, id)
	}
}

// Do runs fn with exclusive access to an item.
func (b *Board) Do(itemID int, fn func(*Item) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.items[itemID]
	if !ok {
		return fmt.Errorf("%w: %d", errItemNotFound, itemID)
	}
	return fn(item)
}

// View returns the read model of an item.
func (b *Board) View(ctx context.Context, itemID int) (ItemView, error) {
	var view ItemView
	err := b.Do(itemID, func(item *Item) error {
		state := item.State()
		view = ItemView{
			ItemID:         itemID,
			WidgetID:       item.props.Widget.ID,
			CacheWidgetID:  state.CacheWidgetID,
			Drilling:       state.Drilling,
			Polling:        item.Polling(),
			NativeQuery:    state.NativeQuery,
			Config:         state.Config,
			Pagination:     state.Pagination,
			QueryVariables: state.QueryVariables,
			Brushed:        state.Brushed,
			Chrome:         item.Chrome(ctx, b.opts.Permissions),
		}
		return nil
	})
	return view, err
}

// ItemIDs lists mounted items in ascending order.
func (b *Board) ItemIDs() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int, 0, len(b.items))
	for id := range b.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
