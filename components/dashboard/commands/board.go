package commands

import (
	"context"
	"errors"
	"fmt"

	dashboard "github.com/goliatone/go-dashboard-item/components/dashboard"
)

var (
	errBoardRequired = errors.New("commands: board is required")
	errItemRequired  = errors.New("commands: item id is required")
)

// itemBoard is the slice of dashboard.Board the commands drive.
type itemBoard interface {
	Do(itemID int, fn func(*dashboard.Item) error) error
	Patch(ctx context.Context, itemID int, fn func(*dashboard.Props)) error
	View(ctx context.Context, itemID int) (dashboard.ItemView, error)
	Unmount(itemID int) error
}

func checkTarget(board itemBoard, itemID int) error {
	if board == nil {
		return errBoardRequired
	}
	if itemID <= 0 {
		return fmt.Errorf("%w: got %d", errItemRequired, itemID)
	}
	return nil
}
