package gorouter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-dashboard-item/components/dashboard"
	"github.com/goliatone/go-dashboard-item/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-item/components/dashboard/queries"
)

var errInvalidItemID = errors.New("gorouter: item id must be a positive integer")

// Config wires go-router with board commands, queries and the fetch stream.
type Config[T any] struct {
	Router    router.Router[T]
	Commands  *commands.Set
	Views     *queries.ItemViewQuery
	Charts    *queries.ChartQuery
	Renderer  dashboard.Renderer
	Broadcast *dashboard.FetchBroadcaster
	BasePath  string
	Routes    RouteConfig
	// Translator localizes chrome labels for the `locale` query parameter.
	Translator dashboard.TranslationService
}

// RouteConfig customizes the relative paths used for item endpoints.
type RouteConfig struct {
	Item         string
	Chrome       string
	Chart        string
	ToggleDrill  string
	Drill        string
	DrillPath    string
	DrillHistory string
	Page         string
	Sync         string
	Search       string
	Brush        string
	Polling      string
	Rendered     string
	WebSocket    string

	Action           string
	ShareLink        string
	AuthorizeShare   string
	ControlOptions   string
	Interact         string
	SelectChartItems string
}

// Register mounts item routes (JSON, HTML, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Commands == nil {
		return errors.New("gorouter: commands are required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/board"
	}
	group := cfg.Router.Group(base)
	set := cfg.Commands

	if cfg.Views != nil {
		group.Get(routes.Item, router.WrapHandler(func(ctx router.Context) error {
			id, err := itemID(ctx)
			if err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
			view, err := cfg.Views.Query(ctx.Context(), queries.ItemViewInput{ItemID: id})
			if err != nil {
				return respondError(ctx, statusFor(err), err)
			}
			return ctx.JSON(http.StatusOK, view)
		}))
	}

	if cfg.Views != nil && cfg.Renderer != nil {
		group.Get(routes.Chrome, router.WrapHandler(func(ctx router.Context) error {
			id, err := itemID(ctx)
			if err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
			view, err := cfg.Views.Query(ctx.Context(), queries.ItemViewInput{ItemID: id})
			if err != nil {
				return respondError(ctx, statusFor(err), err)
			}
			chrome := view.Chrome
			if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
				chrome = chrome.Localize(ctx.Context(), cfg.Translator, locale)
			}
			html, err := dashboard.RenderChrome(cfg.Renderer, chrome)
			if err != nil {
				return respondError(ctx, http.StatusInternalServerError, err)
			}
			ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
			return ctx.Send([]byte(html))
		}))
	}

	if cfg.Charts != nil {
		group.Get(routes.Chart, router.WrapHandler(func(ctx router.Context) error {
			id, err := itemID(ctx)
			if err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
			html, err := cfg.Charts.Query(ctx.Context(), queries.ItemViewInput{ItemID: id})
			if err != nil {
				return respondError(ctx, statusFor(err), err)
			}
			ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
			return ctx.Send([]byte(html))
		}))
	}

	group.Post(routes.ToggleDrill, router.WrapHandler(func(ctx router.Context) error {
		return run(ctx, http.StatusOK, func(id int) error {
			return set.ToggleDrill.Execute(ctx.Context(), commands.ToggleDrillInput{ItemID: id})
		})
	}))
	group.Post(routes.Drill, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.DrillInput
		return runWithBody(ctx, &payload, http.StatusOK, func(id int) error {
			payload.ItemID = id
			return set.Drill.Execute(ctx.Context(), payload)
		})
	}))
	group.Post(routes.DrillPath, router.WrapHandler(func(ctx router.Context) error {
		return run(ctx, http.StatusOK, func(id int) error {
			return set.DrillPath.Execute(ctx.Context(), commands.DrillPathInput{ItemID: id})
		})
	}))
	group.Post(routes.DrillHistory, router.WrapHandler(func(ctx router.Context) error {
		var payload dashboard.DrillHistoryRequest
		return runWithBody(ctx, &payload, http.StatusOK, func(id int) error {
			payload.ItemID = id
			return set.DrillHistory.Execute(ctx.Context(), payload)
		})
	}))
	group.Post(routes.Page, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ChangePageInput
		return runWithBody(ctx, &payload, http.StatusAccepted, func(id int) error {
			payload.ItemID = id
			return set.ChangePage.Execute(ctx.Context(), payload)
		})
	}))
	group.Post(routes.Sync, router.WrapHandler(func(ctx router.Context) error {
		return run(ctx, http.StatusAccepted, func(id int) error {
			return set.Sync.Execute(ctx.Context(), commands.SyncInput{ItemID: id})
		})
	}))
	group.Post(routes.Search, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ControlSearchInput
		return runWithBody(ctx, &payload, http.StatusAccepted, func(id int) error {
			payload.ItemID = id
			return set.ControlSearch.Execute(ctx.Context(), payload)
		})
	}))
	group.Post(routes.Brush, router.WrapHandler(func(ctx router.Context) error {
		return run(ctx, http.StatusOK, func(id int) error {
			return set.Brush.Execute(ctx.Context(), commands.BrushInput{ItemID: id, Payload: string(ctx.Body())})
		})
	}))
	group.Post(routes.Polling, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetPollingInput
		return runWithBody(ctx, &payload, http.StatusOK, func(id int) error {
			payload.ItemID = id
			return set.SetPolling.Execute(ctx.Context(), payload)
		})
	}))
	group.Post(routes.Rendered, router.WrapHandler(func(ctx router.Context) error {
		return run(ctx, http.StatusAccepted, func(id int) error {
			return set.MarkRendered.Execute(ctx.Context(), commands.MarkRenderedInput{ItemID: id})
		})
	}))

	group.Post(routes.Action, router.WrapHandler(func(ctx router.Context) error {
		return run(ctx, http.StatusOK, func(id int) error {
			return set.ItemAction.Execute(ctx.Context(), commands.ItemActionInput{ItemID: id, Action: ctx.Param("action")})
		})
	}))
	group.Post(routes.ShareLink, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ShareLinkInput
		return runWithBody(ctx, &payload, http.StatusOK, func(id int) error {
			payload.ItemID = id
			return set.ShareLink.Execute(ctx.Context(), payload)
		})
	}))
	group.Post(routes.AuthorizeShare, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.AuthorizeShareInput
		return runWithBody(ctx, &payload, http.StatusOK, func(id int) error {
			payload.ItemID = id
			return set.AuthorizeShare.Execute(ctx.Context(), payload)
		})
	}))
	group.Post(routes.ControlOptions, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ControlOptionsInput
		return runWithBody(ctx, &payload, http.StatusOK, func(id int) error {
			payload.ItemID = id
			return set.ControlOptions.Execute(ctx.Context(), payload)
		})
	}))
	group.Post(routes.Interact, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.InteractInput
		return runWithBody(ctx, &payload, http.StatusOK, func(id int) error {
			payload.ItemID = id
			return set.Interact.Execute(ctx.Context(), payload)
		})
	}))
	group.Post(routes.SelectChartItems, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SelectChartItemsInput
		return runWithBody(ctx, &payload, http.StatusOK, func(id int) error {
			payload.ItemID = id
			return set.SelectChartItems.Execute(ctx.Context(), payload)
		})
	}))

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.FetchBroadcaster, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		requests, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case req, ok := <-requests:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(req); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func run(ctx router.Context, status int, fn func(id int) error) error {
	id, err := itemID(ctx)
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	if err := fn(id); err != nil {
		return respondError(ctx, statusFor(err), err)
	}
	return ctx.JSON(status, map[string]any{"status": "ok", "item_id": id})
}

func runWithBody(ctx router.Context, payload any, status int, fn func(id int) error) error {
	if err := json.Unmarshal(ctx.Body(), payload); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	return run(ctx, status, fn)
}

func itemID(ctx router.Context) (int, error) {
	raw := ctx.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidItemID, raw)
	}
	return id, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrInvalidBrushPayload), errors.Is(err, commands.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, commands.ErrActionNotPermitted):
		return http.StatusForbidden
	case errors.Is(err, dashboard.ErrDrillPathExhausted):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrDrillPathNotConfigured), errors.Is(err, dashboard.ErrDrillPathTargetMissing):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Item == "" {
		routes.Item = "/items/:id"
	}
	if routes.Chrome == "" {
		routes.Chrome = "/items/:id/chrome"
	}
	if routes.Chart == "" {
		routes.Chart = "/items/:id/chart"
	}
	if routes.ToggleDrill == "" {
		routes.ToggleDrill = "/items/:id/toggle-drill"
	}
	if routes.Drill == "" {
		routes.Drill = "/items/:id/drill"
	}
	if routes.DrillPath == "" {
		routes.DrillPath = "/items/:id/drill-path"
	}
	if routes.DrillHistory == "" {
		routes.DrillHistory = "/items/:id/drill-history"
	}
	if routes.Page == "" {
		routes.Page = "/items/:id/page"
	}
	if routes.Sync == "" {
		routes.Sync = "/items/:id/sync"
	}
	if routes.Search == "" {
		routes.Search = "/items/:id/search"
	}
	if routes.Brush == "" {
		routes.Brush = "/items/:id/brush"
	}
	if routes.Polling == "" {
		routes.Polling = "/items/:id/polling"
	}
	if routes.Rendered == "" {
		routes.Rendered = "/items/:id/rendered"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	if routes.Action == "" {
		routes.Action = "/items/:id/actions/:action"
	}
	if routes.ShareLink == "" {
		routes.ShareLink = "/items/:id/share-link"
	}
	if routes.AuthorizeShare == "" {
		routes.AuthorizeShare = "/items/:id/share-auth"
	}
	if routes.ControlOptions == "" {
		routes.ControlOptions = "/items/:id/control-options"
	}
	if routes.Interact == "" {
		routes.Interact = "/items/:id/interact"
	}
	if routes.SelectChartItems == "" {
		routes.SelectChartItems = "/items/:id/select"
	}
	return routes
}
