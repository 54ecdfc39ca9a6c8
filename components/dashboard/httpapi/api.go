package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-item/components/dashboard"
	"github.com/goliatone/go-dashboard-item/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-item/components/dashboard/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	ToggleDrill   gocommand.Commander[commands.ToggleDrillInput]
	Drill         gocommand.Commander[commands.DrillInput]
	DrillPath     gocommand.Commander[commands.DrillPathInput]
	DrillHistory  gocommand.Commander[dashboard.DrillHistoryRequest]
	ChangePage    gocommand.Commander[commands.ChangePageInput]
	Sync          gocommand.Commander[commands.SyncInput]
	ControlSearch gocommand.Commander[commands.ControlSearchInput]
	Brush         gocommand.Commander[commands.BrushInput]
	SetPolling    gocommand.Commander[commands.SetPollingInput]
	View          gocommand.Querier[queries.ItemViewInput, dashboard.ItemView]

	ItemAction       gocommand.Commander[commands.ItemActionInput]
	ShareLink        gocommand.Commander[commands.ShareLinkInput]
	AuthorizeShare   gocommand.Commander[commands.AuthorizeShareInput]
	ControlOptions   gocommand.Commander[commands.ControlOptionsInput]
	Interact         gocommand.Commander[commands.InteractInput]
	SelectChartItems gocommand.Commander[commands.SelectChartItemsInput]
}

func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request, itemID int) {
	view, err := h.View.Query(r.Context(), queries.ItemViewInput{ItemID: itemID})
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(view)
}

func (h *Handlers) HandleToggleDrill(w http.ResponseWriter, r *http.Request, itemID int) {
	execute(w, r, h.ToggleDrill, commands.ToggleDrillInput{ItemID: itemID}, false)
}

func (h *Handlers) HandleDrill(w http.ResponseWriter, r *http.Request, itemID int) {
	var payload commands.DrillInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ItemID = itemID
	execute(w, r, h.Drill, payload, false)
}

func (h *Handlers) HandleDrillPath(w http.ResponseWriter, r *http.Request, itemID int) {
	execute(w, r, h.DrillPath, commands.DrillPathInput{ItemID: itemID}, false)
}

func (h *Handlers) HandleDrillHistory(w http.ResponseWriter, r *http.Request, itemID int) {
	var payload dashboard.DrillHistoryRequest
	if !decode(w, r, &payload) {
		return
	}
	payload.ItemID = itemID
	execute(w, r, h.DrillHistory, payload, false)
}

func (h *Handlers) HandleChangePage(w http.ResponseWriter, r *http.Request, itemID int) {
	var payload commands.ChangePageInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ItemID = itemID
	execute(w, r, h.ChangePage, payload, true)
}

func (h *Handlers) HandleSync(w http.ResponseWriter, r *http.Request, itemID int) {
	execute(w, r, h.Sync, commands.SyncInput{ItemID: itemID}, true)
}

func (h *Handlers) HandleControlSearch(w http.ResponseWriter, r *http.Request, itemID int) {
	var payload commands.ControlSearchInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ItemID = itemID
	execute(w, r, h.ControlSearch, payload, true)
}

// HandleBrush reads the raw renderer payload from the body.
func (h *Handlers) HandleBrush(w http.ResponseWriter, r *http.Request, itemID int) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	execute(w, r, h.Brush, commands.BrushInput{ItemID: itemID, Payload: string(body)}, false)
}

func (h *Handlers) HandleSetPolling(w http.ResponseWriter, r *http.Request, itemID int) {
	var payload commands.SetPollingInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ItemID = itemID
	execute(w, r, h.SetPolling, payload, false)
}

// HandleItemAction fires a toolbar action such as download or delete.
func (h *Handlers) HandleItemAction(w http.ResponseWriter, r *http.Request, itemID int, action string) {
	execute(w, r, h.ItemAction, commands.ItemActionInput{ItemID: itemID, Action: action}, false)
}

func (h *Handlers) HandleShareLink(w http.ResponseWriter, r *http.Request, itemID int) {
	var payload commands.ShareLinkInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ItemID = itemID
	execute(w, r, h.ShareLink, payload, false)
}

func (h *Handlers) HandleAuthorizeShare(w http.ResponseWriter, r *http.Request, itemID int) {
	var payload commands.AuthorizeShareInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ItemID = itemID
	execute(w, r, h.AuthorizeShare, payload, false)
}

func (h *Handlers) HandleControlOptions(w http.ResponseWriter, r *http.Request, itemID int) {
	var payload commands.ControlOptionsInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ItemID = itemID
	execute(w, r, h.ControlOptions, payload, false)
}

func (h *Handlers) HandleInteract(w http.ResponseWriter, r *http.Request, itemID int) {
	var payload commands.InteractInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ItemID = itemID
	execute(w, r, h.Interact, payload, false)
}

func (h *Handlers) HandleSelectChartItems(w http.ResponseWriter, r *http.Request, itemID int) {
	var payload commands.SelectChartItemsInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ItemID = itemID
	execute(w, r, h.SelectChartItems, payload, false)
}

func decode(w http.ResponseWriter, r *http.Request, payload any) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// execute answers 202 for gestures that only schedule a fetch, 200 otherwise.
func execute[T any](w http.ResponseWriter, r *http.Request, cmd gocommand.Commander[T], msg T, fetches bool) {
	if cmd == nil {
		http.Error(w, "not implemented", http.StatusNotImplemented)
		return
	}
	if err := cmd.Execute(r.Context(), msg); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if fetches {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	w.WriteHeader(http.StatusOK)
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
