package kbsave

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	"github.com/ptolstoi/kbsave/campaign"
	"github.com/ptolstoi/kbsave/shops"
	"github.com/ptolstoi/kbsave/slcb"
)

var (
	contentType = "content-type"
)

type slotsResponse struct {
	Root  string      `json:"root"`
	Slots []slcb.Slot `json:"slots"`
}

type shopsResponse struct {
	Slot   string                `json:"slot"`
	Cached bool                  `json:"cached"`
	Shops  []shops.ShopInventory `json:"shops"`
}

type shopResponse struct {
	Slot string              `json:"slot"`
	Shop shops.ShopInventory `json:"shop"`
}

type campaignResponse struct {
	Slot     string            `json:"slot"`
	Campaign campaign.Identity `json:"campaign"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (app *app) initHTTP() {
	app.httpRouter = httprouter.New()
	app.httpRouter.GET("/v1/saves", app.serveSlots)
	app.httpRouter.GET("/v1/saves/:slot/shops", app.serveShops)
	app.httpRouter.GET("/v1/saves/:slot/shops/:shop", app.serveShop)
	app.httpRouter.GET("/v1/saves/:slot/campaign", app.serveCampaign)
	app.httpRouter.GET("/v1/saves/:slot/scan/ws", app.serveScanProgress)
	app.httpRouter.GET("/v1/schema/shops", app.serveShopsSchema)
}

func (app *app) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	log.Info().Str("method", req.Method).Str("url", req.URL.String()).Msg("[ServeHTTP]")

	app.httpRouter.ServeHTTP(w, req)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set(contentType, "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("[writeJSON] response not written")
	}
}

// statusOf maps an error onto the response status: broken containers are
// 422, missing slots or files 404, the rest 500.
func statusOf(err error) int {
	var formatErr *slcb.FormatError
	switch {
	case errors.As(err, &formatErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("[writeError]")
	} else {
		log.Info().Err(err).Int("status", status).Msg("[writeError]")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (app *app) serveSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit := app.config.SlotLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	if app.config.SavesRoot == "" {
		writeError(w, http.StatusNotFound, fmt.Errorf("no saves root configured"))
		return
	}

	slots, err := slcb.ListSlots(app.config.SavesRoot, limit)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	writeJSON(w, http.StatusOK, slotsResponse{Root: app.config.SavesRoot, Slots: slots})
}

func (app *app) serveShops(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slot, err := app.resolveSlot(ps.ByName("slot"))
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	inventories, cached, err := app.slotShops(r.Context(), slot, nil)
	if err != nil {
		writeError(w, statusOf(err), fmt.Errorf("decode shops of slot %v: %w", slot.Name, err))
		return
	}

	if _, nonEmpty := r.URL.Query()["nonEmpty"]; nonEmpty {
		filtered := make([]shops.ShopInventory, 0, len(inventories))
		for _, inventory := range inventories {
			if !inventory.IsEmpty() {
				filtered = append(filtered, inventory)
			}
		}
		inventories = filtered
	}

	writeJSON(w, http.StatusOK, shopsResponse{Slot: slot.Name, Cached: cached, Shops: inventories})
}

func (app *app) serveShop(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slot, err := app.resolveSlot(ps.ByName("slot"))
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	inventories, _, err := app.slotShops(r.Context(), slot, nil)
	if err != nil {
		writeError(w, statusOf(err), fmt.Errorf("decode shops of slot %v: %w", slot.Name, err))
		return
	}

	id := ps.ByName("shop")
	for _, inventory := range inventories {
		if inventory.ShopID == id {
			writeJSON(w, http.StatusOK, shopResponse{Slot: slot.Name, Shop: inventory})
			return
		}
	}

	writeError(w, http.StatusNotFound, fmt.Errorf("shop %v not found in slot %v", id, slot.Name))
}

func (app *app) serveCampaign(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slot, err := app.resolveSlot(ps.ByName("slot"))
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	identity, err := app.slotCampaign(slot)
	if err != nil {
		writeError(w, statusOf(err), fmt.Errorf("campaign of slot %v: %w", slot.Name, err))
		return
	}

	writeJSON(w, http.StatusOK, campaignResponse{Slot: slot.Name, Campaign: identity})
}

func (app *app) serveShopsSchema(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, shopsSchema())
}
