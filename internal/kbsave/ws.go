package kbsave

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	"github.com/ptolstoi/kbsave/shops"
)

const (
	eventShop  = "shop"
	eventDone  = "done"
	eventError = "error"
)

// scanEvent is one websocket message of a scan: a shop per assembled shop,
// then done or error.
type scanEvent struct {
	Type   string               `json:"type"`
	Slot   string               `json:"slot"`
	Index  int                  `json:"index,omitempty"`
	Total  int                  `json:"total,omitempty"`
	Shop   *shops.ShopInventory `json:"shop,omitempty"`
	Cached bool                 `json:"cached,omitempty"`
	Error  string               `json:"error,omitempty"`
}

func (app *app) serveScanProgress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slot, err := app.resolveSlot(ps.ByName("slot"))
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	conn, err := app.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("slot", slot.Name).Msg("[serveScanProgress] upgrade failed")
		return
	}
	defer conn.Close()

	// a write error means the client left; the scan still finishes and is cached
	writeFailed := false
	send := func(event scanEvent) {
		if writeFailed {
			return
		}
		if err := conn.WriteJSON(event); err != nil {
			log.Info().Err(err).Str("slot", slot.Name).Msg("[serveScanProgress] client gone")
			writeFailed = true
		}
	}

	onShop := func(progress shops.Progress) {
		shop := progress.Shop
		send(scanEvent{
			Type:  eventShop,
			Slot:  slot.Name,
			Index: progress.Index,
			Total: progress.Total,
			Shop:  &shop,
		})
	}

	inventories, cached, err := app.slotShops(r.Context(), slot, onShop)
	if err != nil {
		send(scanEvent{Type: eventError, Slot: slot.Name, Error: err.Error()})
	} else {
		send(scanEvent{Type: eventDone, Slot: slot.Name, Total: len(inventories), Cached: cached})
	}

	if !writeFailed {
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteMessage(websocket.CloseMessage, message)
	}
}
