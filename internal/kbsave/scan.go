package kbsave

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog/log"

	"github.com/ptolstoi/kbsave/campaign"
	"github.com/ptolstoi/kbsave/shops"
	"github.com/ptolstoi/kbsave/slcb"
)

const latestSlot = "latest"

// resolveSlot finds a slot by name under the saves root; "latest" is the most
// recently written one.
func (app *app) resolveSlot(name string) (slcb.Slot, error) {
	if app.config.SavesRoot == "" {
		return slcb.Slot{}, fmt.Errorf("no saves root configured: %w", fs.ErrNotExist)
	}
	if name == latestSlot {
		return slcb.Latest(app.config.SavesRoot)
	}
	return slcb.FindSlot(app.config.SavesRoot, name)
}

// slotShops decodes the shops of a slot, or returns them from the cache when
// the slot has not changed since. onShop may be nil; cached results are
// replayed through it in order.
func (app *app) slotShops(ctx context.Context, slot slcb.Slot, onShop func(shops.Progress)) ([]shops.ShopInventory, bool, error) {
	cached, err := app.getScanFromCache(slot.Name, shopsScan, slot.ModTime)
	if err != nil {
		log.Warn().Err(err).Str("slot", slot.Name).Msg("[slotShops] cache lookup failed")
	}
	if cached != nil {
		var inventories []shops.ShopInventory
		if err := json.Unmarshal(cached.content, &inventories); err == nil {
			if onShop != nil {
				for i, inventory := range inventories {
					onShop(shops.Progress{Index: i + 1, Total: len(inventories), Shop: inventory})
				}
			}
			return inventories, true, nil
		}
		log.Warn().Str("slot", slot.Name).Msg("[slotShops] unreadable cache entry, rescanning")
	}

	container, err := slcb.ReadSlotFile(slot.Path, slcb.DataFile)
	if err != nil {
		return nil, false, err
	}
	buf, err := slcb.Decompress(container)
	if err != nil {
		return nil, false, err
	}

	decoder := shops.Decoder{Workers: app.config.Workers, OnShop: onShop}
	inventories, err := decoder.Decode(ctx, buf)
	if err != nil {
		return nil, false, err
	}

	app.storeScan(slot, shopsScan, inventories)
	return inventories, false, nil
}

// slotCampaign reads the campaign identity of a slot, cached like slotShops.
func (app *app) slotCampaign(slot slcb.Slot) (campaign.Identity, error) {
	cached, err := app.getScanFromCache(slot.Name, campaignScan, slot.ModTime)
	if err != nil {
		log.Warn().Err(err).Str("slot", slot.Name).Msg("[slotCampaign] cache lookup failed")
	}
	if cached != nil {
		var identity campaign.Identity
		if err := json.Unmarshal(cached.content, &identity); err == nil {
			return identity, nil
		}
	}

	identity, err := campaign.FromSlot(slot.Path)
	if err != nil {
		return campaign.Identity{}, err
	}

	app.storeScan(slot, campaignScan, identity)
	return identity, nil
}

// storeScan caches a result. Failures are logged, not returned.
func (app *app) storeScan(slot slcb.Slot, kind scanKind, result interface{}) {
	content, err := json.Marshal(result)
	if err == nil {
		err = app.saveScanToCache(&cachedScan{
			slot:         slot.Name,
			kind:         kind,
			lastModified: slot.ModTime,
			content:      content,
		})
	}
	if err != nil {
		log.Warn().Err(err).Str("slot", slot.Name).Str("kind", string(kind)).Msg("[storeScan] not cached")
	}
}
