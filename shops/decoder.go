package shops

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ptolstoi/kbsave/slcb"
)

// Progress is reported once per assembled shop.
type Progress struct {
	Index int
	Total int
	Shop  ShopInventory
}

// Decoder turns an inflated save buffer into shop inventories. The zero
// value decodes sequentially.
type Decoder struct {
	// Workers > 1 assembles shops in parallel. The buffer is only read, so
	// workers share it.
	Workers int

	// OnShop, if set, is called after each shop is assembled. Calls never
	// overlap, but with Workers > 1 they arrive in completion order.
	OnShop func(Progress)
}

// Decode locates every shop in buf and assembles its inventory. The result is
// ordered by ascending shop offset. The only error is ctx's.
func (decoder Decoder) Decode(ctx context.Context, buf []byte) ([]ShopInventory, error) {
	located := LocateShops(buf)
	result := make([]ShopInventory, len(located))

	var mu sync.Mutex
	done := 0
	report := func(i int) {
		if decoder.OnShop == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		decoder.OnShop(Progress{Index: done, Total: len(located), Shop: result[i]})
	}

	group, groupCtx := errgroup.WithContext(ctx)
	workers := decoder.Workers
	if workers < 1 {
		workers = 1
	}
	group.SetLimit(workers)

	for i := range located {
		i := i
		floor := 0
		if i > 0 {
			floor = located[i-1].end()
		}

		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			result[i] = assembleShop(buf, located[i], floor)
			report(i)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info().Int("shops", len(result)).Int("bytes", len(buf)).Msg("[Decode] shops decoded")

	return result, nil
}

// DecodeBuffer decodes an already inflated save buffer.
func DecodeBuffer(buf []byte) []ShopInventory {
	result, _ := Decoder{}.Decode(context.Background(), buf)
	return result
}

// DecodeShops inflates a save container and decodes its shops. The error is
// always a *slcb.FormatError.
func DecodeShops(container []byte) ([]ShopInventory, error) {
	buf, err := slcb.Decompress(container)
	if err != nil {
		return nil, err
	}
	return DecodeBuffer(buf), nil
}
