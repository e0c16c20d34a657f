package kbsave

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ptolstoi/kbsave/campaign"
	"github.com/ptolstoi/kbsave/shops"
	"github.com/ptolstoi/kbsave/slcb"
)

// RunShops decodes the shops of one save and writes them as JSON to the
// output file, or stdout. Statistics go to stderr.
//
//	kbsave shops <save> [out.json]
func RunShops(ctx context.Context, config Config, args []string, stdout io.Writer, stderr io.Writer) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: kbsave shops <save> [out.json]")
	}
	savePath := args[0]

	container, err := slcb.ReadSlotFile(savePath, slcb.DataFile)
	if err != nil {
		return err
	}
	buf, err := slcb.Decompress(container)
	if err != nil {
		return err
	}

	started := time.Now()
	inventories, err := shops.Decoder{Workers: config.Workers}.Decode(ctx, buf)
	if err != nil {
		return err
	}
	log.Info().Str("save", savePath).Int("shops", len(inventories)).Dur("took", time.Since(started)).
		Msg("[RunShops] decoded")

	out := stdout
	if len(args) == 2 {
		file, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(inventories); err != nil {
		return fmt.Errorf("write shops: %w", err)
	}

	return writeStatistics(stderr, shops.Summarize(inventories))
}

func writeStatistics(w io.Writer, stats shops.Statistics) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Total shops:\t%v\n", stats.Shops)
	fmt.Fprintf(tw, "Shops with content:\t%v\n", stats.WithContent)
	for _, kind := range shops.SectionKinds {
		fmt.Fprintf(tw, "  with %v:\t%v\n", kind, stats.WithSection[kind])
	}
	fmt.Fprintf(tw, "Total products:\t%v\n", stats.Products)
	for _, kind := range shops.SectionKinds {
		fmt.Fprintf(tw, "  %v:\t%v\n", kind, stats.Entries[kind])
	}

	return tw.Flush()
}

// RunCampaign prints the campaign identity of a save slot as JSON.
//
//	kbsave campaign <save>
func RunCampaign(args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: kbsave campaign <save>")
	}

	identity, err := campaign.FromSlot(args[0])
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(identity)
}

// RunSlots lists the save slots under a root, newest first.
//
//	kbsave slots [root]
func RunSlots(config Config, args []string, stdout io.Writer) error {
	root := config.SavesRoot
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		return fmt.Errorf("usage: kbsave slots <root>")
	}

	slots, err := slcb.ListSlots(root, config.SlotLimit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "NAME\tSAVED\tMODIFIED\n")
	for _, slot := range slots {
		fmt.Fprintf(tw, "%v\t%v\t%v\n",
			slot.Name,
			time.Unix(slot.Timestamp, 0).UTC().Format(time.RFC3339),
			slot.ModTime.UTC().Format(time.RFC3339),
		)
	}
	return tw.Flush()
}
