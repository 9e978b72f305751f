package award

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-stash/internal/inventory"
	"github.com/pixil98/go-stash/internal/item"
	"github.com/pixil98/go-stash/internal/loot"
)

// Recipient is anything with a backpack that can receive loot.
type Recipient interface {
	Backpack() *inventory.Container
}

// Result summarizes one award. Added and Leftover are unit totals across
// every pick.
type Result struct {
	Picks    []loot.Pick `json:"picks"`
	Added    uint        `json:"added"`
	Leftover uint        `json:"leftover"`
}

// Bridge rolls a source and places the outcome into a recipient's backpack.
type Bridge struct {
	catalog *item.Catalog
	roller  *loot.Roller
}

func NewBridge(catalog *item.Catalog, roller *loot.Roller) *Bridge {
	return &Bridge{catalog: catalog, roller: roller}
}

// TryAward rolls src and adds the picks to target. The source is consumed as
// soon as the roll produced something, even if the backpack could not hold
// all of it. It returns false, without touching anything, when the source is
// not available, has nothing to roll, the target has no backpack, or the
// roll came up empty.
func (b *Bridge) TryAward(ctx context.Context, src *loot.Source, target Recipient) (Result, bool) {
	if src == nil || !src.Available() || !src.HasOutcomes() {
		return Result{}, false
	}
	if target == nil {
		return Result{}, false
	}
	bp := target.Backpack()
	if bp == nil {
		return Result{}, false
	}

	picks := b.roller.Roll(b.catalog, src)
	if len(picks) == 0 {
		slog.DebugContext(ctx, "loot roll came up empty", "source", src.Id)
		return Result{}, false
	}

	// Another looter may have won the race since the availability check.
	if err := src.Consume(); err != nil {
		return Result{}, false
	}

	res := Result{Picks: picks}
	for _, p := range picks {
		left, err := inventory.AddToContainer(b.catalog, bp, p.Item, p.Amount)
		if err != nil {
			slog.WarnContext(ctx, "unable to place loot", "source", src.Id, "item", p.Item, "error", err)
		} else if left > 0 {
			slog.DebugContext(ctx, "backpack full", "source", src.Id, "item", b.catalog.Name(p.Item), "leftover", left)
		}
		res.Added += p.Amount - left
		res.Leftover += left
	}

	slog.InfoContext(ctx, "loot awarded",
		"source", src.Id,
		"picks", len(res.Picks),
		"added", res.Added,
		"leftover", res.Leftover)

	return res, true
}
