// Package tips reports the oracle tipping state: the outstanding tip on
// each configured query feed and the claimable rewards of a configured
// account. Tips are informational; they do not feed the APR engine.
package tips

import (
	"context"
	"log"

	"github.com/tellor-io/layer-profitability-checker/internal/config"
	"github.com/tellor-io/layer-profitability-checker/internal/rpc"
)

// FeedTip is the current tip on one query feed.
type FeedTip struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"` // loya
}

// Summary aggregates the tips found across all queried feeds.
type Summary struct {
	TippedFeeds int
	Total       int64
	Highest     int64
	Lowest      int64
}

// Average returns the mean tip across tipped feeds, zero when none.
func (s Summary) Average() float64 {
	if s.TippedFeeds == 0 {
		return 0
	}
	return float64(s.Total) / float64(s.TippedFeeds)
}

// CurrentTips queries the outstanding tip for every configured feed.
// Per-feed failures are logged and skipped; the remaining feeds still
// report.
func CurrentTips(ctx context.Context, reader rpc.Reader, feeds []config.QueryFeed) ([]FeedTip, Summary) {
	var (
		tips    []FeedTip
		summary Summary
	)
	for _, feed := range feeds {
		amount, err := reader.CurrentTip(ctx, feed.QueryData)
		if err != nil {
			log.Printf("[tips] skipping feed %s: %v", feed.Name, err)
			continue
		}
		tips = append(tips, FeedTip{Name: feed.Name, Amount: amount})
		if amount <= 0 {
			continue
		}
		summary.TippedFeeds++
		summary.Total += amount
		if amount > summary.Highest {
			summary.Highest = amount
		}
		if summary.Lowest == 0 || amount < summary.Lowest {
			summary.Lowest = amount
		}
	}
	return tips, summary
}

// TotalTips returns the cumulative tips paid across the chain's lifetime,
// in loya. The ok result is false when the query failed.
func TotalTips(ctx context.Context, reader rpc.Reader) (int64, bool) {
	total, err := reader.TotalTips(ctx)
	if err != nil {
		log.Printf("[tips] total tips: %v", err)
		return 0, false
	}
	return total, true
}

// AvailableTips returns the claimable reporting rewards for the account,
// in loya. The ok result is false when the query failed.
func AvailableTips(ctx context.Context, reader rpc.Reader, address string) (int64, bool) {
	if address == "" {
		return 0, false
	}
	amount, err := reader.AvailableTips(ctx, address)
	if err != nil {
		log.Printf("[tips] available tips for %s: %v", address, err)
		return 0, false
	}
	return amount, true
}
