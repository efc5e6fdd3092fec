package sampler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

// MatchEvent scans a block-result event list for the first event of the
// given type carrying the given attribute key, returning the attribute
// value. This is the one place generic event scanning happens; components
// describe what they want instead of walking attributes themselves.
func MatchEvent(events []types.Event, eventType, key string) (string, bool) {
	for _, ev := range events {
		if ev.Type != eventType {
			continue
		}
		for _, attr := range ev.Attributes {
			if attr.Key == key {
				return attr.Value, true
			}
		}
	}
	return "", false
}

// ParseCoinAmount parses an amount string that may carry the bond denom as
// a suffix ("3150loya" or plain "3150") into integer loya.
func ParseCoinAmount(value string) (int64, error) {
	v := strings.TrimSuffix(value, types.BondDenom)
	if v == "" {
		return 0, fmt.Errorf("empty amount in %q", value)
	}
	amount, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", value, err)
	}
	return amount, nil
}

// mintAmount extracts the minted amount from a block's events. found is
// false when the block emitted no mint event, which is the common case.
func mintAmount(events []types.Event) (amount int64, found bool, err error) {
	value, ok := MatchEvent(events, MintEventType, MintAmountKey)
	if !ok {
		return 0, false, nil
	}
	amount, err = ParseCoinAmount(value)
	if err != nil {
		return 0, false, err
	}
	return amount, true, nil
}
