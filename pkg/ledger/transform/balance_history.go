package transform

import (
	"time"

	"github.com/nimbuswallet/chainmirror/pkg/ledger/models"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/raw"
)

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ToBalanceHistoryCache maps the raw bucketed history; a nil record yields an
// empty cache.
func ToBalanceHistoryCache(r *raw.BalanceHistoryCacheRaw) models.BalanceHistoryCache {
	if r == nil {
		return models.BalanceHistoryCache{}
	}
	return models.BalanceHistoryCache{
		Hour: toBalanceHistoryData(r.Hour),
		Day:  toBalanceHistoryData(r.Day),
		Week: toBalanceHistoryData(r.Week),
	}
}

func toBalanceHistoryData(r raw.BalanceHistoryDataCacheRaw) models.BalanceHistoryDataCache {
	return models.BalanceHistoryDataCache{LatestDate: r.LatestDate, Balances: r.Balances}
}

// FromBalanceHistoryCache maps the live cache back to its raw record, nil when
// entirely empty.
func FromBalanceHistoryCache(c models.BalanceHistoryCache) *raw.BalanceHistoryCacheRaw {
	if len(c.Hour.Balances) == 0 && len(c.Day.Balances) == 0 && len(c.Week.Balances) == 0 &&
		c.Hour.LatestDate == 0 && c.Day.LatestDate == 0 && c.Week.LatestDate == 0 {
		return nil
	}
	return &raw.BalanceHistoryCacheRaw{
		Hour: raw.BalanceHistoryDataCacheRaw{LatestDate: c.Hour.LatestDate, Balances: c.Hour.Balances},
		Day:  raw.BalanceHistoryDataCacheRaw{LatestDate: c.Day.LatestDate, Balances: c.Day.Balances},
		Week: raw.BalanceHistoryDataCacheRaw{LatestDate: c.Week.LatestDate, Balances: c.Week.Balances},
	}
}
