package reconcile

import "github.com/nimbuswallet/chainmirror/pkg/ledger/models"

// ShouldRefreshBalanceHistoryCache decides whether the derived balance history
// must be replaced by the candidate. The hourly series is the authoritative
// signal; the check is deliberately O(1) past the length comparison. A subtler
// mutation this misses is caught anyway because the accompanying operation
// list change flips the account's changed flag on its own.
func ShouldRefreshBalanceHistoryCache(cached, candidate models.BalanceHistoryCache) bool {
	oldHour, newHour := cached.Hour, candidate.Hour
	if oldHour.LatestDate != newHour.LatestDate {
		return true
	}
	if len(oldHour.Balances) != len(newHour.Balances) {
		return true
	}
	n := len(newHour.Balances)
	if n == 0 {
		return false
	}
	return oldHour.Balances[n-1] != newHour.Balances[n-1]
}
