package models

// BalanceHistoryDataCache is one bucketed balance time series: Balances[i] is
// the account balance at the end of bucket i, LatestDate is the unix-ms
// boundary of the most recent bucket. Balances are stored as float64 because
// the history feeds charting, not accounting.
type BalanceHistoryDataCache struct {
	LatestDate int64
	Balances   []float64
}

// BalanceHistoryCache is the derived balance history at the supported
// resolutions. The hourly series is the authoritative freshness signal: the
// coarser ones are rebuilt from it.
type BalanceHistoryCache struct {
	Hour BalanceHistoryDataCache
	Day  BalanceHistoryDataCache
	Week BalanceHistoryDataCache
}
