package domain

// Table is a mongo collection name
type Table string

const (
	TableAssets     Table = "assets"
	TableCurrencies Table = "currencies"
	TableBalances   Table = "balances"
	TableOffers     Table = "offers"
	TableFeeRates   Table = "fee_rates"
)
