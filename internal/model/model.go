package model

// Canonical entity shapes shared by every provider and consumer.
// All entities are immutable value records: a corrected record is a
// wholesale replacement in the cache, never an in-place edit.
// Dates are ISO-8601 YYYY-MM-DD strings throughout.

// Price is one daily OHLCV bar. The date is carried under the "time"
// key; the ticker is implicit in the cache key.
type Price struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	Close  float64 `json:"close"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Volume int64   `json:"volume"`
}

// FinancialMetrics is one report period's derived ratio set for a ticker.
// Every monetary/ratio field is nullable; nil means the upstream could not
// supply the inputs, never zero.
type FinancialMetrics struct {
	Ticker       string `json:"ticker"`
	ReportPeriod string `json:"report_period"`
	Period       string `json:"period"`
	Currency     string `json:"currency"`

	MarketCap                     *float64 `json:"market_cap"`
	EnterpriseValue               *float64 `json:"enterprise_value"`
	PriceToEarningsRatio          *float64 `json:"price_to_earnings_ratio"`
	PriceToBookRatio              *float64 `json:"price_to_book_ratio"`
	PriceToSalesRatio             *float64 `json:"price_to_sales_ratio"`
	EnterpriseValueToEBITDARatio  *float64 `json:"enterprise_value_to_ebitda_ratio"`
	EnterpriseValueToRevenueRatio *float64 `json:"enterprise_value_to_revenue_ratio"`
	FreeCashFlowYield             *float64 `json:"free_cash_flow_yield"`
	PEGRatio                      *float64 `json:"peg_ratio"`

	GrossMargin     *float64 `json:"gross_margin"`
	OperatingMargin *float64 `json:"operating_margin"`
	NetMargin       *float64 `json:"net_margin"`

	ReturnOnEquity          *float64 `json:"return_on_equity"`
	ReturnOnAssets          *float64 `json:"return_on_assets"`
	ReturnOnInvestedCapital *float64 `json:"return_on_invested_capital"`

	AssetTurnover          *float64 `json:"asset_turnover"`
	InventoryTurnover      *float64 `json:"inventory_turnover"`
	ReceivablesTurnover    *float64 `json:"receivables_turnover"`
	DaysSalesOutstanding   *float64 `json:"days_sales_outstanding"`
	OperatingCycle         *float64 `json:"operating_cycle"`
	WorkingCapitalTurnover *float64 `json:"working_capital_turnover"`

	CurrentRatio           *float64 `json:"current_ratio"`
	QuickRatio             *float64 `json:"quick_ratio"`
	CashRatio              *float64 `json:"cash_ratio"`
	OperatingCashFlowRatio *float64 `json:"operating_cash_flow_ratio"`

	DebtToEquity     *float64 `json:"debt_to_equity"`
	DebtToAssets     *float64 `json:"debt_to_assets"`
	InterestCoverage *float64 `json:"interest_coverage"`

	RevenueGrowth          *float64 `json:"revenue_growth"`
	EarningsGrowth         *float64 `json:"earnings_growth"`
	BookValueGrowth        *float64 `json:"book_value_growth"`
	EarningsPerShareGrowth *float64 `json:"earnings_per_share_growth"`
	FreeCashFlowGrowth     *float64 `json:"free_cash_flow_growth"`
	OperatingIncomeGrowth  *float64 `json:"operating_income_growth"`
	EBITDAGrowth           *float64 `json:"ebitda_growth"`

	PayoutRatio          *float64 `json:"payout_ratio"`
	EarningsPerShare     *float64 `json:"earnings_per_share"`
	BookValuePerShare    *float64 `json:"book_value_per_share"`
	FreeCashFlowPerShare *float64 `json:"free_cash_flow_per_share"`
}

// InsiderTrade is one filed insider transaction. Only the filing date is
// guaranteed; sorting and range filtering use EffectiveDate.
type InsiderTrade struct {
	Ticker                       string   `json:"ticker"`
	Issuer                       *string  `json:"issuer"`
	Name                         *string  `json:"name"`
	Title                        *string  `json:"title"`
	IsBoardDirector              *bool    `json:"is_board_director"`
	TransactionDate              *string  `json:"transaction_date"`
	TransactionShares            *float64 `json:"transaction_shares"`
	TransactionPricePerShare     *float64 `json:"transaction_price_per_share"`
	TransactionValue             *float64 `json:"transaction_value"`
	SharesOwnedBeforeTransaction *float64 `json:"shares_owned_before_transaction"`
	SharesOwnedAfterTransaction  *float64 `json:"shares_owned_after_transaction"`
	SecurityTitle                *string  `json:"security_title"`
	FilingDate                   string   `json:"filing_date"`
}

// EffectiveDate is the transaction date when present, the filing date
// otherwise.
func (t InsiderTrade) EffectiveDate() string {
	if t.TransactionDate != nil && *t.TransactionDate != "" {
		return *t.TransactionDate
	}
	return t.FilingDate
}

// CompanyNews is one dated news item for a ticker.
type CompanyNews struct {
	Ticker    string  `json:"ticker"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Source    string  `json:"source"`
	Date      string  `json:"date"`
	URL       string  `json:"url"`
	Sentiment *string `json:"sentiment"`
}
