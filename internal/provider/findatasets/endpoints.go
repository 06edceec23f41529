package findatasets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/url"

	"findata/internal/model"
	"findata/internal/provider"
)

// errNotFound marks a 404: the ticker is unknown upstream, which callers
// treat as "no data" rather than a failure.
var errNotFound = errors.New("not found")

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	q := maps.Clone(c.query)
	for key, values := range query {
		for _, value := range values {
			q.Add(key, value)
		}
	}

	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: performing request: %v", provider.ErrProviderUnavailable, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusNotFound:
		return errNotFound

	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("unauthorized")

	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limited")

	default:
		return fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

type priceEntry struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type pricesResponse struct {
	Prices []priceEntry `json:"prices"`
}

// GetPrices retrieves daily bars for a ticker within [start, end].
func (c *Client) GetPrices(ctx context.Context, ticker, start, end string) ([]provider.PriceRow, error) {
	query := url.Values{}
	query.Set("ticker", ticker)
	query.Set("start_date", start)
	query.Set("end_date", end)
	query.Set("interval", "day")

	var body pricesResponse
	if err := c.getJSON(ctx, "/v1/prices", query, &body); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	rows := make([]provider.PriceRow, 0, len(body.Prices))
	for _, e := range body.Prices {
		rows = append(rows, provider.PriceRow{
			Date:   e.Date,
			Open:   e.Open,
			Close:  e.Close,
			High:   e.High,
			Low:    e.Low,
			Volume: e.Volume,
		})
	}
	return rows, nil
}

// statementEntry covers the union of the vendor's camelCase field names
// across the three statement endpoints. Absent fields stay nil.
type statementEntry struct {
	ReportDate string `json:"reportDate"`

	Revenue         *float64 `json:"revenue"`
	GrossProfit     *float64 `json:"grossProfit"`
	OperatingIncome *float64 `json:"operatingIncome"`
	NetIncome       *float64 `json:"netIncome"`
	EBITDA          *float64 `json:"ebitda"`
	InterestExpense *float64 `json:"interestExpense"`

	TotalAssets        *float64 `json:"totalAssets"`
	TotalLiabilities   *float64 `json:"totalLiabilities"`
	TotalEquity        *float64 `json:"totalEquity"`
	CurrentAssets      *float64 `json:"currentAssets"`
	CurrentLiabilities *float64 `json:"currentLiabilities"`
	Inventory          *float64 `json:"inventory"`
	CashAndEquivalents *float64 `json:"cashAndEquivalents"`

	OperatingCashFlow *float64 `json:"operatingCashFlow"`
	FreeCashFlow      *float64 `json:"freeCashFlow"`
}

type statementsResponse struct {
	Statements []statementEntry `json:"statements"`
}

// statementPaths maps the neutral statement kinds onto the vendor's
// endpoint naming.
var statementPaths = map[model.StatementKind]string{
	model.StatementIncome:   "/v1/financials/income-statements",
	model.StatementBalance:  "/v1/financials/balance-sheets",
	model.StatementCashflow: "/v1/financials/cash-flow-statements",
}

// GetStatements retrieves raw rows of one statement kind, most recent first.
func (c *Client) GetStatements(ctx context.Context, ticker string, kind model.StatementKind) ([]provider.StatementRow, error) {
	path, ok := statementPaths[kind]
	if !ok {
		return nil, fmt.Errorf("unknown statement kind: %s", kind)
	}

	query := url.Values{}
	query.Set("ticker", ticker)

	var body statementsResponse
	if err := c.getJSON(ctx, path, query, &body); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	rows := make([]provider.StatementRow, 0, len(body.Statements))
	for _, e := range body.Statements {
		values := make(map[model.Field]*float64)
		putIfSet(values, model.FieldRevenue, e.Revenue)
		putIfSet(values, model.FieldGrossProfit, e.GrossProfit)
		putIfSet(values, model.FieldOperatingIncome, e.OperatingIncome)
		putIfSet(values, model.FieldNetIncome, e.NetIncome)
		putIfSet(values, model.FieldEBITDA, e.EBITDA)
		putIfSet(values, model.FieldInterestExpense, e.InterestExpense)
		putIfSet(values, model.FieldTotalAssets, e.TotalAssets)
		putIfSet(values, model.FieldTotalLiabilities, e.TotalLiabilities)
		putIfSet(values, model.FieldTotalEquity, e.TotalEquity)
		putIfSet(values, model.FieldCurrentAssets, e.CurrentAssets)
		putIfSet(values, model.FieldCurrentLiabilities, e.CurrentLiabilities)
		putIfSet(values, model.FieldInventory, e.Inventory)
		putIfSet(values, model.FieldCash, e.CashAndEquivalents)
		putIfSet(values, model.FieldOperatingCashFlow, e.OperatingCashFlow)
		putIfSet(values, model.FieldFreeCashFlow, e.FreeCashFlow)
		rows = append(rows, provider.StatementRow{ReportDate: e.ReportDate, Values: values})
	}
	return rows, nil
}

func putIfSet(values map[model.Field]*float64, f model.Field, v *float64) {
	if v != nil {
		values[f] = v
	}
}

type snapshotEntry struct {
	Currency          string   `json:"currency"`
	MarketCap         *float64 `json:"marketCap"`
	EnterpriseValue   *float64 `json:"enterpriseValue"`
	PERatio           *float64 `json:"peRatio"`
	PBRatio           *float64 `json:"pbRatio"`
	PSRatio           *float64 `json:"psRatio"`
	EVToEBITDA        *float64 `json:"evToEbitda"`
	EVToRevenue       *float64 `json:"evToRevenue"`
	PayoutRatio       *float64 `json:"payoutRatio"`
	EPS               *float64 `json:"eps"`
	BookValuePerShare *float64 `json:"bookValuePerShare"`
	SharesOutstanding *float64 `json:"sharesOutstanding"`
}

type snapshotResponse struct {
	Snapshot *snapshotEntry `json:"snapshot"`
}

// GetSnapshot retrieves the current market snapshot for a ticker, or nil
// when the ticker is unknown.
func (c *Client) GetSnapshot(ctx context.Context, ticker string) (*provider.Snapshot, error) {
	query := url.Values{}
	query.Set("ticker", ticker)

	var body snapshotResponse
	if err := c.getJSON(ctx, "/v1/snapshot", query, &body); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if body.Snapshot == nil {
		return nil, nil
	}

	e := body.Snapshot
	return &provider.Snapshot{
		Currency:            e.Currency,
		MarketCap:           e.MarketCap,
		EnterpriseValue:     e.EnterpriseValue,
		PERatio:             e.PERatio,
		PBRatio:             e.PBRatio,
		PSRatio:             e.PSRatio,
		EVToEBITDA:          e.EVToEBITDA,
		EVToRevenue:         e.EVToRevenue,
		DividendPayoutRatio: e.PayoutRatio,
		EPS:                 e.EPS,
		BookValuePerShare:   e.BookValuePerShare,
		TotalShares:         e.SharesOutstanding,
	}, nil
}
