package pricing

import (
	"errors"
	"fmt"

	"coverage-bot/internal/calc"
)

var (
	ErrNoResult         = errors.New("no pack count result to price")
	ErrNonPositivePrice = errors.New("price must be positive")
	ErrWrongMode        = errors.New("result kind does not match pricing mode")
)

// AllPricesCount is how many unit prices the all-products flow collects.
const AllPricesCount = 4

// Quote prices the recommended count of a single or auto-pick result.
type Quote struct {
	Label     string  `json:"label,omitempty"`
	Count     int     `json:"count"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

type LineCost struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Price float64 `json:"price"`
	Total float64 `json:"total"`
}

// AllQuote lists the four line totals and one grand total per 30×60 pack size.
type AllQuote struct {
	Lines     []LineCost `json:"lines"`
	TotalIf10 float64    `json:"total_if_10"`
	TotalIf18 float64    `json:"total_if_18"`
}

// QuoteSingle multiplies the recommended count by unit price. For auto-pick
// results only the best variant is priced.
func QuoteSingle(res *calc.Result, unitPrice float64) (Quote, error) {
	if res == nil {
		return Quote{}, ErrNoResult
	}
	if unitPrice <= 0 {
		return Quote{}, ErrNonPositivePrice
	}
	if res.Kind != calc.KindSingle && res.Kind != calc.KindAutoPick {
		return Quote{}, fmt.Errorf("%w: %s", ErrWrongMode, res.Kind)
	}

	count, label := res.RecommendedCount()
	return Quote{
		Label:     label,
		Count:     count,
		UnitPrice: unitPrice,
		Total:     float64(count) * unitPrice,
	}, nil
}

// QuoteAll prices the legacy all-products result. prices follow the line order
// film, 30×30, 30×60 (10), 30×60 (18).
func QuoteAll(res *calc.Result, prices []float64) (AllQuote, error) {
	if res == nil {
		return AllQuote{}, ErrNoResult
	}
	if res.Kind != calc.KindAll || res.All == nil || len(res.All.Lines) != AllPricesCount {
		return AllQuote{}, fmt.Errorf("%w: %s", ErrWrongMode, res.Kind)
	}
	if len(prices) != AllPricesCount {
		return AllQuote{}, fmt.Errorf("expected %d prices, got %d", AllPricesCount, len(prices))
	}

	q := AllQuote{Lines: make([]LineCost, 0, AllPricesCount)}
	for i, line := range res.All.Lines {
		if prices[i] <= 0 {
			return AllQuote{}, fmt.Errorf("line %d: %w", i+1, ErrNonPositivePrice)
		}
		q.Lines = append(q.Lines, LineCost{
			Label: line.Label,
			Count: line.Count,
			Price: prices[i],
			Total: float64(line.Count) * prices[i],
		})
	}

	common := q.Lines[0].Total + q.Lines[1].Total
	q.TotalIf10 = common + q.Lines[2].Total
	q.TotalIf18 = common + q.Lines[3].Total
	return q, nil
}
