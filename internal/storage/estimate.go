package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"coverage-bot/internal/calc"
)

// Estimate is one finalized calculation. TotalCost stays nil until the user prices it.
type Estimate struct {
	ID              string     `db:"id"`
	ChatID          int64      `db:"chat_id"`
	CatalogRevision string     `db:"catalog_revision"`
	ProductID       string     `db:"product_id"`
	Title           string     `db:"title"`
	Kind            string     `db:"kind"`
	NetArea         float64    `db:"net_area"`
	TargetArea      float64    `db:"target_area"`
	Reserve         float64    `db:"reserve"`
	PackCount       int        `db:"pack_count"`
	PackLabel       string     `db:"pack_label"`
	Surfaces        int        `db:"surfaces"`
	Openings        int        `db:"openings"`
	Details         []byte     `db:"details"`
	TotalCost       *float64   `db:"total_cost"`
	CreatedAt       time.Time  `db:"created_at"`
	PricedAt        *time.Time `db:"priced_at"`
}

// NewEstimate flattens a result into a row. The full result is kept as JSON in Details.
func NewEstimate(id string, chatID int64, revision string, res calc.Result, surfaces, openings int, now time.Time) (Estimate, error) {
	details, err := json.Marshal(res)
	if err != nil {
		return Estimate{}, fmt.Errorf("marshal result: %w", err)
	}
	count, label := res.RecommendedCount()
	return Estimate{
		ID:              id,
		ChatID:          chatID,
		CatalogRevision: revision,
		ProductID:       res.ProductID,
		Title:           res.Title,
		Kind:            string(res.Kind),
		NetArea:         res.NetArea,
		TargetArea:      res.TargetArea,
		Reserve:         res.Reserve,
		PackCount:       count,
		PackLabel:       label,
		Surfaces:        surfaces,
		Openings:        openings,
		Details:         details,
		CreatedAt:       now,
	}, nil
}

// Statistics summarizes the estimate history for admins.
type Statistics struct {
	Total     int            `db:"total" json:"total"`
	Today     int            `db:"today" json:"today"`
	Priced    int            `db:"priced" json:"priced"`
	Revenue   float64        `db:"revenue" json:"revenue"`
	ByProduct map[string]int `db:"-" json:"by_product"`
}
