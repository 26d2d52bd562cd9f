package bot

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"coverage-bot/internal/calc"
	"coverage-bot/internal/dialog"
	"coverage-bot/internal/metrics"
	"coverage-bot/internal/storage"
)

// record updates metrics and the estimate history after an event.
// History failures are logged and never reach the user.
func (b *Bot) record(ctx context.Context, chatID int64, prev, next dialog.Session, resp dialog.Response) {
	if errors.Is(resp.Err, dialog.ErrZeroNetArea) {
		metrics.RecordZeroAreaAbort()
	}

	switch {
	case resp.Finalized && next.Result != nil:
		metrics.RecordCalculation(next.Result.ProductID, string(next.Result.Kind))
		b.saveEstimate(ctx, chatID, prev, next)
	case resp.Quote != nil:
		metrics.RecordQuote(string(calc.KindSingle))
		b.updateCost(ctx, prev.EstimateID, resp.Quote.Total)
	case resp.AllQuote != nil:
		metrics.RecordQuote(string(calc.KindAll))
		b.updateCost(ctx, prev.EstimateID, min(resp.AllQuote.TotalIf10, resp.AllQuote.TotalIf18))
	}
}

func (b *Bot) saveEstimate(ctx context.Context, chatID int64, prev, next dialog.Session) {
	if b.history == nil {
		return
	}
	e, err := storage.NewEstimate(
		next.EstimateID,
		chatID,
		string(b.machine.Catalog().Revision()),
		*next.Result,
		len(prev.Area.Surfaces),
		len(prev.Area.Openings),
		b.now(),
	)
	if err == nil {
		err = b.history.SaveEstimate(ctx, e)
	}
	if err != nil {
		b.logger.Error("Failed to save estimate",
			zap.Int64("chat_id", chatID),
			zap.String("estimate_id", next.EstimateID),
			zap.Error(err))
	}
}

func (b *Bot) updateCost(ctx context.Context, estimateID string, total float64) {
	if b.history == nil || estimateID == "" {
		return
	}
	if err := b.history.UpdateEstimateCost(ctx, estimateID, total, b.now()); err != nil {
		b.logger.Error("Failed to update estimate cost",
			zap.String("estimate_id", estimateID),
			zap.Error(err))
	}
}
