package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"coverage-bot/internal/dialog"
	"coverage-bot/internal/storage"
)

// Sender is the part of tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// SessionStore keeps one dialog session per chat.
type SessionStore interface {
	Get(ctx context.Context, chatID int64) (dialog.Session, error)
	Save(ctx context.Context, chatID int64, sess dialog.Session) error
	// Drop forgets the chat's session; the next Get returns a fresh one.
	Drop(ctx context.Context, chatID int64) error
}

// History records finalized estimates. It is optional.
type History interface {
	SaveEstimate(ctx context.Context, e storage.Estimate) error
	UpdateEstimateCost(ctx context.Context, id string, totalCost float64, pricedAt time.Time) error
	GetStatistics(ctx context.Context) (*storage.Statistics, error)
	ExportEstimatesToExcel(ctx context.Context, dir string, now time.Time) (string, error)
}

var _ Sender = (*tgbotapi.BotAPI)(nil)
var _ History = (*storage.PostgresStorage)(nil)
