package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"coverage-bot/internal/dialog"
)

type Options struct {
	// History may be nil.
	History    History
	AdminIDs   []int64
	ReportsDir string
	// Workers is the number of dispatch shards. Each chat always lands on the same shard.
	Workers int
	Now     func() time.Time
}

type Bot struct {
	api      Sender
	machine  *dialog.Machine
	sessions SessionStore
	history  History
	logger   *zap.Logger

	admins     map[int64]struct{}
	reportsDir string
	workers    int
	now        func() time.Time
}

func New(api Sender, machine *dialog.Machine, sessions SessionStore, logger *zap.Logger, opts Options) *Bot {
	b := &Bot{
		api:        api,
		machine:    machine,
		sessions:   sessions,
		history:    opts.History,
		logger:     logger,
		admins:     make(map[int64]struct{}, len(opts.AdminIDs)),
		reportsDir: opts.ReportsDir,
		workers:    opts.Workers,
		now:        opts.Now,
	}
	for _, id := range opts.AdminIDs {
		b.admins[id] = struct{}{}
	}
	if b.workers < 1 {
		b.workers = 1
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.reportsDir == "" {
		b.reportsDir = "reports"
	}
	return b
}

// Run dispatches updates until ctx is cancelled or updates is closed.
// Updates of one chat are handled in arrival order; different chats run in parallel.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	b.logger.Info("Starting bot", zap.Int("workers", b.workers))

	shards := make([]chan tgbotapi.Update, b.workers)
	for i := range shards {
		shards[i] = make(chan tgbotapi.Update, 64)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range shards {
		shard := shards[i]
		g.Go(func() error {
			for update := range shard {
				b.HandleUpdate(gctx, update)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, shard := range shards {
				close(shard)
			}
		}()
		for {
			select {
			case <-gctx.Done():
				b.logger.Info("Shutting down bot")
				return nil
			case update, ok := <-updates:
				if !ok {
					return nil
				}
				chatID, ok := updateChatID(update)
				if !ok {
					continue
				}
				select {
				case shards[shardFor(chatID, b.workers)] <- update:
				case <-gctx.Done():
					return nil
				}
			}
		}
	})

	return g.Wait()
}

// HandleUpdate processes one update synchronously.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.processMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.processCallback(ctx, update.CallbackQuery)
	}
}

func updateChatID(update tgbotapi.Update) (int64, bool) {
	if chat := update.FromChat(); chat != nil {
		return chat.ID, true
	}
	return 0, false
}

func shardFor(chatID int64, n int) int {
	s := chatID % int64(n)
	if s < 0 {
		s = -s
	}
	return int(s)
}

func (b *Bot) isAdmin(chatID int64) bool {
	_, ok := b.admins[chatID]
	return ok
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendText(chatID, "❌ "+text)
}

func (b *Bot) answerCallback(id, text string, alert bool) {
	cb := tgbotapi.NewCallback(id, text)
	if alert {
		cb = tgbotapi.NewCallbackWithAlert(id, text)
	}
	if _, err := b.api.Request(cb); err != nil {
		b.logger.Warn("Failed to answer callback", zap.String("callback_id", id), zap.Error(err))
	}
}
