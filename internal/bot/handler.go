package bot

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"coverage-bot/internal/dialog"
	"coverage-bot/internal/metrics"
)

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, msg.Command())
		return
	}

	if resp, ok := b.dispatch(ctx, chatID, dialog.TextEvent(msg.Text)); ok {
		b.render(chatID, resp)
	}
}

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		b.answerCallback(callback.ID, "", false)
		return
	}
	chatID := callback.Message.Chat.ID

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", callback.Data))

	resp, ok := b.dispatch(ctx, chatID, dialog.SelectionEvent(callback.Data))
	if !ok {
		b.answerCallback(callback.ID, "", false)
		return
	}
	if resp.Notice {
		b.answerCallback(callback.ID, resp.Text, true)
		return
	}
	b.answerCallback(callback.ID, "", false)
	b.render(chatID, resp)
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command string) {
	switch command {
	case "start":
		b.handleStart(ctx, chatID)
	case "help":
		b.sendText(chatID, dialog.HelpText())
	case "stats", "export":
		if !b.isAdmin(chatID) {
			b.handleUnknownCommand(chatID)
			return
		}
		b.handleAdminCommand(ctx, chatID, command)
	default:
		b.handleUnknownCommand(chatID)
	}
}

func (b *Bot) handleUnknownCommand(chatID int64) {
	b.sendText(chatID, "Неизвестная команда. Нажмите /start, чтобы начать расчёт, или /help для справки.")
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	_, resp := b.machine.Start()
	if err := b.sessions.Drop(ctx, chatID); err != nil {
		b.logger.Error("Failed to reset session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Ошибка при обработке запроса")
		return
	}
	b.render(chatID, resp)
}

// dispatch runs one event through the state machine and persists the result.
// It reports false when the session could not be loaded.
func (b *Bot) dispatch(ctx context.Context, chatID int64, ev dialog.Event) (dialog.Response, bool) {
	start := time.Now()

	prev, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Ошибка при обработке запроса")
		return dialog.Response{}, false
	}

	next, resp := b.machine.HandleEvent(prev, ev)

	if err := b.sessions.Save(ctx, chatID, next); err != nil {
		b.logger.Error("Failed to save session",
			zap.Int64("chat_id", chatID),
			zap.String("state", string(next.State)),
			zap.Error(err))
	}

	if resp.Err != nil {
		b.logger.Info("Event rejected",
			zap.Int64("chat_id", chatID),
			zap.String("state", string(prev.CurrentState())),
			zap.String("event", ev.Kind.String()),
			zap.Error(resp.Err))
	}

	b.record(ctx, chatID, prev, next, resp)
	metrics.RecordEvent(string(prev.CurrentState()), outcome(resp.Err), time.Since(start))
	return resp, true
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, dialog.ErrValidation):
		return "validation"
	case errors.Is(err, dialog.ErrUnknownSelection):
		return "unknown_selection"
	case errors.Is(err, dialog.ErrEmptyAccumulator):
		return "empty"
	case errors.Is(err, dialog.ErrZeroNetArea):
		return "zero_area"
	default:
		return "error"
	}
}

func (b *Bot) render(chatID int64, resp dialog.Response) {
	if resp.Text == "" {
		return
	}
	msg := tgbotapi.NewMessage(chatID, resp.Text)
	if markup, ok := inlineKeyboard(resp.Options, resp.Columns); ok {
		msg.ReplyMarkup = markup
	}
	b.sendMessage(msg)
}
