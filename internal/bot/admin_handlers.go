package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"coverage-bot/internal/format"
	"coverage-bot/internal/storage"
)

func (b *Bot) handleAdminCommand(ctx context.Context, chatID int64, cmd string) {
	if b.history == nil {
		b.sendError(chatID, "История расчётов отключена")
		return
	}

	switch cmd {
	case "stats":
		b.handleStats(ctx, chatID)
	case "export":
		b.handleExport(ctx, chatID)
	}
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	stats, err := b.history.GetStatistics(ctx)
	if err != nil {
		b.logger.Error("Failed to get statistics", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendError(chatID, "Не удалось получить статистику")
		return
	}
	b.sendText(chatID, formatStatistics(stats, b.productTitle))
}

func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	path, err := b.history.ExportEstimatesToExcel(ctx, b.reportsDir, b.now())
	if err != nil {
		b.logger.Error("Failed to export estimates", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendError(chatID, "Не удалось выгрузить расчёты")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = "📊 Все расчёты"
	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error("Failed to send export",
			zap.Int64("chat_id", chatID),
			zap.String("path", path),
			zap.Error(err))
		b.sendError(chatID, "Не удалось отправить файл")
	}
}

func (b *Bot) productTitle(id string) string {
	if p, ok := b.machine.Catalog().Product(id); ok {
		return p.Button
	}
	return id
}

func formatStatistics(stats *storage.Statistics, title func(string) string) string {
	lines := []string{
		"📈 Статистика расчётов",
		"",
		fmt.Sprintf("Всего: %d", stats.Total),
		fmt.Sprintf("Сегодня: %d", stats.Today),
		fmt.Sprintf("С расчётом стоимости: %d", stats.Priced),
		fmt.Sprintf("Сумма оценок: %s", format.Money(stats.Revenue)),
	}

	if len(stats.ByProduct) > 0 {
		ids := make([]string, 0, len(stats.ByProduct))
		for id := range stats.ByProduct {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		lines = append(lines, "", "По товарам:")
		for _, id := range ids {
			lines = append(lines, fmt.Sprintf("• %s: %d", title(id), stats.ByProduct[id]))
		}
	}
	return strings.Join(lines, "\n")
}
