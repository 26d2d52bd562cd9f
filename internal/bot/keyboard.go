package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"coverage-bot/internal/dialog"
)

// inlineKeyboard lays options out in rows of cols buttons.
func inlineKeyboard(opts []dialog.Option, cols int) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(opts) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	if cols < 1 {
		cols = 1
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, (len(opts)+cols-1)/cols)
	for i := 0; i < len(opts); i += cols {
		end := min(i+cols, len(opts))
		row := make([]tgbotapi.InlineKeyboardButton, 0, end-i)
		for _, o := range opts[i:end] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(o.Label, o.Payload))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
