package dialog

import (
	"fmt"
	"strings"

	"coverage-bot/internal/calc"
	"coverage-bot/internal/format"
	"coverage-bot/internal/pricing"
)

const newCalculationPrompt = "Новый расчёт: выберите товар 👇"

// allPricePrompts follow the line order of calc.All.
var allPricePrompts = [pricing.AllPricesCount]string{
	"Введите цену за 1 рулон плёнки 60×3 м, ₽:",
	"Введите цену за 1 упаковку панелей 30×30 (20 шт/уп), ₽:",
	"Введите цену за 1 упаковку панелей 30×60 (10 шт/уп), ₽:",
	"Введите цену за 1 упаковку панелей 30×60 (18 шт/уп), ₽:",
}

func (m *Machine) askPrice(s Session, ev Event) (Session, Response) {
	switch ev.Payload {
	case PayloadPriceNo:
		return m.Menu("Готово ✅\n\n" + newCalculationPrompt)
	case PayloadPriceYes:
	default:
		return s, unknownSelection()
	}

	if s.Result == nil {
		return s, noResult()
	}
	if s.Result.Kind == calc.KindAll {
		s.Prices = nil
		s.State = StateWaitingPriceAll
		return s, Response{Text: allPricePrompts[0]}
	}

	s.State = StateWaitingPriceSingle
	if _, label := s.Result.RecommendedCount(); label != "" {
		return s, Response{Text: fmt.Sprintf("Введите цену за 1 упаковку (%s) в ₽, например: 790", label)}
	}
	return s, Response{Text: "Введите цену за 1 рулон или упаковку в ₽, например: 790"}
}

func (m *Machine) priceSingle(s Session, ev Event) (Session, Response) {
	if s.Result == nil {
		return s, noResult()
	}
	v, err := parsePositive(ev.Text)
	if err != nil {
		return s, invalid("Введите цену числом больше нуля, например: 790", err)
	}
	q, err := pricing.QuoteSingle(s.Result, v)
	if err != nil {
		return s, invalid("Не удалось рассчитать стоимость. Попробуйте ещё раз.", fmt.Errorf("%w: %w", ErrValidation, err))
	}

	var b strings.Builder
	b.WriteString("💰 Стоимость")
	if q.Label != "" {
		fmt.Fprintf(&b, " (%s)", q.Label)
	}
	fmt.Fprintf(&b, ":\n%d × %s = %s\n\n%s", q.Count, format.Money(q.UnitPrice), format.Money(q.Total), newCalculationPrompt)

	next, resp := m.Menu(b.String())
	resp.Quote = &q
	return next, resp
}

func (m *Machine) priceAll(s Session, ev Event) (Session, Response) {
	if s.Result == nil {
		return s, noResult()
	}
	v, err := parsePositive(ev.Text)
	if err != nil {
		return s, invalid("Введите цену числом больше нуля, например: 850", err)
	}
	s.Prices = append(s.Prices, v)
	if len(s.Prices) < pricing.AllPricesCount {
		return s, Response{Text: allPricePrompts[len(s.Prices)]}
	}

	q, err := pricing.QuoteAll(s.Result, s.Prices)
	if err != nil {
		next, resp := m.Menu("Не удалось рассчитать стоимость. " + newCalculationPrompt)
		resp.Err = fmt.Errorf("%w: %w", ErrValidation, err)
		return next, resp
	}

	var b strings.Builder
	b.WriteString("💰 Стоимость:\n")
	for _, l := range q.Lines {
		fmt.Fprintf(&b, "• %s: %d × %s = %s\n", l.Label, l.Count, format.Money(l.Price), format.Money(l.Total))
	}
	fmt.Fprintf(&b, "\nИтого с панелями 30×60 (10 шт/уп): %s", format.Money(q.TotalIf10))
	fmt.Fprintf(&b, "\nИтого с панелями 30×60 (18 шт/уп): %s", format.Money(q.TotalIf18))
	b.WriteString("\n\n" + newCalculationPrompt)

	next, resp := m.Menu(b.String())
	resp.AllQuote = &q
	return next, resp
}

func noResult() Response {
	return Response{Text: "Сначала выполните расчёт количества.", Notice: true, Err: ErrEmptyAccumulator}
}
