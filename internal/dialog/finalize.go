package dialog

import (
	"fmt"
	"math"
	"strings"

	"coverage-bot/internal/area"
	"coverage-bot/internal/calc"
	"coverage-bot/internal/format"
)

// Finalize subtracts openings, runs the pack calculation and caches the result.
// The surfaces and openings are consumed. A zero net area resets the session.
func (m *Machine) Finalize(s Session) (Session, Response) {
	if s.BaseArea == nil {
		return s, Response{Text: "Сначала укажите площадь.", Notice: true, Err: ErrEmptyAccumulator}
	}

	openings := s.Area.OpeningsTotal()
	net := area.NetArea(*s.BaseArea, openings)
	if net <= 0 {
		next, resp := m.Menu("⚠️ Проёмы занимают всю площадь, считать нечего.\n\nВыберите товар:")
		resp.Err = ErrZeroNetArea
		return next, resp
	}

	res, err := calc.Calculate(m.catalog, s.ProductID, net, s.Reserve)
	if err != nil {
		next, resp := m.Menu("Этот товар больше недоступен. Выберите товар:")
		resp.Err = fmt.Errorf("%w: %w", ErrUnknownSelection, err)
		return next, resp
	}

	text := renderResult(s.Area, *s.BaseArea, openings, res)

	s = s.Clone()
	s.Result = &res
	s.EstimateID = m.newID()
	s.Area = area.Accumulator{}
	s.PendingSurface = nil
	s.PendingOpening = nil
	s.Prices = nil
	s.State = StateWaitingAskPrice
	return s, Response{
		Text:      text + "\n\nРассчитать стоимость в рублях?",
		Options:   priceQuestionOptions(),
		Columns:   2,
		Finalized: true,
	}
}

func reserveLabel(reserve float64) string {
	if reserve <= 0 {
		return "Без запаса"
	}
	return fmt.Sprintf("Запас: %d%%", int(math.Round(reserve*100)))
}

func renderResult(acc area.Accumulator, base, openings float64, res calc.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 %s\n\n", res.Title)
	if len(acc.Surfaces) > 0 {
		b.WriteString(acc.SurfacesSummary() + "\n\n")
	}
	if len(acc.Openings) > 0 {
		b.WriteString(acc.OpeningsSummary() + "\n\n")
	}

	fmt.Fprintf(&b, "Площадь: %s м²\n", format.Number(base))
	if openings > 0 {
		fmt.Fprintf(&b, "Минус проёмы: %s м²\n", format.Number(openings))
		fmt.Fprintf(&b, "Чистая площадь: %s м²\n", format.Number(res.NetArea))
	}
	fmt.Fprintf(&b, "%s, к расчёту: %s м²\n\n", reserveLabel(res.Reserve), format.Number(res.TargetArea))

	switch res.Kind {
	case calc.KindSingle:
		fmt.Fprintf(&b, "Нужно: %d %s (покрывают %s м²)",
			res.Single.Count, res.Single.PackUnit, format.Number(res.Single.Covered))
	case calc.KindAutoPick:
		b.WriteString("Варианты упаковки:\n")
		for _, v := range res.AutoPick.Variants {
			fmt.Fprintf(&b, "• %s: %d %s (%s м², излишек %s м²)\n",
				v.Label, v.Count, v.PackUnit, format.Number(v.Covered), format.Number(v.Overage))
		}
		best := res.AutoPick.Best()
		fmt.Fprintf(&b, "\n✅ Рекомендуем: %s, %d %s", best.Label, best.Count, best.PackUnit)
	case calc.KindAll:
		b.WriteString("Необходимое количество:")
		for _, l := range res.All.Lines {
			fmt.Fprintf(&b, "\n• %s: %d %s", l.Label, l.Count, l.PackUnit)
		}
	}
	return b.String()
}
