package dialog

import (
	"fmt"

	"coverage-bot/internal/catalog"
)

var backOption = Option{Label: "⬅️ К выбору товара", Payload: PayloadBack}

func (m *Machine) productOptions() []Option {
	products := m.catalog.Products()
	opts := make([]Option, 0, len(products))
	for i, p := range products {
		opts = append(opts, Option{
			Label:   fmt.Sprintf("%d) %s", i+1, p.Button),
			Payload: PayloadProduct + p.ID,
		})
	}
	return opts
}

func wasteOptions() []Option {
	return []Option{
		{Label: "Да, +10%", Payload: PayloadWaste10},
		{Label: "Без запаса", Payload: PayloadNoWaste},
		backOption,
	}
}

func inputModeOptions() []Option {
	return []Option{
		{Label: "📏 Знаю общую площадь", Payload: PayloadModeTotal},
		{Label: "📐 Посчитать по поверхностям", Payload: PayloadModeSurfaces},
		backOption,
	}
}

func surfaceOptions() []Option {
	return []Option{
		{Label: "➕ Добавить ещё", Payload: PayloadSurfaceAdd},
		{Label: "✅ Готово", Payload: PayloadSurfaceFinish},
		{Label: "🗑 Очистить список", Payload: PayloadSurfaceClear},
		backOption,
	}
}

func sidesOptions() []Option {
	return []Option{
		{Label: "1 сторона", Payload: PayloadSides1},
		{Label: "2 стороны", Payload: PayloadSides2},
	}
}

func openingsQuestionOptions() []Option {
	return []Option{
		{Label: "Да, вычесть", Payload: PayloadOpeningsYes},
		{Label: "Нет", Payload: PayloadOpeningsNo},
	}
}

func (m *Machine) openingOptions() []Option {
	presets := m.catalog.Presets()
	opts := make([]Option, 0, len(presets)+5)
	for _, p := range presets {
		icon := "🚪"
		if p.Kind == catalog.OpeningWindow {
			icon = "🪟"
		}
		opts = append(opts, Option{Label: icon + " " + p.Label, Payload: PayloadOpeningPreset + p.ID})
	}
	return append(opts,
		Option{Label: "✏️ Дверь вручную", Payload: PayloadOpeningManual + string(catalog.OpeningDoor)},
		Option{Label: "✏️ Окно вручную", Payload: PayloadOpeningManual + string(catalog.OpeningWindow)},
		Option{Label: "🗑 Очистить проёмы", Payload: PayloadOpeningClear},
		Option{Label: "✅ Готово", Payload: PayloadOpeningFinish},
	)
}

func priceQuestionOptions() []Option {
	return []Option{
		{Label: "💰 Да", Payload: PayloadPriceYes},
		{Label: "Нет, спасибо", Payload: PayloadPriceNo},
	}
}

// keyboardFor repeats the buttons of a state that only accepts selections.
func (m *Machine) keyboardFor(s Session) ([]Option, int) {
	switch s.CurrentState() {
	case StateChooseProduct:
		return m.productOptions(), 1
	case StateChooseWaste:
		return wasteOptions(), 1
	case StateChooseInputMode:
		return inputModeOptions(), 1
	case StateWaitingSurfaceSides:
		return sidesOptions(), 2
	case StateAskOpenings:
		return openingsQuestionOptions(), 2
	case StateWaitingOpeningType:
		return m.openingOptions(), 2
	case StateWaitingAskPrice:
		return priceQuestionOptions(), 2
	default:
		return nil, 0
	}
}
