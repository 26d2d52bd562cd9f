package dialog

import "strings"

func (m *Machine) welcomeText() string {
	var b strings.Builder
	b.WriteString("✨ Самоклеящиеся покрытия и напольные материалы\n\n")
	b.WriteString("Не знаете, сколько материала нужно? Я рассчитаю всё за вас:\n\n")
	for _, p := range m.catalog.Products() {
		if p.All {
			continue
		}
		b.WriteString("✔ " + p.Title + "\n")
	}
	b.WriteString("✔ автоматический подбор упаковок\n")
	b.WriteString("✔ учёт дверей и окон\n")
	b.WriteString("✔ запас 10% на подрезку\n")
	b.WriteString("✔ расчёт стоимости в ₽\n\n")
	b.WriteString("Выберите, что будем считать 👇")
	return b.String()
}

// HelpText explains the flow for /help.
func HelpText() string {
	return strings.Join([]string{
		"Как пользоваться ботом:",
		"1. Выберите товар.",
		"2. Введите общую площадь или добавьте поверхности по размерам в см.",
		"3. При необходимости вычтите двери и окна.",
		"4. Получите количество упаковок и, по желанию, стоимость.",
		"",
		"Дробные числа можно писать через точку или запятую.",
		"/start: начать заново",
	}, "\n")
}
