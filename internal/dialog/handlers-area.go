package dialog

import (
	"fmt"
	"strings"

	"coverage-bot/internal/area"
	"coverage-bot/internal/catalog"
	"coverage-bot/internal/format"
)

const (
	inputModePrompt    = "Как будем считать площадь?"
	totalAreaPrompt    = "Введите общую площадь в м² (например: 12.5):"
	surfaceNamePrompt  = "Введите название поверхности (например: Стол, Полка 1, Дверца шкафа):"
	askOpeningsPrompt  = "Нужно вычесть двери или окна?"
	openingsPickPrompt = "Выберите проём из списка или введите размеры вручную. Когда закончите, нажмите «Готово»."
)

func (m *Machine) chooseProduct(s Session, ev Event) (Session, Response) {
	p, ok := m.catalog.Product(strings.TrimPrefix(ev.Payload, PayloadProduct))
	if !ok {
		return s, unknownSelection()
	}

	next := Session{State: StateChooseInputMode, ProductID: p.ID, Reserve: p.DefaultReserve}
	if p.ReserveToggle {
		next.State = StateChooseWaste
		return next, Response{
			Text:    fmt.Sprintf("Вы выбрали: %s\n\nДобавить запас 10%% на подрезку и стыки?", p.Title),
			Options: wasteOptions(),
		}
	}
	return next, Response{
		Text:    fmt.Sprintf("Вы выбрали: %s\n\n%s", p.Title, inputModePrompt),
		Options: inputModeOptions(),
	}
}

func (m *Machine) chooseWaste(s Session, ev Event) (Session, Response) {
	switch ev.Payload {
	case PayloadWaste10:
		s.Reserve = catalog.DefaultReserve
	case PayloadNoWaste:
		s.Reserve = 0
	default:
		return s, unknownSelection()
	}
	s.State = StateChooseInputMode
	return s, Response{
		Text:    fmt.Sprintf("%s\n\n%s", reserveLabel(s.Reserve), inputModePrompt),
		Options: inputModeOptions(),
	}
}

func (m *Machine) chooseInputMode(s Session, ev Event) (Session, Response) {
	switch ev.Payload {
	case PayloadModeTotal:
		s.State = StateWaitingTotalArea
		return s, Response{Text: totalAreaPrompt, Options: []Option{backOption}}
	case PayloadModeSurfaces:
		s.State = StateWaitingSurfaceName
		return s, Response{Text: surfaceNamePrompt, Options: []Option{backOption}}
	default:
		return s, unknownSelection()
	}
}

func (m *Machine) totalArea(s Session, ev Event) (Session, Response) {
	v, err := parsePositive(ev.Text)
	if err != nil {
		return s, invalid("Введите площадь числом больше нуля, например: 12.5", err)
	}
	s.BaseArea = ptr(v)
	s.State = StateAskOpenings
	return s, Response{
		Text:    fmt.Sprintf("Площадь: %s м²\n\n%s", format.Number(v), askOpeningsPrompt),
		Options: openingsQuestionOptions(),
		Columns: 2,
	}
}

func (m *Machine) surfaceName(s Session, ev Event) (Session, Response) {
	name := strings.TrimSpace(ev.Text)
	if name == "" {
		return s, invalid("Название не может быть пустым. "+surfaceNamePrompt, fmt.Errorf("%w: %w", ErrValidation, area.ErrEmptyName))
	}
	s.PendingSurface = &PendingSurface{Name: name}
	s.State = StateWaitingSurfaceLength
	return s, Response{Text: fmt.Sprintf("«%s»: введите длину в см (например: 120):", name)}
}

func (m *Machine) surfaceLength(s Session, ev Event) (Session, Response) {
	if s.PendingSurface == nil {
		return lostSurface(s)
	}
	v, err := parsePositive(ev.Text)
	if err != nil {
		return s, invalid("Введите длину в см числом больше нуля, например: 120", err)
	}
	s.PendingSurface.LengthCM = ptr(v)
	s.State = StateWaitingSurfaceWidth
	return s, Response{Text: "Введите ширину в см (например: 60):"}
}

func (m *Machine) surfaceWidth(s Session, ev Event) (Session, Response) {
	if s.PendingSurface == nil || s.PendingSurface.LengthCM == nil {
		return lostSurface(s)
	}
	v, err := parsePositive(ev.Text)
	if err != nil {
		return s, invalid("Введите ширину в см числом больше нуля, например: 60", err)
	}
	s.PendingSurface.WidthCM = ptr(v)
	s.State = StateWaitingSurfaceSides
	return s, Response{Text: "Сколько сторон оклеивать?", Options: sidesOptions(), Columns: 2}
}

func (m *Machine) surfaceSides(s Session, ev Event) (Session, Response) {
	var sides int
	switch ev.Payload {
	case PayloadSides1:
		sides = 1
	case PayloadSides2:
		sides = 2
	default:
		return s, unknownSelection()
	}

	ps := s.PendingSurface
	if ps == nil || ps.LengthCM == nil || ps.WidthCM == nil {
		return lostSurface(s)
	}
	added, err := s.Area.AddSurface(ps.Name, *ps.LengthCM, *ps.WidthCM, sides)
	if err != nil {
		return lostSurface(s)
	}
	s.PendingSurface = nil
	s.State = StateWaitingSurfaceName
	return s, Response{
		Text: fmt.Sprintf("✅ Добавлено: %s, %s м²\n\n%s\n\nВведите название следующей поверхности или выберите действие:",
			added.Name, format.Number(added.Area()), s.Area.SurfacesSummary()),
		Options: surfaceOptions(),
	}
}

func (m *Machine) surfaceAction(s Session, ev Event) (Session, Response) {
	switch ev.Payload {
	case PayloadSurfaceAdd:
		return s, Response{Text: surfaceNamePrompt}
	case PayloadSurfaceClear:
		s.Area.ClearSurfaces()
		return s, Response{Text: "🗑 Список поверхностей очищен.\n\n" + surfaceNamePrompt, Options: []Option{backOption}}
	case PayloadSurfaceFinish:
		if len(s.Area.Surfaces) == 0 {
			return s, Response{Text: "Сначала добавьте хотя бы одну поверхность.", Notice: true, Err: ErrEmptyAccumulator}
		}
		s.BaseArea = ptr(s.Area.SurfacesTotal())
		s.State = StateAskOpenings
		return s, Response{
			Text:    s.Area.SurfacesSummary() + "\n\n" + askOpeningsPrompt,
			Options: openingsQuestionOptions(),
			Columns: 2,
		}
	default:
		return s, unknownSelection()
	}
}

// lostSurface restarts the surface entry when the partial surface is missing.
func lostSurface(s Session) (Session, Response) {
	s.PendingSurface = nil
	s.State = StateWaitingSurfaceName
	return s, Response{Text: "Начнём эту поверхность заново. " + surfaceNamePrompt, Err: ErrEmptyAccumulator}
}

func (m *Machine) askOpenings(s Session, ev Event) (Session, Response) {
	switch ev.Payload {
	case PayloadOpeningsNo:
		return m.Finalize(s)
	case PayloadOpeningsYes:
		s.State = StateWaitingOpeningType
		return s, Response{Text: openingsPickPrompt, Options: m.openingOptions(), Columns: 2}
	default:
		return s, unknownSelection()
	}
}

func (m *Machine) openingAction(s Session, ev Event) (Session, Response) {
	switch {
	case strings.HasPrefix(ev.Payload, PayloadOpeningPreset):
		p, ok := m.catalog.Preset(strings.TrimPrefix(ev.Payload, PayloadOpeningPreset))
		if !ok {
			return s, unknownSelection()
		}
		o, err := s.Area.AddOpeningFromPreset(p)
		if err != nil {
			return s, unknownSelection()
		}
		return s, m.openingAdded(s, o)

	case strings.HasPrefix(ev.Payload, PayloadOpeningManual):
		kind := catalog.OpeningKind(strings.TrimPrefix(ev.Payload, PayloadOpeningManual))
		if !area.ValidOpeningKind(kind) {
			return s, unknownSelection()
		}
		s.PendingOpening = &PendingOpening{Kind: kind}
		s.State = StateWaitingOpeningWidth
		return s, Response{Text: fmt.Sprintf("%s: введите ширину в метрах (например: 0.9):", area.KindLabel(kind))}

	case ev.Payload == PayloadOpeningClear:
		s.Area.ClearOpenings()
		return s, Response{Text: "🗑 Проёмы очищены.\n\n" + openingsPickPrompt, Options: m.openingOptions(), Columns: 2}

	case ev.Payload == PayloadOpeningFinish:
		return m.Finalize(s)

	default:
		return s, unknownSelection()
	}
}

func (m *Machine) openingWidth(s Session, ev Event) (Session, Response) {
	if s.PendingOpening == nil {
		return m.lostOpening(s)
	}
	v, err := parsePositive(ev.Text)
	if err != nil {
		return s, invalid("Введите ширину в метрах числом больше нуля, например: 0.9", err)
	}
	s.PendingOpening.Width = ptr(v)
	s.State = StateWaitingOpeningHeight
	return s, Response{Text: "Введите высоту в метрах (например: 2.0):"}
}

func (m *Machine) openingHeight(s Session, ev Event) (Session, Response) {
	po := s.PendingOpening
	if po == nil || po.Width == nil {
		return m.lostOpening(s)
	}
	v, err := parsePositive(ev.Text)
	if err != nil {
		return s, invalid("Введите высоту в метрах числом больше нуля, например: 2.0", err)
	}
	o, err := s.Area.AddOpening(po.Kind, *po.Width, v)
	if err != nil {
		return m.lostOpening(s)
	}
	s.PendingOpening = nil
	s.State = StateWaitingOpeningType
	return s, m.openingAdded(s, o)
}

func (m *Machine) openingAdded(s Session, o area.Opening) Response {
	return Response{
		Text: fmt.Sprintf("✅ Добавлено: %s %s×%s м = %s м²\n\n%s\n\n%s",
			area.KindLabel(o.Kind), format.Number(o.Width), format.Number(o.Height), format.Number(o.Area()),
			s.Area.OpeningsSummary(), openingsPickPrompt),
		Options: m.openingOptions(),
		Columns: 2,
	}
}

func (m *Machine) lostOpening(s Session) (Session, Response) {
	s.PendingOpening = nil
	s.State = StateWaitingOpeningType
	return s, Response{
		Text:    "Начнём этот проём заново. " + openingsPickPrompt,
		Options: m.openingOptions(),
		Columns: 2,
		Err:     ErrEmptyAccumulator,
	}
}
