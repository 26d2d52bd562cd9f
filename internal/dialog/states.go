package dialog

// State is the step a conversation is waiting on.
type State string

const (
	StateChooseProduct        State = "choose_product"
	StateChooseWaste          State = "choose_waste"
	StateChooseInputMode      State = "choose_input_mode"
	StateWaitingTotalArea     State = "waiting_total_area"
	StateWaitingSurfaceName   State = "waiting_surface_name"
	StateWaitingSurfaceLength State = "waiting_surface_length"
	StateWaitingSurfaceWidth  State = "waiting_surface_width"
	StateWaitingSurfaceSides  State = "waiting_surface_sides"
	StateAskOpenings          State = "ask_openings"
	StateWaitingOpeningType   State = "waiting_opening_type"
	StateWaitingOpeningWidth  State = "waiting_opening_width"
	StateWaitingOpeningHeight State = "waiting_opening_height"
	StateWaitingAskPrice      State = "waiting_ask_price"
	StateWaitingPriceSingle   State = "waiting_price_single"
	// StateWaitingPriceAll collects the four legacy prices; Session.Prices
	// holds the ones already entered.
	StateWaitingPriceAll State = "waiting_price_all"
)

// AllStates lists every state in flow order.
var AllStates = []State{
	StateChooseProduct,
	StateChooseWaste,
	StateChooseInputMode,
	StateWaitingTotalArea,
	StateWaitingSurfaceName,
	StateWaitingSurfaceLength,
	StateWaitingSurfaceWidth,
	StateWaitingSurfaceSides,
	StateAskOpenings,
	StateWaitingOpeningType,
	StateWaitingOpeningWidth,
	StateWaitingOpeningHeight,
	StateWaitingAskPrice,
	StateWaitingPriceSingle,
	StateWaitingPriceAll,
}
