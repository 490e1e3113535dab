package dialogue

// Classifier labels are data, defined by the intents file. These constants
// name the labels the dispatch table understands.
const (
	LabelOrderBeverage = "ordenar_bebida"
	LabelOrderFood     = "ordenar_alimento"
	LabelAskPrice      = "preguntar_precio"
	LabelShowMenu      = "consultar_menu"
	LabelConfirmOrder  = "confirmar_orden"
	LabelCancelOrder   = "cancelar_orden"
)

// Kind is the closed set of actions the orchestrator can take for a turn.
// KindUnknown doubles as the variant for labels the dispatch table does not
// know; the raw label survives on the Intent for logging.
type Kind int

const (
	KindUnknown Kind = iota
	KindOrderBeverage
	KindOrderFood
	KindAskPrice
	KindShowMenu
	KindConfirmOrder
	KindCancelOrder
)

type Intent struct {
	Kind  Kind
	Label string
}

// ParseIntent maps a classifier label onto the dispatch table. Labels it
// does not know become Unknown intents carrying the original label.
func ParseIntent(label string) Intent {
	switch label {
	case LabelOrderBeverage:
		return Intent{Kind: KindOrderBeverage, Label: label}
	case LabelOrderFood:
		return Intent{Kind: KindOrderFood, Label: label}
	case LabelAskPrice:
		return Intent{Kind: KindAskPrice, Label: label}
	case LabelShowMenu:
		return Intent{Kind: KindShowMenu, Label: label}
	case LabelConfirmOrder:
		return Intent{Kind: KindConfirmOrder, Label: label}
	case LabelCancelOrder:
		return Intent{Kind: KindCancelOrder, Label: label}
	default:
		return Intent{Kind: KindUnknown, Label: label}
	}
}

func (i Intent) String() string {
	if i.Label != "" {
		return i.Label
	}
	return "desconocido"
}

// describe phrases an intent for the yes/no confirmation prompt.
func (i Intent) describe() string {
	switch i.Kind {
	case KindOrderBeverage:
		return "ordenar una bebida"
	case KindOrderFood:
		return "ordenar un alimento"
	case KindAskPrice:
		return "consultar un precio"
	case KindShowMenu:
		return "ver el menú"
	case KindConfirmOrder:
		return "confirmar tu orden"
	case KindCancelOrder:
		return "cancelar tu orden"
	default:
		return "hacer eso"
	}
}
