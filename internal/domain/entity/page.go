package entity

// ElementInfo is a snapshot of the element properties the interpreter
// branches on.
type ElementInfo struct {
	Tag      string  `json:"tag"`
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	ID       string  `json:"id"`
	Value    string  `json:"value"`
	ReadOnly bool    `json:"readOnly"`
	Disabled bool    `json:"disabled"`
	Checked  bool    `json:"checked"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// Visible means the element has a non-empty bounding box.
func (i ElementInfo) Visible() bool {
	return i.Width > 0 && i.Height > 0
}

type EventKind string

const (
	EventKindBasic    EventKind = "event"
	EventKindMouse    EventKind = "mouse"
	EventKindKeyboard EventKind = "keyboard"
)

// DOMEvent is a synthetic bubbling event fired at an element.
type DOMEvent struct {
	Kind EventKind
	Name string
}

var (
	EventMouseOver = DOMEvent{Kind: EventKindMouse, Name: "mouseover"}
	EventMouseDown = DOMEvent{Kind: EventKindMouse, Name: "mousedown"}
	EventMouseUp   = DOMEvent{Kind: EventKindMouse, Name: "mouseup"}
	EventInput     = DOMEvent{Kind: EventKindBasic, Name: "input"}
	EventChange    = DOMEvent{Kind: EventKindBasic, Name: "change"}
	EventKeyUp     = DOMEvent{Kind: EventKindKeyboard, Name: "keyup"}
)

type SelectOption struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
