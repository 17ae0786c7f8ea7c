package interpreter

type ClickResult struct {
	Clicked string `json:"clicked"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type ClickCoordsResult struct {
	ClickedAt Point  `json:"clicked_at"`
	Tag       string `json:"tag"`
}

type ScrollResult struct {
	Scrolled ScrollInfo `json:"scrolled"`
}

type ScrollInfo struct {
	Direction string `json:"direction"`
	Amount    int    `json:"amount"`
}

// TypeDebug is attached to every type/type_nth result.
type TypeDebug struct {
	Tag         string `json:"tag"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	ID          string `json:"id"`
	ReadOnly    bool   `json:"readOnly"`
	Disabled    bool   `json:"disabled"`
	ValueBefore string `json:"valueBefore"`
	ValueAfter  string `json:"valueAfter"`
	URL         string `json:"url"`
	OK          bool   `json:"ok"`
	NthFound    int    `json:"nthFound,omitempty"`
	TotalInputs int    `json:"totalInputs,omitempty"`
}

type TypeResult struct {
	OK       bool      `json:"ok"`
	Typed    string    `json:"typed"`
	Selector string    `json:"selector,omitempty"`
	Nth      int       `json:"nth,omitempty"`
	Debug    TypeDebug `json:"debug"`
}

type CheckboxResult struct {
	Checkbox string `json:"checkbox"`
	Checked  bool   `json:"checked"`
}

type RadioResult struct {
	Radio   string `json:"radio"`
	Checked bool   `json:"checked"`
}

type SelectResult struct {
	Selected string `json:"selected"`
	Selector string `json:"selector"`
}

type NavigateResult struct {
	NavigatingTo string `json:"navigating_to"`
}

type EvalResult struct {
	EvalResult string `json:"eval_result"`
}

type ExtractResult struct {
	URL       string `json:"url"`
	Selector  string `json:"selector,omitempty"`
	HTML      string `json:"html"`
	Truncated bool   `json:"truncated"`
}

type ScreenshotResult struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   string `json:"data"`
}
