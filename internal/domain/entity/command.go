package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type CommandType string

const (
	CommandClick       CommandType = "click"
	CommandClickCoords CommandType = "click_coords"
	CommandScroll      CommandType = "scroll"
	CommandTypeText    CommandType = "type"
	CommandTypeNth     CommandType = "type_nth"
	CommandCheckbox    CommandType = "checkbox"
	CommandRadio       CommandType = "radio"
	CommandSelect      CommandType = "select"
	CommandNavigate    CommandType = "navigate"
	CommandEval        CommandType = "eval"
	CommandExtract     CommandType = "extract"
	CommandScreenshot  CommandType = "screenshot"
)

func (t CommandType) String() string {
	return string(t)
}

const (
	DefaultScrollAmount = 300
	DefaultExtractChars = 130_000
	DefaultJPEGQuality  = 80
	DefaultShotWidth    = 1024
)

// Command is one of the concrete *Command structs below.
type Command interface {
	Type() CommandType
	Locator() Target
}

// Target carries the optional tab locators any command may specify.
type Target struct {
	TabURL   string `json:"tab_url,omitempty"`
	TabIndex *int   `json:"tab_index,omitempty"`
}

func (t Target) Locator() Target { return t }

type ClickCommand struct {
	Target
	Selector string `json:"selector"`
}

type ClickCoordsCommand struct {
	Target
	X int `json:"x"`
	Y int `json:"y"`
}

type ScrollDirection string

const (
	ScrollUp   ScrollDirection = "up"
	ScrollDown ScrollDirection = "down"
)

type ScrollCommand struct {
	Target
	Selector  string          `json:"selector,omitempty"`
	Direction ScrollDirection `json:"direction,omitempty"`
	Amount    int             `json:"amount"`
}

// Delta is the signed vertical offset: negative for up, positive otherwise.
func (c ScrollCommand) Delta() int {
	if c.Direction == ScrollUp {
		return -c.Amount
	}
	return c.Amount
}

type TypeCommand struct {
	Target
	Selector string `json:"selector"`
	Value    string `json:"value"`
	Clear    bool   `json:"clear"`
}

type TypeNthCommand struct {
	Target
	Nth   int    `json:"nth"`
	Value string `json:"value"`
	Clear bool   `json:"clear"`
}

type CheckboxCommand struct {
	Target
	Selector string `json:"selector"`
	// Checked is the desired state; nil toggles.
	Checked *bool `json:"checked,omitempty"`
}

type RadioCommand struct {
	Target
	Selector string `json:"selector"`
}

type SelectCommand struct {
	Target
	Selector string `json:"selector"`
	Value    string `json:"value"`
}

type NavigateCommand struct {
	Target
	URL string `json:"url"`
}

// EvalCommand runs arbitrary script in the page. Whoever can enqueue commands
// for this agent can run code in the user's browser.
type EvalCommand struct {
	Target
	Code string `json:"code"`
}

type ExtractCommand struct {
	Target
	Selector string `json:"selector,omitempty"`
	MaxChars int    `json:"max_chars"`
}

type ScreenshotCommand struct {
	Target
	Quality  int `json:"quality"`
	MaxWidth int `json:"max_width"`
}

// UnsupportedCommand is what an unknown type decodes to. Executing it fails
// for that envelope only.
type UnsupportedCommand struct {
	Target
	Kind string `json:"type"`
}

func (ClickCommand) Type() CommandType         { return CommandClick }
func (ClickCoordsCommand) Type() CommandType   { return CommandClickCoords }
func (ScrollCommand) Type() CommandType        { return CommandScroll }
func (TypeCommand) Type() CommandType          { return CommandTypeText }
func (TypeNthCommand) Type() CommandType       { return CommandTypeNth }
func (CheckboxCommand) Type() CommandType      { return CommandCheckbox }
func (RadioCommand) Type() CommandType         { return CommandRadio }
func (SelectCommand) Type() CommandType        { return CommandSelect }
func (NavigateCommand) Type() CommandType      { return CommandNavigate }
func (EvalCommand) Type() CommandType          { return CommandEval }
func (ExtractCommand) Type() CommandType       { return CommandExtract }
func (ScreenshotCommand) Type() CommandType    { return CommandScreenshot }
func (c UnsupportedCommand) Type() CommandType { return CommandType(c.Kind) }

// DecodeCommand decodes and validates one command object. Defaults are
// applied here so handlers never see optional fields.
func DecodeCommand(raw []byte) (Command, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, fmt.Errorf("%w: empty command", ErrInvalidCommand)
	}

	var head struct {
		Type     string          `json:"type"`
		TabURL   string          `json:"tab_url"`
		TabIndex json.RawMessage `json:"tab_index"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}

	target := Target{TabURL: head.TabURL}
	if idx, ok := optionalInt(head.TabIndex); ok {
		target.TabIndex = &idx
	}

	var body struct {
		Selector  string     `json:"selector"`
		X         *flexInt   `json:"x"`
		Y         *flexInt   `json:"y"`
		Direction string     `json:"direction"`
		Amount    *flexInt   `json:"amount"`
		Value     *flexValue `json:"value"`
		Clear     *flexBool  `json:"clear"`
		Nth       *flexInt   `json:"nth"`
		Checked   *flexBool  `json:"checked"`
		URL       string     `json:"url"`
		Code      *string    `json:"code"`
		MaxChars  *flexInt   `json:"max_chars"`
		Quality   *flexInt   `json:"quality"`
		MaxWidth  *flexInt   `json:"max_width"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCommand, head.Type, err)
	}

	requireSelector := func() error {
		if strings.TrimSpace(body.Selector) == "" {
			return fmt.Errorf("%w: %s requires a selector", ErrInvalidCommand, head.Type)
		}
		return nil
	}
	requireValue := func() (string, error) {
		if body.Value == nil {
			return "", fmt.Errorf("%w: %s requires a value", ErrInvalidCommand, head.Type)
		}
		return string(*body.Value), nil
	}
	clearFirst := true
	if c := body.Clear.ptr(); c != nil {
		clearFirst = *c
	}

	switch CommandType(head.Type) {
	case CommandClick:
		if err := requireSelector(); err != nil {
			return nil, err
		}
		return ClickCommand{Target: target, Selector: body.Selector}, nil

	case CommandClickCoords:
		if body.X == nil || body.Y == nil {
			return nil, fmt.Errorf("%w: click_coords requires x and y", ErrInvalidCommand)
		}
		return ClickCoordsCommand{Target: target, X: int(*body.X), Y: int(*body.Y)}, nil

	case CommandScroll:
		amount := DefaultScrollAmount
		if body.Amount != nil {
			amount = int(*body.Amount)
		}
		direction := ScrollDown
		if ScrollDirection(body.Direction) == ScrollUp {
			direction = ScrollUp
		}
		return ScrollCommand{
			Target:    target,
			Selector:  body.Selector,
			Direction: direction,
			Amount:    amount,
		}, nil

	case CommandTypeText:
		if err := requireSelector(); err != nil {
			return nil, err
		}
		value, err := requireValue()
		if err != nil {
			return nil, err
		}
		return TypeCommand{Target: target, Selector: body.Selector, Value: value, Clear: clearFirst}, nil

	case CommandTypeNth:
		value, err := requireValue()
		if err != nil {
			return nil, err
		}
		nth := 1
		if body.Nth != nil && *body.Nth != 0 {
			nth = int(*body.Nth)
		}
		if nth < 1 {
			return nil, fmt.Errorf("%w: type_nth requires nth >= 1, got %d", ErrInvalidCommand, nth)
		}
		return TypeNthCommand{Target: target, Nth: nth, Value: value, Clear: clearFirst}, nil

	case CommandCheckbox:
		if err := requireSelector(); err != nil {
			return nil, err
		}
		return CheckboxCommand{Target: target, Selector: body.Selector, Checked: body.Checked.ptr()}, nil

	case CommandRadio:
		if err := requireSelector(); err != nil {
			return nil, err
		}
		return RadioCommand{Target: target, Selector: body.Selector}, nil

	case CommandSelect:
		if err := requireSelector(); err != nil {
			return nil, err
		}
		value, err := requireValue()
		if err != nil {
			return nil, err
		}
		return SelectCommand{Target: target, Selector: body.Selector, Value: value}, nil

	case CommandNavigate:
		if strings.TrimSpace(body.URL) == "" {
			return nil, fmt.Errorf("%w: navigate requires a url", ErrInvalidCommand)
		}
		return NavigateCommand{Target: target, URL: body.URL}, nil

	case CommandEval:
		if body.Code == nil {
			return nil, fmt.Errorf("%w: eval requires code", ErrInvalidCommand)
		}
		return EvalCommand{Target: target, Code: *body.Code}, nil

	case CommandExtract:
		maxChars := DefaultExtractChars
		if body.MaxChars != nil && *body.MaxChars > 0 {
			maxChars = int(*body.MaxChars)
		}
		return ExtractCommand{Target: target, Selector: body.Selector, MaxChars: maxChars}, nil

	case CommandScreenshot:
		cmd := ScreenshotCommand{Target: target, Quality: DefaultJPEGQuality, MaxWidth: DefaultShotWidth}
		if body.Quality != nil && *body.Quality > 0 && *body.Quality <= 100 {
			cmd.Quality = int(*body.Quality)
		}
		if body.MaxWidth != nil && *body.MaxWidth > 0 {
			cmd.MaxWidth = int(*body.MaxWidth)
		}
		return cmd, nil

	default:
		return UnsupportedCommand{Target: target, Kind: head.Type}, nil
	}
}

// flexInt accepts 3, 3.0 and "3".
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	v, ok := optionalInt(b)
	if !ok {
		return fmt.Errorf("expected an integer, got %s", string(b))
	}
	*n = flexInt(v)
	return nil
}

func optionalInt(b []byte) (int, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		return int(f), true
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return v, true
		}
	}
	return 0, false
}

// flexBool accepts true, "true", 1 and "1" (and their false forms). Any
// other value leaves it unset, so the field falls back to its default.
type flexBool struct {
	set   bool
	value bool
}

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case bool:
		f.set, f.value = true, t
	case float64:
		f.set, f.value = true, t != 0
	case string:
		if v, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			f.set, f.value = true, v
		}
	}
	return nil
}

func (f *flexBool) ptr() *bool {
	if f == nil || !f.set {
		return nil
	}
	v := f.value
	return &v
}

// flexValue stringifies scalars the way a page would: 42 becomes "42".
type flexValue string

func (v *flexValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = flexValue(s)
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case float64:
		*v = flexValue(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		*v = flexValue(strconv.FormatBool(t))
	case nil:
		*v = ""
	default:
		return fmt.Errorf("value must be a scalar, got %s", string(b))
	}
	return nil
}
