package interpreter

import (
	"context"
	"fmt"

	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"
)

// fakePage is an in-memory document. Selectors are matched literally.
type fakePage struct {
	url       string
	bySel     map[string][]*fakeElement
	at        *fakeElement
	focused   *fakeElement
	html      string
	evalOut   string
	evalErr   error
	navigated string
	scrolled  int
	shot      *entity.Screenshot
}

func newFakePage(url string) *fakePage {
	return &fakePage{url: url, bySel: make(map[string][]*fakeElement)}
}

func (p *fakePage) add(selector string, el *fakeElement) *fakeElement {
	el.page = p
	p.bySel[selector] = append(p.bySel[selector], el)
	return el
}

func (p *fakePage) URL(context.Context) (string, error) { return p.url, nil }

func (p *fakePage) Query(_ context.Context, selector string) (output.Element, error) {
	els := p.bySel[selector]
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrElementNotFound, selector)
	}
	return els[0], nil
}

func (p *fakePage) QueryAll(_ context.Context, selector string) ([]output.Element, error) {
	out := make([]output.Element, 0, len(p.bySel[selector]))
	for _, el := range p.bySel[selector] {
		out = append(out, el)
	}
	return out, nil
}

func (p *fakePage) ElementAt(_ context.Context, x, y int) (output.Element, error) {
	if p.at == nil {
		return nil, fmt.Errorf("%w: at (%d, %d)", entity.ErrElementNotFound, x, y)
	}
	return p.at, nil
}

func (p *fakePage) ScrollBy(_ context.Context, dy int) error {
	p.scrolled += dy
	return nil
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.navigated = url
	return nil
}

func (p *fakePage) Evaluate(context.Context, string) (string, error) {
	return p.evalOut, p.evalErr
}

func (p *fakePage) InsertText(_ context.Context, text string) error {
	if p.focused == nil {
		return fmt.Errorf("nothing focused")
	}
	if p.focused.selectedAll {
		p.focused.value = ""
	}
	if !p.focused.rejectInsert {
		p.focused.value += text
	}
	p.focused.inserted = text
	return nil
}

func (p *fakePage) HTML(context.Context) (string, error) { return p.html, nil }

func (p *fakePage) Screenshot(context.Context, int, int) (*entity.Screenshot, error) {
	if p.shot == nil {
		return nil, fmt.Errorf("no screenshot")
	}
	return p.shot, nil
}

type fakeElement struct {
	page *fakePage
	info entity.ElementInfo

	value   string
	checked bool
	options []entity.SelectOption
	index   int
	html    string

	// rejectNative drops prototype setter writes, like a framework-controlled input.
	rejectNative bool
	rejectInsert bool

	clicks      int
	events      []string
	scrolled    int
	intoView    bool
	selectedAll bool
	inserted    string
}

func (e *fakeElement) Info(context.Context) (entity.ElementInfo, error) {
	info := e.info
	info.Value = e.value
	info.Checked = e.checked
	return info, nil
}

func (e *fakeElement) Value(context.Context) (string, error) { return e.value, nil }

func (e *fakeElement) Checked(context.Context) (bool, error) { return e.checked, nil }

func (e *fakeElement) ScrollIntoView(context.Context) error {
	e.intoView = true
	return nil
}

func (e *fakeElement) ScrollBy(_ context.Context, dy int) error {
	e.scrolled += dy
	return nil
}

func (e *fakeElement) Focus(context.Context) error {
	e.page.focused = e
	return nil
}

func (e *fakeElement) Click(context.Context) error {
	e.clicks++
	e.events = append(e.events, "click")
	switch e.info.Type {
	case "checkbox":
		e.checked = !e.checked
	case "radio":
		e.checked = true
	}
	return nil
}

func (e *fakeElement) Dispatch(_ context.Context, ev entity.DOMEvent) error {
	e.events = append(e.events, ev.Name)
	return nil
}

func (e *fakeElement) SetValue(_ context.Context, value string) error {
	e.value = value
	return nil
}

func (e *fakeElement) SetNativeValue(_ context.Context, value string) error {
	if !e.rejectNative {
		e.value = value
	}
	return nil
}

func (e *fakeElement) SelectAll(context.Context) error {
	e.selectedAll = true
	return nil
}

func (e *fakeElement) Options(context.Context) ([]entity.SelectOption, error) {
	return e.options, nil
}

func (e *fakeElement) SelectOption(_ context.Context, index int) error {
	e.index = index
	e.value = e.options[index].Value
	return nil
}

func (e *fakeElement) HTML(context.Context) (string, error) { return e.html, nil }

func textInput(id string) *fakeElement {
	return &fakeElement{info: entity.ElementInfo{Tag: "INPUT", Type: "text", ID: id, Width: 100, Height: 20}}
}

func hiddenInput(id string) *fakeElement {
	return &fakeElement{info: entity.ElementInfo{Tag: "INPUT", Type: "text", ID: id}}
}
