package rod

import (
	"context"
	"errors"
	"fmt"

	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.Element = (*Element)(nil)

type Element struct {
	el *rod.Element
}

func (e *Element) eval(ctx context.Context, js string, args ...any) (*proto.RuntimeRemoteObject, error) {
	res, err := e.el.Context(ctx).Eval(js, args...)
	if err != nil {
		return nil, errors.New(evalMessage(err))
	}
	return res, nil
}

func (e *Element) run(ctx context.Context, js string, args ...any) error {
	_, err := e.eval(ctx, js, args...)
	return err
}

func (e *Element) Info(ctx context.Context) (entity.ElementInfo, error) {
	var info entity.ElementInfo
	res, err := e.eval(ctx, jsElementInfo)
	if err != nil {
		return info, err
	}
	if err := res.Value.Unmarshal(&info); err != nil {
		return info, fmt.Errorf("decode element info: %w", err)
	}
	return info, nil
}

func (e *Element) Value(ctx context.Context) (string, error) {
	res, err := e.eval(ctx, jsValue)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (e *Element) Checked(ctx context.Context) (bool, error) {
	res, err := e.eval(ctx, jsChecked)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

func (e *Element) ScrollIntoView(ctx context.Context) error {
	return e.run(ctx, jsScrollIntoView)
}

func (e *Element) ScrollBy(ctx context.Context, dy int) error {
	return e.run(ctx, jsElementScroll, dy)
}

func (e *Element) Focus(ctx context.Context) error {
	return e.run(ctx, jsFocus)
}

func (e *Element) Click(ctx context.Context) error {
	return e.run(ctx, jsClick)
}

func (e *Element) Dispatch(ctx context.Context, event entity.DOMEvent) error {
	return e.run(ctx, jsDispatch, string(event.Kind), event.Name)
}

func (e *Element) SetValue(ctx context.Context, value string) error {
	return e.run(ctx, jsSetValue, value)
}

func (e *Element) SetNativeValue(ctx context.Context, value string) error {
	return e.run(ctx, jsSetNativeValue, value)
}

func (e *Element) SelectAll(ctx context.Context) error {
	return e.run(ctx, jsSelectAll)
}

func (e *Element) Options(ctx context.Context) ([]entity.SelectOption, error) {
	res, err := e.eval(ctx, jsOptions)
	if err != nil {
		return nil, err
	}
	var options []entity.SelectOption
	if err := res.Value.Unmarshal(&options); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return options, nil
}

func (e *Element) SelectOption(ctx context.Context, index int) error {
	return e.run(ctx, jsSelectOption, index)
}

func (e *Element) HTML(ctx context.Context) (string, error) {
	res, err := e.eval(ctx, jsHTML)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}
