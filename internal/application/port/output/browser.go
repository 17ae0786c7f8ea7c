package output

import (
	"context"

	"brc-agent/internal/domain/entity"
)

// Procedure runs synchronously against the live document of one context.
type Procedure func(ctx context.Context, page Page) (any, error)

// ContextHost enumerates open tabs and runs procedures inside them. The set of
// contexts is owned by the host; callers never mutate it.
type ContextHost interface {
	ListContexts(ctx context.Context, filter entity.ContextFilter) ([]entity.TargetContext, error)
	RunInContext(ctx context.Context, target entity.TargetContext, proc Procedure) (any, error)
}

// Page is the document of one context.
type Page interface {
	URL(ctx context.Context) (string, error)

	// Query returns the first match or an error wrapping entity.ErrElementNotFound.
	Query(ctx context.Context, selector string) (Element, error)
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	// ElementAt returns the topmost element at viewport point (x, y).
	ElementAt(ctx context.Context, x, y int) (Element, error)

	ScrollBy(ctx context.Context, dy int) error
	Navigate(ctx context.Context, url string) error
	Evaluate(ctx context.Context, code string) (string, error)
	// InsertText inserts text at the focused element as if typed.
	InsertText(ctx context.Context, text string) error

	HTML(ctx context.Context) (string, error)
	Screenshot(ctx context.Context, maxWidth, quality int) (*entity.Screenshot, error)
}

type Element interface {
	Info(ctx context.Context) (entity.ElementInfo, error)
	Value(ctx context.Context) (string, error)
	Checked(ctx context.Context) (bool, error)

	ScrollIntoView(ctx context.Context) error
	ScrollBy(ctx context.Context, dy int) error
	Focus(ctx context.Context) error
	// Click calls the element's native click().
	Click(ctx context.Context) error
	Dispatch(ctx context.Context, event entity.DOMEvent) error

	// SetValue assigns through the instance property, which frameworks may intercept.
	SetValue(ctx context.Context, value string) error
	// SetNativeValue calls the prototype's value setter directly.
	SetNativeValue(ctx context.Context, value string) error
	// SelectAll focuses the element and selects its whole content.
	SelectAll(ctx context.Context) error

	Options(ctx context.Context) ([]entity.SelectOption, error)
	SelectOption(ctx context.Context, index int) error

	HTML(ctx context.Context) (string, error)
}
