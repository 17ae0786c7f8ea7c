package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"strings"

	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var _ output.Page = (*Page)(nil)

// Page is the live document of one tab. Lookups never wait: a missing
// element is reported at once.
type Page struct {
	page *rod.Page
}

func (p *Page) with(ctx context.Context) *rod.Page {
	return p.page.Context(ctx).Sleeper(rod.NotFoundSleeper)
}

func (p *Page) URL(ctx context.Context) (string, error) {
	res, err := p.with(ctx).Eval(`() => window.location.href`)
	if err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return res.Value.Str(), nil
}

func (p *Page) Query(ctx context.Context, selector string) (output.Element, error) {
	has, el, err := p.page.Context(ctx).Has(selector)
	if err != nil {
		return nil, fmt.Errorf("query %s: %s", selector, evalMessage(err))
	}
	if !has {
		return nil, fmt.Errorf("%w: %s", entity.ErrElementNotFound, selector)
	}
	return &Element{el: el}, nil
}

func (p *Page) QueryAll(ctx context.Context, selector string) ([]output.Element, error) {
	els, err := p.with(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %s: %s", selector, evalMessage(err))
	}
	out := make([]output.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &Element{el: el})
	}
	return out, nil
}

func (p *Page) ElementAt(ctx context.Context, x, y int) (output.Element, error) {
	el, err := p.with(ctx).ElementByJS(rod.Eval(jsElementAt, x, y))
	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) {
		return nil, fmt.Errorf("%w: no element at (%d, %d)", entity.ErrElementNotFound, x, y)
	}
	if err != nil {
		return nil, fmt.Errorf("element at (%d, %d): %w", x, y, err)
	}
	return &Element{el: el}, nil
}

func (p *Page) ScrollBy(ctx context.Context, dy int) error {
	_, err := p.with(ctx).Eval(jsWindowScroll, dy)
	return err
}

// Navigate assigns window.location and returns without waiting for the new
// document.
func (p *Page) Navigate(ctx context.Context, url string) error {
	_, err := p.with(ctx).Eval(jsNavigate, url)
	return err
}

// Evaluate runs code with indirect eval and returns String(result). Thrown
// exceptions come back as errors carrying the exception message.
func (p *Page) Evaluate(ctx context.Context, code string) (string, error) {
	res, err := p.with(ctx).Evaluate(rod.Eval(jsEval, code))
	if err != nil {
		return "", errors.New(evalMessage(err))
	}
	return res.Value.Str(), nil
}

func (p *Page) InsertText(ctx context.Context, text string) error {
	return p.page.Context(ctx).InsertText(text)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

// Screenshot captures the viewport as JPEG, scaled down to maxWidth.
func (p *Page) Screenshot(ctx context.Context, maxWidth, quality int) (*entity.Screenshot, error) {
	raw, err := p.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(quality),
	})
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return &entity.Screenshot{
			Data:   raw,
			Format: "jpeg",
			Width:  img.Bounds().Dx(),
			Height: img.Bounds().Dy(),
		}, nil
	}

	img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}
	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

// evalMessage reduces a page exception to its first line, e.g.
// "ReferenceError: x is not defined".
func evalMessage(err error) string {
	var evalErr *rod.EvalError
	if !errors.As(err, &evalErr) || evalErr.RuntimeExceptionDetails == nil {
		return err.Error()
	}
	msg := evalErr.Text
	if exp := evalErr.Exception; exp != nil && exp.Description != "" {
		msg = exp.Description
	}
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}
