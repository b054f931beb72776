package render

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Renderer produces fully rendered page markup for URLs whose interesting
// content is built by scripts after load. Implementations must be safe for
// sequential reuse.
type Renderer interface {
	// Render navigates to url and returns the rendered markup.
	Render(ctx context.Context, url string) (string, error)
	// Available reports whether rendering can be attempted at all.
	Available() bool
}

// ChromeRenderer drives a headless browser. Each Render call runs in a
// fresh tab context so one stuck page cannot poison the next.
type ChromeRenderer struct {
	timeout time.Duration
	log     *zap.Logger
}

// NewChromeRenderer returns a headless-browser renderer with a per-page
// timeout.
func NewChromeRenderer(timeout time.Duration) *ChromeRenderer {
	return &ChromeRenderer{
		timeout: timeout,
		log:     zap.L().With(zap.String("component", "renderer")),
	}
}

func (r *ChromeRenderer) Available() bool { return true }

func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
		)...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	r.log.Debug("rendering page", zap.String("url", url))

	var markup string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &markup),
	)
	if err != nil {
		return "", eris.Wrapf(err, "render: render %s", url)
	}
	return markup, nil
}

// Disabled is a Renderer that is never available. It stands in when the
// configuration turns rendering off or no browser is installed.
type Disabled struct{}

func (Disabled) Available() bool { return false }

func (Disabled) Render(context.Context, string) (string, error) {
	return "", eris.New("render: rendering disabled")
}
