package marketplace

import (
	"context"
	"errors"
	"fmt"
	"searchbot/internal/app/logger"
	"time"

	chromedpUndetected "github.com/Davincible/chromedp-undetected"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

var ErrBrowserLaunch = errors.New("unable to launch browser")

// Page is a fully rendered marketplace page.
type Page struct {
	Url        string
	Html       string
	Screenshot []byte
}

// Renderer turns an URL into a rendered page (after dynamic content loads).
type Renderer interface {
	Render(ctx context.Context, url string) (Page, error)
}

type BrowserRendererOptions struct {
	Headless      bool
	SettleDelay   time.Duration
	ScrollCount   int
	ScrollDelay   time.Duration
	ShowMoreDelay time.Duration
}

// BrowserRenderer renders pages in an undetected Chrome instance.
type BrowserRenderer struct {
	options BrowserRendererOptions
	logger  logger.LoggerInterface
}

func NewBrowserRenderer(options BrowserRendererOptions, logger logger.LoggerInterface) *BrowserRenderer {
	if options.ScrollCount == 0 {
		options.ScrollCount = 5
	}
	if options.ScrollDelay == 0 {
		options.ScrollDelay = 2 * time.Second
	}
	if options.ShowMoreDelay == 0 {
		options.ShowMoreDelay = 5 * time.Second
	}

	return &BrowserRenderer{
		options: options,
		logger:  logger,
	}
}

// Create new browser instance, closed as soon as ctx is done.
func (r *BrowserRenderer) newBrowserInstance(ctx context.Context) (context.Context, context.CancelFunc, error) {
	var options []chromedpUndetected.Option

	if r.options.Headless {
		options = append(options, chromedpUndetected.WithHeadless())
	}

	instance, cancel, err := chromedpUndetected.New(chromedpUndetected.NewConfig(options...))
	if err != nil {
		return nil, nil, err
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-instance.Done():
		}
	}()

	return instance, cancel, nil
}

// Render search page: wait for it to settle, scroll to load lazy cards and expand "Show more results".
func (r *BrowserRenderer) Render(ctx context.Context, url string) (Page, error) {
	page := Page{Url: url}

	browserContext, cancel, err := r.newBrowserInstance(ctx)
	if err != nil {
		return page, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	defer cancel()

	pageContext, cancel := chromedp.NewContext(browserContext)
	defer cancel()

	r.logger.Println("Rendering URL:", url)

	err = chromedp.Run(
		pageContext,
		chromedp.Navigate(url),
		chromedp.Sleep(r.options.SettleDelay),
		r.scrollAndLoadMore(),
		chromedp.OuterHTML("html", &page.Html, chromedp.ByQuery),
		chromedp.CaptureScreenshot(&page.Screenshot),
	)

	if err != nil && ctx.Err() != nil {
		return page, ctx.Err()
	}

	if err != nil {
		// page is still alive, keep whatever can be captured for debugging
		_ = chromedp.Run(
			pageContext,
			chromedp.OuterHTML("html", &page.Html, chromedp.ByQuery),
			chromedp.CaptureScreenshot(&page.Screenshot),
		)
	}

	return page, err
}

// Scroll down a few times and click "Show more results" button (if available).
func (r *BrowserRenderer) scrollAndLoadMore() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for i := 0; i < r.options.ScrollCount; i++ {
			if err := chromedp.Evaluate(`window.scrollBy(0, window.innerHeight)`, nil).Do(ctx); err != nil {
				return err
			}

			if err := chromedp.Sleep(r.options.ScrollDelay).Do(ctx); err != nil {
				return err
			}

			r.logger.Println("Scrolled down", i+1, "times")
		}

		showMoreJS := `(function () {
			const button = Array.from(document.querySelectorAll('button'))
				.find((node) => node.innerText.includes('Show more results'));

			if (!button) {
				return false;
			}

			button.click();

			return true;
		})()`

		var clicked bool

		err := chromedp.Evaluate(showMoreJS, &clicked, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithUserGesture(true)
		}).Do(ctx)
		if err != nil {
			return err
		}

		if !clicked {
			r.logger.Println("\"Show more results\" button not found")
			return nil
		}

		r.logger.Println("Clicked \"Show more results\" button")

		return chromedp.Sleep(r.options.ShowMoreDelay).Do(ctx)
	})
}
