package shared

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// RenderedPageFetcher drives a headless browser for sources that only
// materialize their tables after client-side JavaScript runs. The
// rendered outer HTML goes through the same extractors as a plain
// fetch.
type RenderedPageFetcher struct {
	timeout time.Duration
}

func NewRenderedPageFetcher(timeout time.Duration) *RenderedPageFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RenderedPageFetcher{timeout: timeout}
}

// FetchPage renders the page and returns its post-JavaScript HTML.
func (f *RenderedPageFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(browserUserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, f.timeout)
	defer cancelTimeout()

	startTime := time.Now()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("table tbody tr", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", NewServiceError(ErrorCategoryNetwork,
			fmt.Sprintf("failed to render %s", url), "FetchPage", true, err)
	}

	logrus.WithFields(logrus.Fields{
		"url":      url,
		"bytes":    len(html),
		"duration": time.Since(startTime),
	}).Debug("Rendered page")

	return html, nil
}

type pageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// RoutedPageFetcher sends URLs matching any of the configured markers
// through the headless-browser fetcher and everything else through the
// plain HTTP fetcher.
type RoutedPageFetcher struct {
	plain           pageFetcher
	rendered        pageFetcher
	renderedMarkers []string
}

func NewRoutedPageFetcher(plain, rendered pageFetcher, renderedMarkers []string) *RoutedPageFetcher {
	return &RoutedPageFetcher{
		plain:           plain,
		rendered:        rendered,
		renderedMarkers: renderedMarkers,
	}
}

func (f *RoutedPageFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	for _, marker := range f.renderedMarkers {
		if marker != "" && strings.Contains(url, marker) {
			return f.rendered.FetchPage(ctx, url)
		}
	}
	return f.plain.FetchPage(ctx, url)
}
