package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// CollyPageFetcher retrieves raw page HTML through a colly collector
// with browser-like headers and a politeness delay between requests.
type CollyPageFetcher struct {
	timeout     time.Duration
	rateLimiter *RequestRateLimiter
}

func NewCollyPageFetcher(timeout, rateLimit time.Duration) *CollyPageFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CollyPageFetcher{
		timeout:     timeout,
		rateLimiter: NewRequestRateLimiter(rateLimit),
	}
}

// FetchPage fetches one URL and returns its body as text. A timeout or
// transport error is a source failure; the caller decides whether a
// fallback source exists.
func (f *CollyPageFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", NewServiceError(ErrorCategoryTimeout, "fetch cancelled before start", "FetchPage", false, err)
	}

	f.rateLimiter.Wait()

	collector := colly.NewCollector()
	collector.SetRequestTimeout(f.timeout)

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", browserUserAgent)
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	var (
		body     string
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	startTime := time.Now()
	if err := collector.Visit(url); err != nil {
		fetchErr = err
	}

	if fetchErr != nil {
		return "", NewServiceError(ErrorCategoryNetwork,
			fmt.Sprintf("failed to fetch %s", url), "FetchPage", true, fetchErr)
	}

	logrus.WithFields(logrus.Fields{
		"url":      url,
		"bytes":    len(body),
		"duration": time.Since(startTime),
	}).Debug("Fetched page")

	return body, nil
}
