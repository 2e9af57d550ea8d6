package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gmpTableHTML = `
<html><body>
<table>
<tr><td>IPO Name</td><td>GMP</td><td>Est. Listing</td></tr>
<tr><td>Zinka Logistics Solution IPO</td><td>₹25 (9.2%)</td><td>₹298</td></tr>
<tr><td>Acme Pharma Ltd IPO</td><td>-15</td><td>85</td></tr>
<tr><td>Zinka Logistics Solution IPO</td><td>₹40</td><td>₹310</td></tr>
<tr><td>NoPremium Industries IPO</td><td>--</td></tr>
</table>
</body></html>`

func TestExtractGMPRecords(t *testing.T) {
	records := ExtractGMPRecords(gmpTableHTML)

	require.Len(t, records, 3)

	zinka, ok := records["ZINKALOGISTI"]
	require.True(t, ok)
	assert.Equal(t, 25, zinka.Premium, "first occurrence wins over the duplicate row")
	assert.Equal(t, 298, zinka.ExpectedListing)

	acme, ok := records["ACMEPHARMA"]
	require.True(t, ok)
	assert.Equal(t, -15, acme.Premium, "negative premium preserved")
	assert.Equal(t, 85, acme.ExpectedListing)

	noPremium, ok := records["NOPREMIUM"]
	require.True(t, ok)
	assert.Equal(t, 0, noPremium.Premium, "missing integer defaults to zero")
	assert.Equal(t, 0, noPremium.ExpectedListing, "absent expected-listing cell defaults to zero")
}

func TestExtractGMPRecordsEmptyInput(t *testing.T) {
	assert.Empty(t, ExtractGMPRecords(""))
	assert.Empty(t, ExtractGMPRecords("<html><body><div>no table</div></body></html>"))
}

// stubFetcher serves canned pages per URL; missing URLs error. The
// mutex matters because pipeline runs fetch from two goroutines.
type stubFetcher struct {
	pages map[string]string

	mu    sync.Mutex
	calls []string
}

func (f *stubFetcher) FetchPage(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	page, ok := f.pages[url]
	if !ok {
		return "", errors.New("source unavailable")
	}
	return page, nil
}

func TestFetchGMPDataPriorityOrder(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		"https://gmp.example/primary":   "<html><body><p>empty page</p></body></html>",
		"https://gmp.example/secondary": gmpTableHTML,
	}}
	scraper := NewGMPScraper(fetcher, []string{
		"https://gmp.example/primary",
		"https://gmp.example/secondary",
	})

	records := scraper.FetchGMPData(context.Background())

	assert.Len(t, records, 3, "second source wins when the first yields no records")
	assert.Equal(t, []string{"https://gmp.example/primary", "https://gmp.example/secondary"}, fetcher.calls)
}

func TestFetchGMPDataFirstNonEmptySourceShortCircuits(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		"https://gmp.example/primary":   gmpTableHTML,
		"https://gmp.example/secondary": gmpTableHTML,
	}}
	scraper := NewGMPScraper(fetcher, []string{
		"https://gmp.example/primary",
		"https://gmp.example/secondary",
	})

	records := scraper.FetchGMPData(context.Background())

	assert.Len(t, records, 3)
	assert.Equal(t, []string{"https://gmp.example/primary"}, fetcher.calls, "later sources are not consulted")
}

func TestFetchGMPDataAllSourcesFailing(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{}}
	scraper := NewGMPScraper(fetcher, []string{"https://gmp.example/down"})

	records := scraper.FetchGMPData(context.Background())

	assert.Empty(t, records, "running out of sources is not an error")
}
