package services

import (
	"testing"
	"time"

	"github.com/ipowatch/ipo-analyzer/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportTemplateHTML = `
<html><body>
<table>
<tr><td>Company Name</td><td>Date</td><td>Price Band</td><td>Issue Size</td><td>Lot</td></tr>
<tr>
  <td><a href="/ipo/zinka-logistics/1234/">Zinka Logistics Solution Ltd IPO</a></td>
  <td>13 Nov - 18 Nov, 2024</td>
  <td>259 - 273</td>
  <td>1,114.72 Cr</td>
  <td>54</td>
</tr>
<tr>
  <td><a href="https://example.com/ipo/acme">Acme Pharma Private Ltd (Mainboard)</a></td>
  <td>20 Nov - 22 Nov, 2024</td>
  <td>100</td>
  <td>250 Cr</td>
  <td>TBA</td>
</tr>
<tr><td>AB</td><td>13 Nov - 18 Nov, 2024</td><td>10-20</td></tr>
<tr><td>Too Few Cells Ltd</td><td>13 Nov - 18 Nov, 2024</td></tr>
</table>
</body></html>`

const dashboardTemplateHTML = `
<html><body>
<table>
<tr><td>1</td><td>Bharat Infra Projects Limited</td><td>2 Dec, 2024</td><td>4 Dec, 2024</td><td>70 - 75</td><td>500 Cr</td><td>200</td></tr>
<tr><td>2</td><td>IPO Name</td><td>-</td><td>-</td><td>-</td><td>-</td><td>-</td></tr>
</table>
</body></html>`

func newTestListingScraper() *ListingScraper {
	scraper := NewListingScraper("https://www.chittorgarh.com")
	scraper.now = func() time.Time {
		return time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC)
	}
	return scraper
}

func TestExtractListingsReportTemplate(t *testing.T) {
	scraper := newTestListingScraper()
	listings := scraper.ExtractListings(reportTemplateHTML)

	require.Len(t, listings, 2, "header, short-name and short-row entries must be rejected")

	zinka := listings[0]
	assert.Equal(t, "ZINKALOGISTI", zinka.Symbol, "symbol capped at 12 chars after suffix stripping")
	assert.Equal(t, "Zinka Logistics Solution Ltd", zinka.CompanyName)
	assert.Equal(t, "13 Nov", zinka.OpenDateText)
	assert.Equal(t, "18 Nov, 2024", zinka.CloseDateText)
	assert.Equal(t, "259 - 273", zinka.PriceRange)
	assert.Equal(t, "1,114.72 Cr", zinka.IssueSize)
	assert.Equal(t, 54, zinka.LotSize)
	assert.Equal(t, "https://www.chittorgarh.com/ipo/zinka-logistics/1234/", zinka.DetailURL)

	acme := listings[1]
	assert.Equal(t, "Acme Pharma Private Ltd", acme.CompanyName, "parenthetical stripped")
	assert.Equal(t, "ACMEPHARMA", acme.Symbol, "Private and Ltd suffix tokens stripped")
	assert.Equal(t, 0, acme.LotSize, "unparseable lot size reads as unknown")
	assert.Equal(t, "https://example.com/ipo/acme", acme.DetailURL, "absolute detail URL kept as-is")
}

func TestExtractListingsFallsBackToDashboardTemplate(t *testing.T) {
	scraper := newTestListingScraper()
	listings := scraper.ExtractListings(dashboardTemplateHTML)

	require.Len(t, listings, 1, "header-like and serial-first rows resolve only under the fallback template")

	infra := listings[0]
	assert.Equal(t, "BHARATINFRAP", infra.Symbol)
	assert.Equal(t, "Bharat Infra Projects Limited", infra.CompanyName)
	assert.Equal(t, "2 Dec, 2024", infra.OpenDateText)
	assert.Equal(t, "4 Dec, 2024", infra.CloseDateText)
	assert.Equal(t, "70 - 75", infra.PriceRange)
	assert.Equal(t, 200, infra.LotSize)
	assert.Equal(t, models.StatusUpcoming, infra.Status)
}

func TestExtractListingsEmptyAndBrokenInput(t *testing.T) {
	scraper := newTestListingScraper()

	assert.Empty(t, scraper.ExtractListings(""))
	assert.Empty(t, scraper.ExtractListings("<html><body><p>no tables here</p></body></html>"))
	assert.Empty(t, scraper.ExtractListings("<table><tr><td>Company Name</td><td>x</td><td>y</td></tr></table>"))
}

func TestDeriveSymbol(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		extras   []string
		expected string
	}{
		{name: "strips Ltd and truncates to 12", input: "Zinka Logistics Solution Ltd", expected: "ZINKALOGISTI"},
		{name: "strips stacked suffixes", input: "Acme Technologies India Pvt Ltd", expected: "ACME"},
		{name: "keeps mid-name tokens", input: "Tech Mahindra", expected: "TECHMAHINDRA"},
		{name: "drops punctuation", input: "A.B.C. Bearings Ltd", expected: "ABCBEARINGS"},
		{name: "gmp extractor also strips IPO", input: "Swiggy Ltd IPO", extras: []string{"IPO"}, expected: "SWIGGY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveSymbol(tt.input, tt.extras...))
		})
	}
}

func TestCleanCompanyName(t *testing.T) {
	assert.Equal(t, "Swiggy Ltd", CleanCompanyName("Swiggy Ltd IPO"))
	assert.Equal(t, "Acme Pharma", CleanCompanyName("Acme Pharma (SME) IPO"))
	assert.Equal(t, "Plain Name", CleanCompanyName("Plain Name"))
}

func TestPriceBandUpper(t *testing.T) {
	upper := PriceBandUpper("259 - 273")
	require.NotNil(t, upper)
	assert.Equal(t, 273.0, *upper)

	single := PriceBandUpper("₹100")
	require.NotNil(t, single)
	assert.Equal(t, 100.0, *single)

	assert.Nil(t, PriceBandUpper("TBA"))
	assert.Nil(t, PriceBandUpper(""))
}
