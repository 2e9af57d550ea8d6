package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ipowatch/ipo-analyzer/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testListingsURL         = "https://listings.example/report"
	testListingsFallbackURL = "https://listings.example/dashboard"
	testGMPURL              = "https://gmp.example/live"
)

// staticFinancialSource hands back one fixed bundle so pipeline
// assertions are not coupled to random sampling.
type staticFinancialSource struct {
	bundle models.Financials
}

func (s staticFinancialSource) FinancialsForSector(sector string) models.Financials {
	bundle := s.bundle
	bundle.Sector = sector
	return bundle
}

func newTestPipeline(fetcher *stubFetcher) *Pipeline {
	return NewPipeline(fetcher, newTestListingScraper(), staticFinancialSource{
		bundle: models.Financials{RevenueGrowth: fval(20), PBRatio: fval(3)},
	}, PipelineConfig{
		ListingsURL:         testListingsURL,
		ListingsFallbackURL: testListingsFallbackURL,
		GMPSourceURLs:       []string{testGMPURL},
	})
}

func TestPipelineRunJoinsListingsWithGMP(t *testing.T) {
	pipeline := newTestPipeline(&stubFetcher{pages: map[string]string{
		testListingsURL: reportTemplateHTML,
		testGMPURL:      gmpTableHTML,
	}})

	scored, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, scored, 2)

	zinka := scored[0]
	assert.Equal(t, "ZINKALOGISTI", zinka.Symbol)
	assert.NotEqual(t, uuid.Nil, zinka.ID, "every record gets a fresh identifier")
	require.NotNil(t, zinka.GMPPremium)
	assert.Equal(t, 25, *zinka.GMPPremium)
	require.NotNil(t, zinka.ExpectedListing)
	assert.Equal(t, 298, *zinka.ExpectedListing)
	assert.Nil(t, zinka.OpenDate, "open text without a year stays unknown")
	require.NotNil(t, zinka.CloseDate)
	assert.Equal(t, "2024-11-18", *zinka.CloseDate)
	assert.Equal(t, "₹14742", zinka.MinInvestment, "upper band 273 times lot 54")
	assert.Equal(t, "Logistics & Transport", zinka.Financials.Sector)
	require.NotNil(t, zinka.Scores.OverallScore)
	assert.WithinDuration(t, time.Now(), zinka.FetchedAt, time.Minute)

	acme := scored[1]
	assert.Equal(t, "ACMEPHARMA", acme.Symbol)
	require.NotNil(t, acme.GMPPremium)
	assert.Equal(t, -15, *acme.GMPPremium)
	require.NotNil(t, acme.ExpectedListing)
	assert.Equal(t, 85, *acme.ExpectedListing)
	assert.Empty(t, acme.MinInvestment, "unknown lot size leaves the investment floor blank")
	assert.Equal(t, "Healthcare", acme.Financials.Sector)
}

func TestPipelineRunToleratesGMPFailure(t *testing.T) {
	pipeline := newTestPipeline(&stubFetcher{pages: map[string]string{
		testListingsURL: reportTemplateHTML,
	}})

	scored, err := pipeline.Run(context.Background())
	require.NoError(t, err, "a dead GMP source must not fail the run")
	require.Len(t, scored, 2)

	for _, record := range scored {
		assert.Nil(t, record.GMPPremium)
		assert.Nil(t, record.ExpectedListing)
		require.NotNil(t, record.Scores.OverallScore, "scoring proceeds without premium data")
	}
}

func TestPipelineRunFallsBackToSecondaryListingsSource(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		testListingsFallbackURL: dashboardTemplateHTML,
	}}
	pipeline := newTestPipeline(fetcher)

	scored, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, scored, 1)
	assert.Equal(t, "BHARATINFRAP", scored[0].Symbol)
	assert.Contains(t, fetcher.calls, testListingsURL, "primary source is always tried first")
}

func TestPipelineRunNoListingsAnywhere(t *testing.T) {
	pipeline := newTestPipeline(&stubFetcher{pages: map[string]string{}})

	scored, err := pipeline.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoListings)
	assert.Nil(t, scored)
}
