package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ipowatch/ipo-analyzer/models"
	"github.com/sirupsen/logrus"
)

// ErrNoListings is the one hard failure the pipeline surfaces: both
// listings sources produced zero usable rows, so there is nothing to
// score.
var ErrNoListings = errors.New("no listings extracted from any source")

// PageFetcher retrieves the raw HTML of one page. Implementations live
// in shared; tests inject stubs.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// PipelineConfig names the source endpoints one run consumes.
type PipelineConfig struct {
	ListingsURL         string
	ListingsFallbackURL string
	GMPSourceURLs       []string
}

// Pipeline runs one full ingest-normalize-score pass: both sources are
// fetched concurrently, listings are joined with GMP data by symbol,
// and every listing is enriched and scored before the batch is handed
// back to the caller.
type Pipeline struct {
	fetcher    PageFetcher
	listings   *ListingScraper
	gmp        *GMPScraper
	financials FinancialDataSource
	config     PipelineConfig
}

func NewPipeline(fetcher PageFetcher, listings *ListingScraper, financials FinancialDataSource, config PipelineConfig) *Pipeline {
	return &Pipeline{
		fetcher:    fetcher,
		listings:   listings,
		gmp:        NewGMPScraper(fetcher, config.GMPSourceURLs),
		financials: financials,
		config:     config,
	}
}

// Run executes one pipeline pass. The two source fetches fail
// independently: a dead GMP source degrades to premium-less records,
// while listings falling through both sources aborts the run with
// ErrNoListings.
func (p *Pipeline) Run(ctx context.Context) ([]models.ScoredIPO, error) {
	startTime := time.Now()

	var (
		rawListings []models.RawListing
		gmpRecords  map[string]models.GMPRecord
		wg          sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rawListings = p.fetchListings(ctx)
	}()
	go func() {
		defer wg.Done()
		gmpRecords = p.gmp.FetchGMPData(ctx)
	}()
	wg.Wait()

	if len(rawListings) == 0 {
		return nil, ErrNoListings
	}

	scored := make([]models.ScoredIPO, 0, len(rawListings))
	for _, listing := range rawListings {
		record := p.buildScoredIPO(listing, gmpRecords)
		scored = append(scored, record)
	}

	logrus.WithFields(logrus.Fields{
		"listings":    len(rawListings),
		"gmp_records": len(gmpRecords),
		"duration":    time.Since(startTime),
	}).Info("Pipeline run completed")

	return scored, nil
}

// fetchListings tries the primary source and falls back to the
// secondary when the primary yields nothing, either because the fetch
// failed or because neither template matched its markup.
func (p *Pipeline) fetchListings(ctx context.Context) []models.RawListing {
	for _, sourceURL := range []string{p.config.ListingsURL, p.config.ListingsFallbackURL} {
		if sourceURL == "" {
			continue
		}
		html, err := p.fetcher.FetchPage(ctx, sourceURL)
		if err != nil {
			logrus.WithError(err).WithField("url", sourceURL).
				Warn("Listings source fetch failed")
			continue
		}
		listings := p.listings.ExtractListings(html)
		if len(listings) > 0 {
			logrus.WithFields(logrus.Fields{
				"url":  sourceURL,
				"rows": len(listings),
			}).Info("Extracted listings")
			return listings
		}
		logrus.WithField("url", sourceURL).Warn("Listings source yielded no rows")
	}
	return nil
}

func (p *Pipeline) buildScoredIPO(listing models.RawListing, gmpRecords map[string]models.GMPRecord) models.ScoredIPO {
	sector := ClassifySector(listing.CompanyName)
	financials := p.financials.FinancialsForSector(sector)

	record := models.ScoredIPO{
		ID:          uuid.New(),
		Symbol:      listing.Symbol,
		CompanyName: listing.CompanyName,
		OpenDate:    NormalizeDate(listing.OpenDateText),
		CloseDate:   NormalizeDate(listing.CloseDateText),
		Status:      listing.Status,
		PriceRange:  listing.PriceRange,
		LotSize:     listing.LotSize,
		IssueSize:   listing.IssueSize,
		DetailURL:   listing.DetailURL,
		Financials:  financials,
		Scores:      Score(financials),
		FetchedAt:   time.Now(),
	}

	if gmp, matched := gmpRecords[listing.Symbol]; matched {
		premium := gmp.Premium
		record.GMPPremium = &premium
		if gmp.ExpectedListing > 0 {
			expected := gmp.ExpectedListing
			record.ExpectedListing = &expected
		}
	}

	if upper := PriceBandUpper(listing.PriceRange); upper != nil && listing.LotSize > 0 {
		record.MinInvestment = fmt.Sprintf("₹%.0f", *upper*float64(listing.LotSize))
	}

	return record
}
