package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ipowatch/ipo-analyzer/models"
	"github.com/sirupsen/logrus"
)

var signedIntegerRegex = regexp.MustCompile(`[-+]?\d+`)

// GMPScraper extracts grey-market premium rows from one or more
// candidate pages. Sources are tried in priority order and the first
// page yielding at least one record wins.
type GMPScraper struct {
	fetcher    PageFetcher
	sourceURLs []string
}

func NewGMPScraper(fetcher PageFetcher, sourceURLs []string) *GMPScraper {
	return &GMPScraper{
		fetcher:    fetcher,
		sourceURLs: sourceURLs,
	}
}

// FetchGMPData walks the candidate sources in order. A fetch or parse
// failure moves on to the next source; running out of sources is not an
// error, it just means no premium data this run.
func (s *GMPScraper) FetchGMPData(ctx context.Context) map[string]models.GMPRecord {
	for _, sourceURL := range s.sourceURLs {
		html, err := s.fetcher.FetchPage(ctx, sourceURL)
		if err != nil {
			logrus.WithError(err).WithField("url", sourceURL).
				Warn("GMP source fetch failed, trying next source")
			continue
		}

		records := ExtractGMPRecords(html)
		if len(records) > 0 {
			logrus.WithFields(logrus.Fields{
				"url":     sourceURL,
				"records": len(records),
			}).Info("Extracted GMP records")
			return records
		}
	}

	logrus.Warn("No GMP source yielded records")
	return map[string]models.GMPRecord{}
}

// ExtractGMPRecords parses every table row of a GMP page into records
// keyed by derived symbol. Within a page the first occurrence of a
// symbol wins; later duplicates are dropped.
func ExtractGMPRecords(html string) map[string]models.GMPRecord {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logrus.WithError(err).Warn("Failed to parse GMP HTML")
		return map[string]models.GMPRecord{}
	}

	records := make(map[string]models.GMPRecord)

	document.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		nameText := strings.TrimSpace(cells.Eq(0).Text())
		if len(nameText) < 3 || isHeaderText(nameText) {
			return
		}

		symbol := DeriveSymbol(CleanCompanyName(nameText), "IPO")
		if len(symbol) < 3 {
			return
		}
		if _, exists := records[symbol]; exists {
			return
		}

		record := models.GMPRecord{
			Symbol:  symbol,
			Premium: firstSignedInteger(cells.Eq(1).Text()),
		}
		if cells.Length() > 2 {
			record.ExpectedListing = firstUnsignedInteger(cells.Eq(2).Text())
		}

		records[symbol] = record
	})

	return records
}

// firstSignedInteger extracts the first signed-or-unsigned integer
// substring; 0 when the cell has none.
func firstSignedInteger(text string) int {
	match := signedIntegerRegex.FindString(strings.ReplaceAll(text, ",", ""))
	if match == "" {
		return 0
	}
	value, err := strconv.Atoi(strings.TrimPrefix(match, "+"))
	if err != nil {
		return 0
	}
	return value
}

// firstUnsignedInteger extracts the first unsigned integer substring;
// 0 when the cell has none.
func firstUnsignedInteger(text string) int {
	match := firstIntegerRegex.FindString(strings.ReplaceAll(text, ",", ""))
	if match == "" {
		return 0
	}
	value, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return value
}
