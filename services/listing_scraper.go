package services

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ipowatch/ipo-analyzer/models"
	"github.com/sirupsen/logrus"
)

// TableTemplate maps the positional column layout of one known listings
// page. Keeping the positions in explicit configuration localizes the
// brittleness of heuristic table parsing to this table.
type TableTemplate struct {
	Name          string
	NameCol       int
	DateCol       int
	CloseDateCol  int // used only when CombinedDates is false
	PriceCol      int
	IssueSizeCol  int
	LotSizeCol    int
	MinColumns    int
	CombinedDates bool
}

// The two layouts currently in the wild: the report view packs both
// dates into one range cell, the dashboard view splits them.
var (
	primaryTemplate = TableTemplate{
		Name:          "report",
		NameCol:       0,
		DateCol:       1,
		PriceCol:      2,
		IssueSizeCol:  3,
		LotSizeCol:    4,
		MinColumns:    3,
		CombinedDates: true,
	}
	// The dashboard layout leads with a serial-number column and splits
	// the subscription dates into separate cells.
	fallbackTemplate = TableTemplate{
		Name:         "dashboard",
		NameCol:      1,
		DateCol:      2,
		CloseDateCol: 3,
		PriceCol:     4,
		IssueSizeCol: 5,
		LotSizeCol:   6,
		MinColumns:   4,
	}
)

// corporateSuffixTokens are trailing name tokens dropped before a
// trading symbol is derived from a company name.
var corporateSuffixTokens = map[string]bool{
	"ltd": true, "limited": true, "india": true, "private": true,
	"pvt": true, "technologies": true, "tech": true,
	"industries": true, "infra": true,
}

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^A-Za-z0-9]`)
	parentheticalRegex   = regexp.MustCompile(`\s*\([^)]*\)`)
	firstIntegerRegex    = regexp.MustCompile(`\d+`)
	decimalNumberRegex   = regexp.MustCompile(`\d+\.?\d*`)
)

// ListingScraper extracts RawListing rows from the tabular HTML of a
// listings page. It is stateless apart from the injected clock.
type ListingScraper struct {
	baseURL string
	now     func() time.Time
}

func NewListingScraper(baseURL string) *ListingScraper {
	return &ListingScraper{
		baseURL: baseURL,
		now:     time.Now,
	}
}

// ExtractListings walks every table in the document with the primary
// template and, if that yields nothing, retries with the fallback
// template. Rows that fail structural preconditions are dropped
// silently; a shifted layout degrades to partial extraction.
func (s *ListingScraper) ExtractListings(html string) []models.RawListing {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logrus.WithError(err).Warn("Failed to parse listings HTML")
		return nil
	}

	listings := s.extractWithTemplate(document, primaryTemplate)
	if len(listings) == 0 {
		logrus.WithField("template", fallbackTemplate.Name).
			Debug("Primary listings template yielded no rows, trying fallback")
		listings = s.extractWithTemplate(document, fallbackTemplate)
	}
	return listings
}

func (s *ListingScraper) extractWithTemplate(document *goquery.Document, template TableTemplate) []models.RawListing {
	var listings []models.RawListing
	seen := make(map[string]bool)

	document.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < template.MinColumns {
			return
		}

		nameCell := cells.Eq(template.NameCol)
		nameText := strings.TrimSpace(nameCell.Text())
		if len(nameText) < 3 || isHeaderText(nameText) {
			return
		}

		companyName := CleanCompanyName(nameText)
		symbol := DeriveSymbol(companyName)
		if len(symbol) < 3 || seen[symbol] {
			return
		}

		listing := models.RawListing{
			Symbol:      symbol,
			CompanyName: companyName,
			DetailURL:   s.resolveDetailURL(nameCell),
		}

		if template.CombinedDates {
			listing.OpenDateText, listing.CloseDateText = SplitDateRange(cellText(cells, template.DateCol))
		} else {
			listing.OpenDateText = cellText(cells, template.DateCol)
			listing.CloseDateText = cellText(cells, template.CloseDateCol)
		}
		listing.PriceRange = cellText(cells, template.PriceCol)
		listing.IssueSize = cellText(cells, template.IssueSizeCol)
		listing.LotSize = parseLotSize(cellText(cells, template.LotSizeCol))

		openDate := NormalizeDate(listing.OpenDateText)
		closeDate := NormalizeDate(listing.CloseDateText)
		listing.Status = DeriveStatus(openDate, closeDate, s.now())

		seen[symbol] = true
		listings = append(listings, listing)
	})

	logrus.WithFields(logrus.Fields{
		"template": template.Name,
		"rows":     len(listings),
	}).Debug("Extracted listings with template")

	return listings
}

// cellText returns the trimmed text of column idx, or "" when the row
// has fewer columns than the template allows for.
func cellText(cells *goquery.Selection, idx int) string {
	if idx >= cells.Length() {
		return ""
	}
	return strings.TrimSpace(cells.Eq(idx).Text())
}

// isHeaderText detects rows whose name cell is a column header rather
// than a company name.
func isHeaderText(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "company") || strings.Contains(lower, "ipo name")
}

// CleanCompanyName strips the trailing " IPO" marker and any
// parenthetical annotation from a scraped company name.
func CleanCompanyName(name string) string {
	name = parentheticalRegex.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	for {
		trimmed := strings.TrimSuffix(name, " IPO")
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == name {
			break
		}
		name = trimmed
	}
	return name
}

// DeriveSymbol builds a trading symbol from a company name: trailing
// corporate suffix tokens go first, then everything non-alphanumeric,
// and the uppercased remainder is capped at 12 characters. extraSuffixes
// lets callers widen the suffix set (the GMP tables append "IPO").
func DeriveSymbol(companyName string, extraSuffixes ...string) string {
	words := strings.Fields(companyName)

	extras := make(map[string]bool, len(extraSuffixes))
	for _, suffix := range extraSuffixes {
		extras[strings.ToLower(suffix)] = true
	}

	for len(words) > 0 {
		last := strings.ToLower(nonAlphanumericRegex.ReplaceAllString(words[len(words)-1], ""))
		if corporateSuffixTokens[last] || extras[last] {
			words = words[:len(words)-1]
			continue
		}
		break
	}

	symbol := nonAlphanumericRegex.ReplaceAllString(strings.Join(words, ""), "")
	symbol = strings.ToUpper(symbol)
	if len(symbol) > 12 {
		symbol = symbol[:12]
	}
	return symbol
}

// resolveDetailURL keeps absolute detail links as-is and resolves
// site-relative ones against the configured base URL.
func (s *ListingScraper) resolveDetailURL(nameCell *goquery.Selection) string {
	href, exists := nameCell.Find("a").First().Attr("href")
	if !exists || href == "" {
		return ""
	}
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// parseLotSize extracts the first integer from a lot-size cell;
// 0 means unknown.
func parseLotSize(text string) int {
	match := firstIntegerRegex.FindString(strings.ReplaceAll(text, ",", ""))
	if match == "" {
		return 0
	}
	lot, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return lot
}

// PriceBandUpper pulls the upper bound out of a price-range cell like
// "95 - 100" or "₹100". Returns nil when the cell holds no number.
func PriceBandUpper(priceRange string) *float64 {
	text := strings.NewReplacer("₹", "", "Rs.", "", "Rs ", "", ",", "").Replace(priceRange)
	text = strings.TrimSpace(text)

	for _, separator := range []string{" - ", "-", " to ", "to", "–"} {
		if strings.Contains(text, separator) {
			parts := strings.Split(text, separator)
			text = strings.TrimSpace(parts[len(parts)-1])
			break
		}
	}

	match := decimalNumberRegex.FindString(text)
	if match == "" {
		return nil
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &value
}
