package services

import (
	"math"
	"math/rand"

	"github.com/ipowatch/ipo-analyzer/models"
)

// FinancialDataSource supplies the attribute bundle the scoring engine
// consumes. A production deployment plugs a filings-backed provider in
// here; the synthetic source below exists so scoring stays exercisable
// without a fundamentals feed.
type FinancialDataSource interface {
	FinancialsForSector(sector string) models.Financials
}

// metricRange is a closed [Min, Max] sampling interval.
type metricRange struct {
	Min, Max float64
}

// sectorProfile holds the sampling ranges and the fixed P/E median for
// one sector. Loaded once, never mutated.
type sectorProfile struct {
	RevenueGrowth   metricRange
	EBITDAMargin    metricRange
	PATMargin       metricRange
	ROE             metricRange
	ROCE            metricRange
	DebtToEquity    metricRange
	PERatio         metricRange
	PBRatio         metricRange
	FreshIssue      metricRange
	OFSRatio        metricRange
	PromoterHolding metricRange
	PEMedian        float64
}

var defaultSectorProfile = sectorProfile{
	RevenueGrowth:   metricRange{5, 30},
	EBITDAMargin:    metricRange{8, 22},
	PATMargin:       metricRange{4, 14},
	ROE:             metricRange{8, 22},
	ROCE:            metricRange{9, 24},
	DebtToEquity:    metricRange{0.2, 1.5},
	PERatio:         metricRange{12, 40},
	PBRatio:         metricRange{1.5, 6},
	FreshIssue:      metricRange{30, 100},
	OFSRatio:        metricRange{0, 0.7},
	PromoterHolding: metricRange{45, 85},
	PEMedian:        25,
}

var sectorProfiles = map[string]sectorProfile{
	"Healthcare": {
		RevenueGrowth:   metricRange{10, 35},
		EBITDAMargin:    metricRange{15, 30},
		PATMargin:       metricRange{8, 20},
		ROE:             metricRange{12, 28},
		ROCE:            metricRange{14, 30},
		DebtToEquity:    metricRange{0.1, 0.9},
		PERatio:         metricRange{20, 55},
		PBRatio:         metricRange{3, 9},
		FreshIssue:      metricRange{40, 100},
		OFSRatio:        metricRange{0, 0.6},
		PromoterHolding: metricRange{50, 85},
		PEMedian:        32,
	},
	"Technology": {
		RevenueGrowth:   metricRange{15, 50},
		EBITDAMargin:    metricRange{12, 28},
		PATMargin:       metricRange{6, 18},
		ROE:             metricRange{10, 30},
		ROCE:            metricRange{12, 32},
		DebtToEquity:    metricRange{0.0, 0.6},
		PERatio:         metricRange{25, 70},
		PBRatio:         metricRange{4, 12},
		FreshIssue:      metricRange{50, 100},
		OFSRatio:        metricRange{0, 0.5},
		PromoterHolding: metricRange{40, 80},
		PEMedian:        38,
	},
	"Financial Services": {
		RevenueGrowth:   metricRange{10, 30},
		EBITDAMargin:    metricRange{20, 45},
		PATMargin:       metricRange{10, 25},
		ROE:             metricRange{10, 22},
		ROCE:            metricRange{8, 18},
		DebtToEquity:    metricRange{1.0, 4.0},
		PERatio:         metricRange{10, 30},
		PBRatio:         metricRange{1, 4},
		FreshIssue:      metricRange{30, 100},
		OFSRatio:        metricRange{0, 0.7},
		PromoterHolding: metricRange{40, 75},
		PEMedian:        18,
	},
	"Energy": {
		RevenueGrowth:   metricRange{5, 25},
		EBITDAMargin:    metricRange{15, 35},
		PATMargin:       metricRange{6, 16},
		ROE:             metricRange{8, 20},
		ROCE:            metricRange{10, 22},
		DebtToEquity:    metricRange{0.5, 2.0},
		PERatio:         metricRange{10, 28},
		PBRatio:         metricRange{1.2, 4},
		FreshIssue:      metricRange{40, 100},
		OFSRatio:        metricRange{0, 0.5},
		PromoterHolding: metricRange{55, 90},
		PEMedian:        16,
	},
	"Consumer": {
		RevenueGrowth:   metricRange{8, 28},
		EBITDAMargin:    metricRange{8, 18},
		PATMargin:       metricRange{4, 12},
		ROE:             metricRange{12, 26},
		ROCE:            metricRange{14, 28},
		DebtToEquity:    metricRange{0.2, 1.2},
		PERatio:         metricRange{25, 65},
		PBRatio:         metricRange{4, 11},
		FreshIssue:      metricRange{25, 90},
		OFSRatio:        metricRange{0.1, 0.8},
		PromoterHolding: metricRange{50, 85},
		PEMedian:        42,
	},
	"Infrastructure": {
		RevenueGrowth:   metricRange{8, 30},
		EBITDAMargin:    metricRange{10, 24},
		PATMargin:       metricRange{4, 12},
		ROE:             metricRange{8, 18},
		ROCE:            metricRange{9, 20},
		DebtToEquity:    metricRange{0.8, 2.5},
		PERatio:         metricRange{10, 26},
		PBRatio:         metricRange{1, 3.5},
		FreshIssue:      metricRange{50, 100},
		OFSRatio:        metricRange{0, 0.4},
		PromoterHolding: metricRange{55, 90},
		PEMedian:        17,
	},
	"Logistics & Transport": {
		RevenueGrowth:   metricRange{10, 35},
		EBITDAMargin:    metricRange{6, 16},
		PATMargin:       metricRange{2, 9},
		ROE:             metricRange{8, 20},
		ROCE:            metricRange{10, 22},
		DebtToEquity:    metricRange{0.4, 1.8},
		PERatio:         metricRange{15, 45},
		PBRatio:         metricRange{2, 6},
		FreshIssue:      metricRange{35, 100},
		OFSRatio:        metricRange{0, 0.6},
		PromoterHolding: metricRange{45, 80},
		PEMedian:        24,
	},
	"Media & Entertainment": {
		RevenueGrowth:   metricRange{5, 30},
		EBITDAMargin:    metricRange{10, 25},
		PATMargin:       metricRange{4, 14},
		ROE:             metricRange{6, 18},
		ROCE:            metricRange{8, 20},
		DebtToEquity:    metricRange{0.2, 1.2},
		PERatio:         metricRange{18, 50},
		PBRatio:         metricRange{2, 7},
		FreshIssue:      metricRange{30, 95},
		OFSRatio:        metricRange{0, 0.7},
		PromoterHolding: metricRange{40, 75},
		PEMedian:        27,
	},
	"Chemicals & Materials": {
		RevenueGrowth:   metricRange{6, 26},
		EBITDAMargin:    metricRange{12, 26},
		PATMargin:       metricRange{6, 15},
		ROE:             metricRange{10, 24},
		ROCE:            metricRange{12, 26},
		DebtToEquity:    metricRange{0.3, 1.4},
		PERatio:         metricRange{14, 38},
		PBRatio:         metricRange{2, 6},
		FreshIssue:      metricRange{35, 100},
		OFSRatio:        metricRange{0, 0.6},
		PromoterHolding: metricRange{50, 85},
		PEMedian:        22,
	},
	"Education & Technology": {
		RevenueGrowth:   metricRange{12, 45},
		EBITDAMargin:    metricRange{8, 22},
		PATMargin:       metricRange{3, 12},
		ROE:             metricRange{8, 22},
		ROCE:            metricRange{10, 24},
		DebtToEquity:    metricRange{0.1, 0.8},
		PERatio:         metricRange{22, 60},
		PBRatio:         metricRange{3, 9},
		FreshIssue:      metricRange{45, 100},
		OFSRatio:        metricRange{0, 0.5},
		PromoterHolding: metricRange{40, 80},
		PEMedian:        30,
	},
}

// SyntheticFinancialSource draws sector-conditioned financial ratios at
// random within each sector's plausible band. The random source is
// injected so tests can seed it for reproducible bundles.
type SyntheticFinancialSource struct {
	rng *rand.Rand
}

func NewSyntheticFinancialSource(rng *rand.Rand) *SyntheticFinancialSource {
	return &SyntheticFinancialSource{rng: rng}
}

// FinancialsForSector synthesizes a full attribute bundle for the given
// sector. postIpoPromoterHolding models partial dilution from the
// offer-for-sale component: promoterHolding × (1 − ofsRatio × 0.3).
func (s *SyntheticFinancialSource) FinancialsForSector(sector string) models.Financials {
	profile, known := sectorProfiles[sector]
	if !known {
		profile = defaultSectorProfile
	}

	ofsRatio := s.sample(profile.OFSRatio)
	promoterHolding := s.sample(profile.PromoterHolding)
	postIPOHolding := round1(promoterHolding * (1 - ofsRatio*0.3))
	peMedian := profile.PEMedian

	return models.Financials{
		Sector:                 sector,
		RevenueGrowth:          ptr(s.sample(profile.RevenueGrowth)),
		EBITDAMargin:           ptr(s.sample(profile.EBITDAMargin)),
		PATMargin:              ptr(s.sample(profile.PATMargin)),
		ROE:                    ptr(s.sample(profile.ROE)),
		ROCE:                   ptr(s.sample(profile.ROCE)),
		DebtToEquity:           ptr(s.sample(profile.DebtToEquity)),
		PERatio:                ptr(s.sample(profile.PERatio)),
		PBRatio:                ptr(s.sample(profile.PBRatio)),
		SectorPEMedian:         &peMedian,
		FreshIssuePercent:      ptr(s.sample(profile.FreshIssue)),
		OFSRatio:               &ofsRatio,
		PromoterHolding:        &promoterHolding,
		PostIPOPromoterHolding: &postIPOHolding,
	}
}

func (s *SyntheticFinancialSource) sample(r metricRange) float64 {
	return round1(r.Min + s.rng.Float64()*(r.Max-r.Min))
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

func ptr(value float64) *float64 {
	return &value
}
