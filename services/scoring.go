package services

import (
	"fmt"

	"github.com/ipowatch/ipo-analyzer/models"
)

// Scoring thresholds. The risk labels intentionally map a high-quality
// offering to "conservative": product frames a well-run IPO as the
// lower-risk subscription.
const (
	riskConservativeFloor = 7.5
	recommendSubscribe    = 6.0
	riskModerateFloor     = 4.0

	redFlagOFSRatio     = 0.6
	redFlagPEPremium    = 1.5
	redFlagDebtToEquity = 1.5
	redFlagPromoterDrop = 15.0
	proRevenueGrowth    = 25.0
	proDebtToEquity     = 0.5
	proPostIPOHolding   = 60.0
)

// Score computes the three sub-scores, the weighted overall score and
// the narrative annotations for one financial-attribute bundle. It is a
// pure function: identical bundles always yield identical results, and
// nil inputs skip their contribution instead of counting as zero. It
// never fails; an all-nil bundle produces all-nil scores.
func Score(f models.Financials) models.ScoreResult {
	result := models.ScoreResult{
		FundamentalsScore: fundamentalsScore(f),
		ValuationScore:    valuationScore(f),
		GovernanceScore:   governanceScore(f),
		RedFlags:          collectRedFlags(f),
		Pros:              collectPros(f),
	}
	result.OverallScore = overallScore(result)
	result.RiskLevel, result.Recommendation = classifyRisk(result.OverallScore)
	return result
}

// scoreAccumulator averages clamped 0–10 metric contributions,
// tracking how many inputs actually participated.
type scoreAccumulator struct {
	total float64
	count int
}

func (a *scoreAccumulator) add(value *float64, scale func(float64) float64) {
	if value == nil {
		return
	}
	a.total += scale(*value)
	a.count++
}

func (a *scoreAccumulator) score() *float64 {
	if a.count == 0 {
		return nil
	}
	avg := round1(a.total / float64(a.count))
	return &avg
}

// fundamentalsScore aggregates growth, margins, returns and inverted
// leverage via fixed breakpoint ladders per metric.
func fundamentalsScore(f models.Financials) *float64 {
	var acc scoreAccumulator
	acc.add(f.RevenueGrowth, ladder(30, 20, 10, 5))
	acc.add(f.EBITDAMargin, ladder(25, 18, 12, 8))
	acc.add(f.PATMargin, ladder(15, 10, 6, 3))
	acc.add(f.ROE, ladder(20, 15, 10, 5))
	acc.add(f.ROCE, ladder(20, 15, 10, 5))
	acc.add(f.DebtToEquity, invertedLadder(0.3, 0.7, 1.0, 1.5))
	return acc.score()
}

// valuationScore rewards pricing below the sector P/E median and
// penalizes large premiums; price-to-book acts as the secondary check.
func valuationScore(f models.Financials) *float64 {
	var total, weight float64

	if f.PERatio != nil && f.SectorPEMedian != nil && *f.SectorPEMedian > 0 {
		premium := *f.PERatio / *f.SectorPEMedian
		var points float64
		switch {
		case premium <= 0.8:
			points = 10
		case premium <= 1.0:
			points = 8
		case premium <= 1.2:
			points = 6
		case premium <= 1.5:
			points = 4
		case premium <= 2.0:
			points = 2
		default:
			points = 0
		}
		total += points * 0.7
		weight += 0.7
	}

	if f.PBRatio != nil {
		var points float64
		switch {
		case *f.PBRatio <= 2:
			points = 10
		case *f.PBRatio <= 4:
			points = 7
		case *f.PBRatio <= 6:
			points = 5
		case *f.PBRatio <= 8:
			points = 3
		default:
			points = 1
		}
		total += points * 0.3
		weight += 0.3
	}

	if weight == 0 {
		return nil
	}
	score := round1(total / weight)
	return &score
}

// governanceScore penalizes a heavy offer-for-sale component (promoters
// cashing out) and large promoter-holding drops across the listing.
func governanceScore(f models.Financials) *float64 {
	var acc scoreAccumulator

	acc.add(f.OFSRatio, func(ofs float64) float64 {
		switch {
		case ofs <= 0.2:
			return 10
		case ofs <= 0.4:
			return 8
		case ofs <= 0.6:
			return 5
		case ofs <= 0.8:
			return 3
		default:
			return 1
		}
	})

	if f.PromoterHolding != nil && f.PostIPOPromoterHolding != nil {
		drop := *f.PromoterHolding - *f.PostIPOPromoterHolding
		acc.add(&drop, func(d float64) float64 {
			switch {
			case d <= 5:
				return 10
			case d <= 10:
				return 7
			case d <= 15:
				return 5
			case d <= 25:
				return 3
			default:
				return 1
			}
		})
	}

	return acc.score()
}

// overallScore is the equal-weight average of the sub-scores,
// renormalized over whichever of them are present.
func overallScore(r models.ScoreResult) *float64 {
	var acc scoreAccumulator
	identity := func(v float64) float64 { return v }
	acc.add(r.FundamentalsScore, identity)
	acc.add(r.ValuationScore, identity)
	acc.add(r.GovernanceScore, identity)
	return acc.score()
}

func classifyRisk(overall *float64) (models.RiskLevel, string) {
	if overall == nil {
		return models.RiskModerate, "Insufficient data"
	}
	switch {
	case *overall >= riskConservativeFloor:
		return models.RiskConservative, "Subscribe"
	case *overall >= recommendSubscribe:
		return models.RiskModerate, "Subscribe for listing gains"
	case *overall >= riskModerateFloor:
		return models.RiskModerate, "Neutral"
	default:
		return models.RiskAggressive, "Avoid"
	}
}

// collectRedFlags emits diagnostics in fixed check order so a given
// bundle always produces an identically-ordered list.
func collectRedFlags(f models.Financials) []string {
	flags := []string{}

	if f.OFSRatio != nil && *f.OFSRatio > redFlagOFSRatio {
		flags = append(flags, fmt.Sprintf("High offer-for-sale component: %.0f%% of the issue is existing holders exiting", *f.OFSRatio*100))
	}
	if f.PERatio != nil && f.SectorPEMedian != nil && *f.SectorPEMedian > 0 &&
		*f.PERatio > redFlagPEPremium**f.SectorPEMedian {
		flags = append(flags, fmt.Sprintf("Priced at a steep premium: P/E %.1f vs sector median %.1f", *f.PERatio, *f.SectorPEMedian))
	}
	if f.DebtToEquity != nil && *f.DebtToEquity > redFlagDebtToEquity {
		flags = append(flags, fmt.Sprintf("High leverage: debt-to-equity of %.1f", *f.DebtToEquity))
	}
	if f.PromoterHolding != nil && f.PostIPOPromoterHolding != nil &&
		*f.PromoterHolding-*f.PostIPOPromoterHolding > redFlagPromoterDrop {
		flags = append(flags, fmt.Sprintf("Promoter holding drops %.1f points post listing", *f.PromoterHolding-*f.PostIPOPromoterHolding))
	}

	return flags
}

// collectPros mirrors collectRedFlags for favorable conditions, in the
// same fixed metric order.
func collectPros(f models.Financials) []string {
	pros := []string{}

	if f.RevenueGrowth != nil && *f.RevenueGrowth >= proRevenueGrowth {
		pros = append(pros, fmt.Sprintf("Strong revenue growth of %.1f%%", *f.RevenueGrowth))
	}
	if f.PERatio != nil && f.SectorPEMedian != nil && *f.PERatio < *f.SectorPEMedian {
		pros = append(pros, fmt.Sprintf("Priced below the sector P/E median (%.1f vs %.1f)", *f.PERatio, *f.SectorPEMedian))
	}
	if f.DebtToEquity != nil && *f.DebtToEquity <= proDebtToEquity {
		pros = append(pros, fmt.Sprintf("Low leverage: debt-to-equity of %.1f", *f.DebtToEquity))
	}
	if f.PostIPOPromoterHolding != nil && *f.PostIPOPromoterHolding >= proPostIPOHolding {
		pros = append(pros, fmt.Sprintf("Promoters retain %.1f%% post listing", *f.PostIPOPromoterHolding))
	}

	return pros
}

// ladder maps a metric to 10/7.5/5/2.5/0 points at the given descending
// breakpoints; higher is better.
func ladder(full, high, mid, low float64) func(float64) float64 {
	return func(value float64) float64 {
		switch {
		case value >= full:
			return 10
		case value >= high:
			return 7.5
		case value >= mid:
			return 5
		case value >= low:
			return 2.5
		default:
			return 0
		}
	}
}

// invertedLadder is the same shape for metrics where lower is better
// (leverage).
func invertedLadder(full, high, mid, low float64) func(float64) float64 {
	return func(value float64) float64 {
		switch {
		case value <= full:
			return 10
		case value <= high:
			return 7.5
		case value <= mid:
			return 5
		case value <= low:
			return 2.5
		default:
			return 0
		}
	}
}
