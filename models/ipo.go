package models

import (
	"time"

	"github.com/google/uuid"
)

// IPOStatus describes where an issue sits in its subscription lifecycle.
type IPOStatus string

const (
	StatusUpcoming IPOStatus = "upcoming"
	StatusOpen     IPOStatus = "open"
	StatusClosed   IPOStatus = "closed"
)

// RiskLevel classifies an issue by its composite quality score. A
// well-scored offering is labelled conservative, a poorly-scored one
// aggressive.
type RiskLevel string

const (
	RiskConservative RiskLevel = "conservative"
	RiskModerate     RiskLevel = "moderate"
	RiskAggressive   RiskLevel = "aggressive"
)

// RawListing is one row extracted from a listings table, before any
// enrichment. Date and price fields stay as raw text until normalization.
type RawListing struct {
	Symbol        string    `json:"symbol"`
	CompanyName   string    `json:"company_name"`
	OpenDateText  string    `json:"open_date_text"`
	CloseDateText string    `json:"close_date_text"`
	PriceRange    string    `json:"price_range"`
	LotSize       int       `json:"lot_size"`
	IssueSize     string    `json:"issue_size"`
	Status        IPOStatus `json:"status"`
	DetailURL     string    `json:"detail_url"`
}

// Financials is the attribute bundle consumed by the scoring engine.
// Every metric is nullable; a nil field means the source had no value
// and its scoring contribution is skipped, not zeroed.
type Financials struct {
	Sector                 string   `json:"sector"`
	RevenueGrowth          *float64 `json:"revenue_growth"`
	EBITDAMargin           *float64 `json:"ebitda_margin"`
	PATMargin              *float64 `json:"pat_margin"`
	ROE                    *float64 `json:"roe"`
	ROCE                   *float64 `json:"roce"`
	DebtToEquity           *float64 `json:"debt_to_equity"`
	PERatio                *float64 `json:"pe_ratio"`
	PBRatio                *float64 `json:"pb_ratio"`
	SectorPEMedian         *float64 `json:"sector_pe_median"`
	FreshIssuePercent      *float64 `json:"fresh_issue_percent"`
	OFSRatio               *float64 `json:"ofs_ratio"`
	PromoterHolding        *float64 `json:"promoter_holding"`
	PostIPOPromoterHolding *float64 `json:"post_ipo_promoter_holding"`
}

// ScoreResult carries the three sub-scores, the weighted overall score
// and the qualitative annotations derived from them. Scores are nil when
// the input bundle had no contributing fields.
type ScoreResult struct {
	FundamentalsScore *float64  `json:"fundamentals_score"`
	ValuationScore    *float64  `json:"valuation_score"`
	GovernanceScore   *float64  `json:"governance_score"`
	OverallScore      *float64  `json:"overall_score"`
	RiskLevel         RiskLevel `json:"risk_level"`
	Recommendation    string    `json:"recommendation"`
	RedFlags          []string  `json:"red_flags"`
	Pros              []string  `json:"pros"`
}

// ScoredIPO is the fully-enriched record handed to the storage layer.
// It is an immutable snapshot: a later pipeline run produces a new
// snapshot for the same symbol rather than mutating this one.
type ScoredIPO struct {
	ID          uuid.UUID `json:"id"`
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name"`

	OpenDate  *string   `json:"open_date"`  // ISO YYYY-MM-DD
	CloseDate *string   `json:"close_date"` // ISO YYYY-MM-DD
	Status    IPOStatus `json:"status"`

	PriceRange    string `json:"price_range"`
	LotSize       int    `json:"lot_size"`
	IssueSize     string `json:"issue_size"`
	MinInvestment string `json:"min_investment"`
	DetailURL     string `json:"detail_url"`

	GMPPremium      *int `json:"gmp_premium"`
	ExpectedListing *int `json:"expected_listing"`

	Financials Financials  `json:"financials"`
	Scores     ScoreResult `json:"scores"`

	FetchedAt time.Time `json:"fetched_at"`
}
