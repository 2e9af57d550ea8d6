package services

import "strings"

// DefaultSector is assigned when no keyword list matches.
const DefaultSector = "Industrial"

// sectorKeywordEntry pairs a sector label with the name keywords that
// map onto it. Order matters: the table is scanned top to bottom and
// the first matching sector wins.
type sectorKeywordEntry struct {
	sector   string
	keywords []string
}

// sectorKeywords is deliberately a coarse heuristic. False positives
// are acceptable; it only fills in when no explicit sector is supplied.
var sectorKeywords = []sectorKeywordEntry{
	{"Healthcare", []string{"pharma", "health", "hospital", "medic", "diagnostic", "lifescience", "life science", "bio"}},
	{"Technology", []string{"software", "digital", "cyber", "data", "cloud", "info", "systems", "solutions", "tech"}},
	{"Financial Services", []string{"finance", "financial", "bank", "capital", "invest", "insurance", "securities", "fintech", "nbfc"}},
	{"Energy", []string{"energy", "power", "solar", "renewable", "electric", "green", "wind", "petro", "oil", "gas"}},
	{"Consumer", []string{"consumer", "retail", "food", "beverage", "apparel", "fashion", "fmcg", "dairy", "agro"}},
	{"Infrastructure", []string{"infrastructure", "construction", "cement", "realty", "real estate", "housing", "builder", "engineering"}},
	{"Logistics & Transport", []string{"logistics", "transport", "shipping", "cargo", "freight", "courier", "supply chain"}},
	{"Media & Entertainment", []string{"media", "entertainment", "film", "studio", "broadcast", "gaming", "music"}},
	{"Chemicals & Materials", []string{"chemical", "polymer", "plastic", "speciality", "specialty", "material", "steel", "metal", "alloy"}},
	{"Education & Technology", []string{"education", "learning", "edtech", "academy", "training", "school"}},
}

// ClassifySector infers an industry sector from keyword matches in the
// company name.
func ClassifySector(companyName string) string {
	lower := strings.ToLower(companyName)
	for _, entry := range sectorKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.sector
			}
		}
	}
	return DefaultSector
}
