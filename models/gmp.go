package models

// GMPRecord is one grey-market premium row keyed by derived symbol.
// Premium may be negative when the issue trades at a discount;
// ExpectedListing of 0 means the source did not publish one.
type GMPRecord struct {
	Symbol          string `json:"symbol"`
	Premium         int    `json:"premium"`
	ExpectedListing int    `json:"expected_listing"`
}
