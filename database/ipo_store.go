package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ipowatch/ipo-analyzer/models"
	"github.com/sirupsen/logrus"
)

// IPOStore persists scored IPO snapshots. The symbol is the natural
// key: a new snapshot for a known symbol replaces the stored row, so
// callers never mutate records in place.
type IPOStore struct {
	db *sql.DB
}

func NewIPOStore(db *sql.DB) *IPOStore {
	return &IPOStore{db: db}
}

// SaveBatch upserts a full pipeline run inside one transaction.
func (s *IPOStore) SaveBatch(ctx context.Context, records []models.ScoredIPO) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scored_ipos (
			id, symbol, company_name, open_date, close_date, status,
			price_range, lot_size, issue_size, min_investment, detail_url,
			gmp_premium, expected_listing, financials, scores, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (symbol) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			open_date = EXCLUDED.open_date,
			close_date = EXCLUDED.close_date,
			status = EXCLUDED.status,
			price_range = EXCLUDED.price_range,
			lot_size = EXCLUDED.lot_size,
			issue_size = EXCLUDED.issue_size,
			min_investment = EXCLUDED.min_investment,
			detail_url = EXCLUDED.detail_url,
			gmp_premium = EXCLUDED.gmp_premium,
			expected_listing = EXCLUDED.expected_listing,
			financials = EXCLUDED.financials,
			scores = EXCLUDED.scores,
			fetched_at = EXCLUDED.fetched_at,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	saved := 0
	for _, record := range records {
		financialsJSON, err := json.Marshal(record.Financials)
		if err != nil {
			logrus.WithError(err).WithField("symbol", record.Symbol).Error("Failed to marshal financials")
			continue
		}
		scoresJSON, err := json.Marshal(record.Scores)
		if err != nil {
			logrus.WithError(err).WithField("symbol", record.Symbol).Error("Failed to marshal scores")
			continue
		}

		_, err = stmt.ExecContext(ctx,
			record.ID, record.Symbol, record.CompanyName,
			record.OpenDate, record.CloseDate, record.Status,
			record.PriceRange, record.LotSize, record.IssueSize,
			record.MinInvestment, record.DetailURL,
			record.GMPPremium, record.ExpectedListing,
			financialsJSON, scoresJSON, record.FetchedAt,
		)
		if err != nil {
			logrus.WithError(err).WithField("symbol", record.Symbol).Error("Failed to upsert scored IPO")
			continue
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"saved": saved,
		"total": len(records),
	}).Info("Persisted scored IPO batch")
	return nil
}

// ListScoredIPOs returns every stored snapshot, freshest first.
func (s *IPOStore) ListScoredIPOs(ctx context.Context) ([]models.ScoredIPO, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, company_name, open_date, close_date, status,
		       price_range, lot_size, issue_size, min_investment, detail_url,
		       gmp_premium, expected_listing, financials, scores, fetched_at
		FROM scored_ipos
		ORDER BY fetched_at DESC, symbol
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query scored IPOs: %w", err)
	}
	defer rows.Close()

	var records []models.ScoredIPO
	for rows.Next() {
		record, err := scanScoredIPO(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// GetBySymbol returns the stored snapshot for one symbol, or
// sql.ErrNoRows.
func (s *IPOStore) GetBySymbol(ctx context.Context, symbol string) (models.ScoredIPO, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, symbol, company_name, open_date, close_date, status,
		       price_range, lot_size, issue_size, min_investment, detail_url,
		       gmp_premium, expected_listing, financials, scores, fetched_at
		FROM scored_ipos
		WHERE symbol = $1
	`, symbol)
	return scanScoredIPO(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScoredIPO(row rowScanner) (models.ScoredIPO, error) {
	var (
		record         models.ScoredIPO
		status         string
		financialsJSON []byte
		scoresJSON     []byte
	)
	err := row.Scan(
		&record.ID, &record.Symbol, &record.CompanyName,
		&record.OpenDate, &record.CloseDate, &status,
		&record.PriceRange, &record.LotSize, &record.IssueSize,
		&record.MinInvestment, &record.DetailURL,
		&record.GMPPremium, &record.ExpectedListing,
		&financialsJSON, &scoresJSON, &record.FetchedAt,
	)
	if err != nil {
		return models.ScoredIPO{}, err
	}
	record.Status = models.IPOStatus(status)

	if err := json.Unmarshal(financialsJSON, &record.Financials); err != nil {
		return models.ScoredIPO{}, fmt.Errorf("failed to unmarshal financials: %w", err)
	}
	if err := json.Unmarshal(scoresJSON, &record.Scores); err != nil {
		return models.ScoredIPO{}, fmt.Errorf("failed to unmarshal scores: %w", err)
	}
	return record, nil
}
