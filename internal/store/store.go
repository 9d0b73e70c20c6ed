// Package store persists matched trades in an embedded SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tradelens/analytics-backend/pkg/types"
)

// ErrAccountNotFound is returned when the requested account has never
// imported trades.
var ErrAccountNotFound = errors.New("account not found")

// TradeStore provides access to matched trades per account. Decimal
// columns are stored as TEXT so values round-trip exactly.
type TradeStore struct {
	logger *zap.Logger
	db     *sql.DB
}

// Open opens (creating if needed) the trade database at path and applies
// the schema. Use ":memory:" for an ephemeral store.
func Open(logger *zap.Logger, path string) (*TradeStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open trade database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.Info("Trade store opened", zap.String("path", path))

	return &TradeStore{logger: logger, db: db}, nil
}

// ImportTrades registers the account if needed and appends the matched
// trades in one transaction.
func (s *TradeStore) ImportTrades(ctx context.Context, accountID string, trades []types.MatchedTrade) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (id, created_at) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING`,
		accountID, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("register account: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO matched_trades
		(account_id, symbol, buy_date, sell_date, buy_time, sell_time,
		 quantity, buy_price, sell_price, profit, commission, duration_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		if _, err := stmt.ExecContext(ctx,
			accountID, t.Symbol, t.BuyDate, t.SellDate, t.BuyTime, t.SellTime,
			t.Quantity.String(), t.BuyPrice.String(), t.SellPrice.String(),
			t.Profit.String(), t.Commission.String(), t.DurationMinutes,
		); err != nil {
			return fmt.Errorf("insert trade %s: %w", t.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	s.logger.Debug("Trades imported",
		zap.String("account", accountID),
		zap.Int("count", len(trades)),
	)

	return nil
}

// ListTrades returns the account's matched trades whose sell date falls
// within [from, to], ordered ascending by sell date. A zero "to" means
// no upper bound. An unknown account yields ErrAccountNotFound; a known
// account with no trades in range yields an empty slice.
func (s *TradeStore) ListTrades(ctx context.Context, accountID string, from, to time.Time) ([]types.MatchedTrade, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM accounts WHERE id = ?`, accountID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check account %s: %w", accountID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("account %s: %w", accountID, ErrAccountNotFound)
	}

	query := `
		SELECT symbol, buy_date, sell_date, buy_time, sell_time,
		       quantity, buy_price, sell_price, profit, commission, duration_minutes
		FROM matched_trades
		WHERE account_id = ? AND sell_date >= ?`
	args := []any{accountID, from}
	if !to.IsZero() {
		query += ` AND sell_date <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY sell_date ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	trades := make([]types.MatchedTrade, 0)
	for rows.Next() {
		var t types.MatchedTrade
		var quantity, buyPrice, sellPrice, profit, commission string
		if err := rows.Scan(
			&t.Symbol, &t.BuyDate, &t.SellDate, &t.BuyTime, &t.SellTime,
			&quantity, &buyPrice, &sellPrice, &profit, &commission, &t.DurationMinutes,
		); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}

		if t.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, fmt.Errorf("parse quantity %q: %w", quantity, err)
		}
		if t.BuyPrice, err = decimal.NewFromString(buyPrice); err != nil {
			return nil, fmt.Errorf("parse buy price %q: %w", buyPrice, err)
		}
		if t.SellPrice, err = decimal.NewFromString(sellPrice); err != nil {
			return nil, fmt.Errorf("parse sell price %q: %w", sellPrice, err)
		}
		if t.Profit, err = decimal.NewFromString(profit); err != nil {
			return nil, fmt.Errorf("parse profit %q: %w", profit, err)
		}
		if t.Commission, err = decimal.NewFromString(commission); err != nil {
			return nil, fmt.Errorf("parse commission %q: %w", commission, err)
		}

		trades = append(trades, t)
	}

	return trades, rows.Err()
}

// ListAccounts returns the IDs of every registered account.
func (s *TradeStore) ListAccounts(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, id)
	}

	return accounts, rows.Err()
}

// Close closes the underlying database.
func (s *TradeStore) Close() error {
	return s.db.Close()
}
