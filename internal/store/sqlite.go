package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "github.com/goldeneye0077/stock-picker-sub001/internal/errors"
	"github.com/goldeneye0077/stock-picker-sub001/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Bars table for daily OHLCV data
	CREATE TABLE IF NOT EXISTS bars (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		date DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		amount REAL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, date)
	);

	-- Technical analysis results, one row per symbol per trading day
	CREATE TABLE IF NOT EXISTS technical_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		date DATETIME NOT NULL,
		close REAL NOT NULL,
		ma5 REAL, ma10 REAL, ma20 REAL, ma60 REAL,
		macd REAL, macd_signal_line REAL, macd_histogram REAL,
		rsi6 REAL, rsi12 REAL, rsi24 REAL,
		kdj_k REAL, kdj_d REAL, kdj_j REAL,
		boll_upper REAL, boll_mid REAL, boll_lower REAL,
		atr14 REAL, cci20 REAL, obv REAL, vol_ratio REAL,
		macd_signal TEXT, rsi_signal TEXT, kdj_signal TEXT,
		boll_signal TEXT, ma_signal TEXT,
		trend_type TEXT, trend_confidence REAL,
		reversal_signal TEXT,
		quality_label TEXT, quality_score REAL,
		bullish_patterns INTEGER DEFAULT 0,
		bearish_patterns INTEGER DEFAULT 0,
		pattern_signal TEXT,
		composite_score REAL NOT NULL,
		recommendation TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, date)
	);

	-- Watchlist table
	CREATE TABLE IF NOT EXISTS watchlist (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		list_name TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, list_name)
	);

	-- Create indexes for performance
	CREATE INDEX IF NOT EXISTS idx_bars_symbol ON bars(symbol);
	CREATE INDEX IF NOT EXISTS idx_bars_date ON bars(date);
	CREATE INDEX IF NOT EXISTS idx_results_symbol ON technical_results(symbol);
	CREATE INDEX IF NOT EXISTS idx_results_date ON technical_results(date);
	CREATE INDEX IF NOT EXISTS idx_results_score ON technical_results(composite_score);
	CREATE INDEX IF NOT EXISTS idx_watchlist_list ON watchlist(list_name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Bars Methods
// ============================================================================

// SaveBars saves daily bars to the database.
func (s *SQLiteStore) SaveBars(ctx context.Context, symbol string, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO bars (symbol, date, open, high, low, close, volume, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		_, err := stmt.ExecContext(ctx, symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume, b.Amount)
		if err != nil {
			return fmt.Errorf("failed to insert bar: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBars retrieves daily bars ordered oldest first. A zero from/to means
// unbounded on that side; limit > 0 keeps the most recent N bars.
func (s *SQLiteStore) GetBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Bar, error) {
	query := "SELECT date, open, high, low, close, volume, amount FROM bars WHERE symbol = ?"
	args := []interface{}{symbol}

	if !from.IsZero() {
		query += " AND date >= ?"
		args = append(args, from)
	}
	if !to.IsZero() {
		query += " AND date <= ?"
		args = append(args, to)
	}

	// Take the most recent window, then flip it back to ascending order.
	if limit > 0 {
		query = "SELECT * FROM (" + query + " ORDER BY date DESC LIMIT ?) ORDER BY date ASC"
		args = append(args, limit)
	} else {
		query += " ORDER BY date ASC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars: %w", err)
	}
	defer rows.Close()

	var bars []models.Bar
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan bar: %w", err)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bars: %w", err)
	}

	if len(bars) == 0 {
		return nil, apperrors.NewDataError("bars", symbol, "no bars stored for symbol", apperrors.ErrDataNotFound)
	}

	return bars, nil
}

// GetBarsFreshness returns the date of the most recent stored bar.
func (s *SQLiteStore) GetBarsFreshness(ctx context.Context, symbol string) (time.Time, error) {
	var date sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(date) FROM bars WHERE symbol = ?
	`, symbol).Scan(&date)
	if err != nil && err != sql.ErrNoRows {
		return time.Time{}, fmt.Errorf("failed to get bars freshness: %w", err)
	}
	if !date.Valid {
		return time.Time{}, nil
	}
	return date.Time, nil
}

// ListSymbols returns every symbol with at least one stored bar.
func (s *SQLiteStore) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM bars ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to list symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// ============================================================================
// Analysis Result Methods
// ============================================================================

const resultColumns = `symbol, date, close,
	ma5, ma10, ma20, ma60,
	macd, macd_signal_line, macd_histogram,
	rsi6, rsi12, rsi24,
	kdj_k, kdj_d, kdj_j,
	boll_upper, boll_mid, boll_lower,
	atr14, cci20, obv, vol_ratio,
	macd_signal, rsi_signal, kdj_signal, boll_signal, ma_signal,
	trend_type, trend_confidence, reversal_signal,
	quality_label, quality_score,
	bullish_patterns, bearish_patterns, pattern_signal,
	composite_score, recommendation, created_at`

// SaveResult upserts one analysis row for a symbol and trading day.
func (s *SQLiteStore) SaveResult(ctx context.Context, r *models.TechnicalResult) error {
	if r == nil {
		return apperrors.NewValidationError("result", nil, "result must not be nil")
	}
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO technical_results (`+resultColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.Symbol, r.Date, r.Close,
		r.MA5, r.MA10, r.MA20, r.MA60,
		r.MACD, r.MACDSig, r.MACDHist,
		r.RSI6, r.RSI12, r.RSI24,
		r.KDJK, r.KDJD, r.KDJJ,
		r.BollUpper, r.BollMid, r.BollLower,
		r.ATR14, r.CCI20, r.OBV, r.VolRatio,
		string(r.MACDSignal), string(r.RSISignal), string(r.KDJSignal), string(r.BollSignal), string(r.MASignal),
		r.TrendType, r.TrendConfidence, r.ReversalSignal,
		r.QualityLabel, r.QualityScore,
		r.BullishPatterns, r.BearishPatterns, string(r.PatternSignal),
		r.CompositeScore, string(r.Recommendation), createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

func scanResult(rows interface {
	Scan(dest ...interface{}) error
}) (*models.TechnicalResult, error) {
	var r models.TechnicalResult
	var macdSig, rsiSig, kdjSig, bollSig, maSig, patternSig, rec string
	err := rows.Scan(
		&r.Symbol, &r.Date, &r.Close,
		&r.MA5, &r.MA10, &r.MA20, &r.MA60,
		&r.MACD, &r.MACDSig, &r.MACDHist,
		&r.RSI6, &r.RSI12, &r.RSI24,
		&r.KDJK, &r.KDJD, &r.KDJJ,
		&r.BollUpper, &r.BollMid, &r.BollLower,
		&r.ATR14, &r.CCI20, &r.OBV, &r.VolRatio,
		&macdSig, &rsiSig, &kdjSig, &bollSig, &maSig,
		&r.TrendType, &r.TrendConfidence, &r.ReversalSignal,
		&r.QualityLabel, &r.QualityScore,
		&r.BullishPatterns, &r.BearishPatterns, &patternSig,
		&r.CompositeScore, &rec, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.MACDSignal = models.Signal(macdSig)
	r.RSISignal = models.Signal(rsiSig)
	r.KDJSignal = models.Signal(kdjSig)
	r.BollSignal = models.Signal(bollSig)
	r.MASignal = models.Signal(maSig)
	r.PatternSignal = models.Signal(patternSig)
	r.Recommendation = models.Recommendation(rec)
	return &r, nil
}

// GetLatestResult retrieves the most recent analysis row for a symbol.
func (s *SQLiteStore) GetLatestResult(ctx context.Context, symbol string) (*models.TechnicalResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+resultColumns+` FROM technical_results
		WHERE symbol = ? ORDER BY date DESC LIMIT 1
	`, symbol)

	result, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewDataError("result", symbol, "no results stored for symbol", apperrors.ErrSymbolNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest result: %w", err)
	}
	return result, nil
}

// GetResults retrieves analysis rows matching the filter, highest score first.
func (s *SQLiteStore) GetResults(ctx context.Context, filter ResultFilter) ([]models.TechnicalResult, error) {
	query := "SELECT " + resultColumns + " FROM technical_results WHERE 1=1"
	args := []interface{}{}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if !filter.StartDate.IsZero() {
		query += " AND date >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND date <= ?"
		args = append(args, filter.EndDate)
	}
	if filter.MinScore > 0 {
		query += " AND composite_score >= ?"
		args = append(args, filter.MinScore)
	}
	if filter.Recommendation != "" {
		query += " AND recommendation = ?"
		args = append(args, filter.Recommendation)
	}

	query += " ORDER BY composite_score DESC, date DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []models.TechnicalResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

// ============================================================================
// Watchlist Methods
// ============================================================================

// AddToWatchlist adds a symbol to a named watchlist.
func (s *SQLiteStore) AddToWatchlist(ctx context.Context, symbol, listName string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO watchlist (symbol, list_name) VALUES (?, ?)
	`, symbol, listName)
	if err != nil {
		return fmt.Errorf("failed to add to watchlist: %w", err)
	}
	return nil
}

// RemoveFromWatchlist removes a symbol from a named watchlist.
func (s *SQLiteStore) RemoveFromWatchlist(ctx context.Context, symbol, listName string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM watchlist WHERE symbol = ? AND list_name = ?
	`, symbol, listName)
	if err != nil {
		return fmt.Errorf("failed to remove from watchlist: %w", err)
	}
	return nil
}

// GetWatchlist returns the symbols in a named watchlist.
func (s *SQLiteStore) GetWatchlist(ctx context.Context, listName string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol FROM watchlist WHERE list_name = ? ORDER BY symbol
	`, listName)
	if err != nil {
		return nil, fmt.Errorf("failed to get watchlist: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// GetAllWatchlists returns every watchlist keyed by name.
func (s *SQLiteStore) GetAllWatchlists(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT list_name, symbol FROM watchlist ORDER BY list_name, symbol
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get watchlists: %w", err)
	}
	defer rows.Close()

	lists := make(map[string][]string)
	for rows.Next() {
		var name, sym string
		if err := rows.Scan(&name, &sym); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist row: %w", err)
		}
		lists[name] = append(lists[name], sym)
	}
	return lists, rows.Err()
}
