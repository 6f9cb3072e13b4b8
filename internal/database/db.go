package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/Alias1177/RegimeEngine/internal/model"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new database connection
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS regime_snapshots (
			id SERIAL PRIMARY KEY,
			symbol TEXT NOT NULL,
			interval TEXT NOT NULL,
			bar_datetime TEXT NOT NULL,
			label TEXT NOT NULL,
			direction TEXT NOT NULL,
			volatility DOUBLE PRECISION NOT NULL,
			typical_vol DOUBLE PRECISION NOT NULL,
			vol_ratio DOUBLE PRECISION NOT NULL,
			slope DOUBLE PRECISION NOT NULL,
			slope_threshold DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (symbol, interval, bar_datetime)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS gate_decisions (
			id SERIAL PRIMARY KEY,
			symbol TEXT NOT NULL,
			interval TEXT NOT NULL,
			bar_datetime TEXT NOT NULL,
			regime TEXT NOT NULL,
			allow BOOLEAN NOT NULL,
			size_factor DOUBLE PRECISION NOT NULL,
			reasons TEXT,
			note TEXT,
			position_size DOUBLE PRECISION,
			stop_loss DOUBLE PRECISION,
			take_profit DOUBLE PRECISION,
			created_at TIMESTAMP NOT NULL
		)
	`)

	return err
}

// SaveSnapshot persists a regime snapshot. Re-evaluating the same bar
// overwrites the previous row.
func (db *DB) SaveSnapshot(symbol, interval string, s *model.RegimeSnapshot) error {
	_, err := db.Exec(`
		INSERT INTO regime_snapshots (
			symbol, interval, bar_datetime, label, direction,
			volatility, typical_vol, vol_ratio, slope, slope_threshold, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (symbol, interval, bar_datetime)
		DO UPDATE SET
			label = EXCLUDED.label,
			direction = EXCLUDED.direction,
			volatility = EXCLUDED.volatility,
			typical_vol = EXCLUDED.typical_vol,
			vol_ratio = EXCLUDED.vol_ratio,
			slope = EXCLUDED.slope,
			slope_threshold = EXCLUDED.slope_threshold,
			created_at = EXCLUDED.created_at
	`,
		symbol, interval, s.BarDatetime, string(s.Label), s.Direction,
		s.Volatility, s.TypicalVol, s.VolRatio, s.Slope, s.SlopeThreshold, time.Now())

	return err
}

// SaveDecision persists a gate decision with its sizing plan.
func (db *DB) SaveDecision(symbol, interval, barDatetime string, d *model.GateDecision, plan *model.RiskPlan) error {
	var positionSize, stopLoss, takeProfit float64
	if plan != nil {
		positionSize = plan.PositionSize
		stopLoss = plan.StopLoss
		takeProfit = plan.TakeProfit
	}

	_, err := db.Exec(`
		INSERT INTO gate_decisions (
			symbol, interval, bar_datetime, regime, allow, size_factor,
			reasons, note, position_size, stop_loss, take_profit, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		symbol, interval, barDatetime, string(d.Regime), d.Allow, d.SizeFactor,
		strings.Join(d.Reasons, "; "), d.Note, positionSize, stopLoss, takeProfit, time.Now())

	return err
}

// GetRecentSnapshots returns the most recent snapshots for a symbol, newest first.
func (db *DB) GetRecentSnapshots(symbol string, limit int) ([]model.RegimeSnapshot, error) {
	rows, err := db.Query(`
		SELECT bar_datetime, label, direction, volatility, typical_vol,
		       vol_ratio, slope, slope_threshold
		FROM regime_snapshots
		WHERE symbol = $1
		ORDER BY bar_datetime DESC
		LIMIT $2
	`, symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []model.RegimeSnapshot
	for rows.Next() {
		var s model.RegimeSnapshot
		var label string
		if err := rows.Scan(&s.BarDatetime, &label, &s.Direction, &s.Volatility,
			&s.TypicalVol, &s.VolRatio, &s.Slope, &s.SlopeThreshold); err != nil {
			return nil, err
		}
		s.Label = model.RegimeLabel(label)
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

// GetRegimeDistribution returns how many stored bars fall into each regime.
func (db *DB) GetRegimeDistribution(symbol string) (map[model.RegimeLabel]int, error) {
	rows, err := db.Query(`
		SELECT label, COUNT(*)
		FROM regime_snapshots
		WHERE symbol = $1
		GROUP BY label
	`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dist := make(map[model.RegimeLabel]int)
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, err
		}
		dist[model.RegimeLabel(label)] = count
	}

	return dist, rows.Err()
}
