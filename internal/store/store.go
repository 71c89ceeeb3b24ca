package store

import (
	"database/sql"
	"fmt"

	"github.com/appraisal-comps/internal/dataset"
	"github.com/appraisal-comps/internal/db"
)

// Store persists assembled training rows and feedback so the review web
// service can serve them without re-reading pipeline output files.
type Store struct {
	conn *db.Connection
}

func NewStore(conn *db.Connection) *Store {
	return &Store{conn: conn}
}

// EnsureSchema creates the tables when they do not exist.
func (s *Store) EnsureSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS training_row (
			id SERIAL PRIMARY KEY,
			order_id TEXT NOT NULL,
			candidate_address TEXT NOT NULL,
			is_comp INTEGER NOT NULL,
			subject_address TEXT,
			bath_score_diff DOUBLE PRECISION,
			full_baths_diff INTEGER,
			half_baths_diff INTEGER,
			room_count_diff INTEGER,
			bedrooms_diff INTEGER,
			effective_age_diff INTEGER,
			subject_age_diff INTEGER,
			lot_size_sf_diff DOUBLE PRECISION,
			gla_diff INTEGER,
			same_property_type INTEGER,
			sold_recently INTEGER,
			distance_to_subject_km DOUBLE PRECISION,
			UNIQUE (order_id, candidate_address)
		)`,
		`CREATE TABLE IF NOT EXISTS feedback_log (
			id SERIAL PRIMARY KEY,
			order_id TEXT NOT NULL,
			rank INTEGER,
			candidate_address TEXT NOT NULL,
			subject_address TEXT,
			score DOUBLE PRECISION,
			is_comp INTEGER,
			user_feedback INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_training_row_order ON training_row (order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_log_order ON feedback_log (order_id)`,
	}

	for _, stmt := range schema {
		if _, err := s.conn.DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// LoadTrainingRows replaces the training_row table contents with the given
// rows inside one transaction.
func (s *Store) LoadTrainingRows(rows []dataset.TrainingRow) error {
	tx, err := s.conn.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("TRUNCATE training_row"); err != nil {
		return fmt.Errorf("failed to truncate training_row: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO training_row (
		order_id, candidate_address, is_comp, subject_address,
		bath_score_diff, full_baths_diff, half_baths_diff, room_count_diff,
		bedrooms_diff, effective_age_diff, subject_age_diff, lot_size_sf_diff,
		gla_diff, same_property_type, sold_recently, distance_to_subject_km
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range rows {
		r := &rows[i]
		_, err := stmt.Exec(
			r.OrderID, r.CandidateAddress, r.IsComp, r.SubjectAddress,
			nullFloat(r.BathScoreDiff), nullInt(r.FullBathsDiff), nullInt(r.HalfBathsDiff),
			nullInt(r.RoomCountDiff), nullInt(r.BedroomsDiff), nullInt(r.EffectiveAgeDiff),
			nullInt(r.SubjectAgeDiff), nullFloat(r.LotSizeSFDiff), nullInt(r.GLADiff),
			nullInt(r.SamePropertyType), nullInt(r.SoldRecently), nullFloat(r.DistanceKM),
		)
		if err != nil {
			return fmt.Errorf("failed to insert row for order %s: %w", r.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit training rows: %w", err)
	}
	return nil
}

// ListOrders returns the distinct order identifiers with row counts.
func (s *Store) ListOrders() ([]OrderSummary, error) {
	rows, err := s.conn.DB.Query(`SELECT order_id, MIN(subject_address), COUNT(*),
		SUM(is_comp) FROM training_row GROUP BY order_id ORDER BY order_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []OrderSummary
	for rows.Next() {
		var o OrderSummary
		var subject sql.NullString
		if err := rows.Scan(&o.OrderID, &subject, &o.RowCount, &o.CompCount); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.SubjectAddress = subject.String
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// OrderSummary is one appraisal as seen by the review interface.
type OrderSummary struct {
	OrderID        string `json:"orderID"`
	SubjectAddress string `json:"subject_address"`
	RowCount       int    `json:"row_count"`
	CompCount      int    `json:"comp_count"`
}

// RowsForOrder returns the training rows for one appraisal.
func (s *Store) RowsForOrder(orderID string) ([]dataset.TrainingRow, error) {
	rows, err := s.conn.DB.Query(`SELECT order_id, candidate_address, is_comp,
		subject_address, bath_score_diff, full_baths_diff, half_baths_diff,
		room_count_diff, bedrooms_diff, effective_age_diff, subject_age_diff,
		lot_size_sf_diff, gla_diff, same_property_type, sold_recently,
		distance_to_subject_km
		FROM training_row WHERE order_id = $1 ORDER BY is_comp DESC, candidate_address`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows for order %s: %w", orderID, err)
	}
	defer rows.Close()

	var result []dataset.TrainingRow
	for rows.Next() {
		var r dataset.TrainingRow
		var subject sql.NullString
		var bathScore, lotSize, distance sql.NullFloat64
		var fullBaths, halfBaths, roomCount, bedrooms, effAge, subjAge, gla,
			sameType, soldRecently sql.NullInt64

		err := rows.Scan(&r.OrderID, &r.CandidateAddress, &r.IsComp, &subject,
			&bathScore, &fullBaths, &halfBaths, &roomCount, &bedrooms,
			&effAge, &subjAge, &lotSize, &gla, &sameType, &soldRecently, &distance)
		if err != nil {
			return nil, fmt.Errorf("failed to scan training row: %w", err)
		}

		r.SubjectAddress = subject.String
		r.BathScoreDiff = floatPtr(bathScore)
		r.FullBathsDiff = intPtr(fullBaths)
		r.HalfBathsDiff = intPtr(halfBaths)
		r.RoomCountDiff = intPtr(roomCount)
		r.BedroomsDiff = intPtr(bedrooms)
		r.EffectiveAgeDiff = intPtr(effAge)
		r.SubjectAgeDiff = intPtr(subjAge)
		r.LotSizeSFDiff = floatPtr(lotSize)
		r.GLADiff = intPtr(gla)
		r.SamePropertyType = intPtr(sameType)
		r.SoldRecently = intPtr(soldRecently)
		r.DistanceKM = floatPtr(distance)
		result = append(result, r)
	}
	return result, rows.Err()
}

// InsertFeedback appends one judgment to the feedback_log table.
func (s *Store) InsertFeedback(rec dataset.FeedbackRecord) error {
	_, err := s.conn.DB.Exec(`INSERT INTO feedback_log (
		order_id, rank, candidate_address, subject_address, score, is_comp, user_feedback
	) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.OrderID, rec.Rank, rec.CandidateAddress, rec.SubjectAddress,
		rec.Score, rec.IsComp, rec.UserFeedback)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

// LoadFeedback returns every logged judgment, oldest first.
func (s *Store) LoadFeedback() ([]dataset.FeedbackRecord, error) {
	rows, err := s.conn.DB.Query(`SELECT order_id, rank, candidate_address,
		subject_address, score, is_comp, user_feedback FROM feedback_log ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var recs []dataset.FeedbackRecord
	for rows.Next() {
		var rec dataset.FeedbackRecord
		var rank, isComp sql.NullInt64
		var score sql.NullFloat64
		var subject sql.NullString
		err := rows.Scan(&rec.OrderID, &rank, &rec.CandidateAddress, &subject,
			&score, &isComp, &rec.UserFeedback)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		rec.Rank = int(rank.Int64)
		rec.SubjectAddress = subject.String
		rec.Score = score.Float64
		rec.IsComp = int(isComp.Int64)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
