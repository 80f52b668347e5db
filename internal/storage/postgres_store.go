package storage

import (
	"database/sql"
	"errors"

	_ "github.com/lib/pq"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	// quick ping
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) SaveRun(r *Run) error {
	_, err := p.db.Exec(`INSERT INTO simulation_runs(id, script_hash, rider_wait_time, driver_total_distance, driver_ride_distance, events_processed, created_at)
		VALUES($1,$2,$3,$4,$5,$6,$7)`,
		r.ID, r.ScriptHash, r.Report.RiderWaitTime, r.Report.DriverTotalDistance, r.Report.DriverRideDistance, r.EventsProcessed, r.CreatedAt)
	return err
}

func (p *PostgresStore) GetRun(id string) (*Run, error) {
	row := p.db.QueryRow(`SELECT id, script_hash, rider_wait_time, driver_total_distance, driver_ride_distance, events_processed, created_at
		FROM simulation_runs WHERE id=$1`, id)
	var r Run
	err := row.Scan(&r.ID, &r.ScriptHash, &r.Report.RiderWaitTime, &r.Report.DriverTotalDistance, &r.Report.DriverRideDistance, &r.EventsProcessed, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
