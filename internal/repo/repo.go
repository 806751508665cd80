package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"c2creg/internal/model"
)

var ErrRegistrationNotFound = errors.New("registration not found")

type Repository interface {
	InsertRegistration(ctx context.Context, reg *model.Registration) (int64, error)
	GetByTicketID(ctx context.Context, ticketID string) (*model.Registration, error)
	MarkReregisteredTx(ctx context.Context, ticketID string) (*model.Registration, error)
	GetAllRegistrations(ctx context.Context) ([]model.Registration, error)
	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

// InsertRegistration performs the single critical write of the issuance
// path. One attempt, no retry; the caller treats any error as "not issued".
func (r *repository) InsertRegistration(ctx context.Context, reg *model.Registration) (int64, error) {
	query := `
		INSERT INTO registrations
			(ticketid, name, instagram, phonenumber, is_cg_member, cg_number, heard_from,
			 dateregistered, reregistered, datereregistered)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, NULL)
		RETURNING id
	`

	row := r.db.QueryRowContext(ctx, query,
		reg.TicketID, reg.Name, reg.Instagram, reg.PhoneNumber,
		reg.IsCGMember, reg.CGNumber, reg.HeardFrom, reg.DateRegistered,
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert registration: %w", err)
	}
	return id, nil
}

func (r *repository) GetByTicketID(ctx context.Context, ticketID string) (*model.Registration, error) {
	query := `
		SELECT id, ticketid, name, instagram, phonenumber, is_cg_member, cg_number,
		       heard_from, dateregistered, reregistered, datereregistered,
		       created_at, updated_at
		FROM registrations
		WHERE ticketid = $1
	`
	row := r.db.QueryRowContext(ctx, query, ticketID)

	var reg model.Registration
	if err := row.Scan(
		&reg.ID,
		&reg.TicketID,
		&reg.Name,
		&reg.Instagram,
		&reg.PhoneNumber,
		&reg.IsCGMember,
		&reg.CGNumber,
		&reg.HeardFrom,
		&reg.DateRegistered,
		&reg.Reregistered,
		&reg.DateReregistered,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	return &reg, nil
}

// MarkReregisteredTx flips the re-registration flag exactly once, stamping
// the venue-local time.
func (r *repository) MarkReregisteredTx(ctx context.Context, ticketID string) (*model.Registration, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	query := `
		UPDATE registrations
		SET reregistered = TRUE, datereregistered = $1, updated_at = NOW()
		WHERE ticketid = $2
		RETURNING id, ticketid, name, instagram, phonenumber, is_cg_member, cg_number,
		          heard_from, dateregistered, reregistered, datereregistered,
		          created_at, updated_at
	`

	now := model.NowWIB()
	var reg model.Registration
	if err := tx.QueryRowContext(ctx, query, now, ticketID).Scan(
		&reg.ID,
		&reg.TicketID,
		&reg.Name,
		&reg.Instagram,
		&reg.PhoneNumber,
		&reg.IsCGMember,
		&reg.CGNumber,
		&reg.HeardFrom,
		&reg.DateRegistered,
		&reg.Reregistered,
		&reg.DateReregistered,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to mark re-registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &reg, nil
}

func (r *repository) GetAllRegistrations(ctx context.Context) ([]model.Registration, error) {
	query := `
		SELECT id, ticketid, name, instagram, phonenumber, is_cg_member, cg_number,
		       heard_from, dateregistered, reregistered, datereregistered,
		       created_at, updated_at
		FROM registrations
		ORDER BY dateregistered DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(
			&reg.ID,
			&reg.TicketID,
			&reg.Name,
			&reg.Instagram,
			&reg.PhoneNumber,
			&reg.IsCGMember,
			&reg.CGNumber,
			&reg.HeardFrom,
			&reg.DateRegistered,
			&reg.Reregistered,
			&reg.DateReregistered,
			&reg.CreatedAt,
			&reg.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}

	return regs, nil
}
