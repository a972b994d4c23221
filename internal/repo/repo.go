package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"registrar/internal/model"
)

type Repository interface {
	InsertUser(ctx context.Context, reg *model.Registration) (*model.Registration, error)
	MigrateUp(migrationsDir string) error
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
	sort.Strings(files)

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

func (r *repository) InsertUser(ctx context.Context, reg *model.Registration) (*model.Registration, error) {
	query := `
		INSERT INTO users (name, phone_number, branch, batch, payment_method,
		                   send_money_number, transaction_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	row := r.db.Master.QueryRowContext(ctx, query,
		reg.Name, reg.PhoneNumber, reg.Branch, reg.Batch, reg.PaymentMethod,
		reg.SendMoneyNumber, reg.TransactionID, reg.Status, reg.CreatedAt, reg.UpdatedAt,
	)

	stored := *reg
	if err := row.Scan(&stored.ID); err != nil {
		return nil, fmt.Errorf("failed to insert registration: %w", err)
	}
	return &stored, nil
}
