package bank

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores bank routing records in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a bank record.
func (r *PostgresRepository) Create(ctx context.Context, b Bank) error {
	id, err := uuid.Parse(b.UUID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO banks (uuid, name, bin, authorization_url, areq_url)
        VALUES ($1, $2, $3, $4, $5)`, id, b.Name, b.BIN, b.AuthorizationURL, b.AReqURL)
	return err
}

// ByUUID fetches a bank by identifier.
func (r *PostgresRepository) ByUUID(ctx context.Context, id string) (Bank, error) {
	bankUUID, err := uuid.Parse(id)
	if err != nil {
		return Bank{}, ErrNotFound
	}
	return r.scanOne(r.db.QueryRow(ctx, `SELECT uuid, name, bin, authorization_url, areq_url
        FROM banks WHERE uuid = $1`, bankUUID))
}

// ByBIN fetches the bank owning the exact six-digit BIN.
func (r *PostgresRepository) ByBIN(ctx context.Context, bin int) (Bank, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT uuid, name, bin, authorization_url, areq_url
        FROM banks WHERE bin = $1`, bin))
}

func (r *PostgresRepository) scanOne(row pgx.Row) (Bank, error) {
	var b Bank
	var id uuid.UUID
	if err := row.Scan(&id, &b.Name, &b.BIN, &b.AuthorizationURL, &b.AReqURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Bank{}, ErrNotFound
		}
		return Bank{}, err
	}
	b.UUID = id.String()
	return b, nil
}
