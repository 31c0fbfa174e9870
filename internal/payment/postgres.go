package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores payments in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a payment repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the payment. Only the hashed and masked card forms are
// written; the raw PAN never reaches the database.
func (r *PostgresRepository) Create(ctx context.Context, p Payment) error {
	paymentUUID, err := uuid.Parse(p.UUID)
	if err != nil {
		return err
	}
	posUUID, err := uuid.Parse(p.PosUUID)
	if err != nil {
		return err
	}
	var bankUUID *uuid.UUID
	if p.BankUUID != "" {
		parsed, err := uuid.Parse(p.BankUUID)
		if err != nil {
			return err
		}
		bankUUID = &parsed
	}

	_, err = r.db.Exec(ctx, `INSERT INTO payments
        (uuid, pos_uuid, bank_uuid, amount, card_number_hash, masked_card_number,
         verification_code, expiration_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		paymentUUID, posUUID, bankUUID, p.Amount, p.CardNumberHash, p.MaskedCardNumber,
		p.VerificationCode, p.ExpirationDate, string(p.Status), p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	return err
}

// Update rewrites the mutable columns of an existing payment.
func (r *PostgresRepository) Update(ctx context.Context, p Payment) error {
	paymentUUID, err := uuid.Parse(p.UUID)
	if err != nil {
		return err
	}
	var bankUUID *uuid.UUID
	if p.BankUUID != "" {
		parsed, err := uuid.Parse(p.BankUUID)
		if err != nil {
			return err
		}
		bankUUID = &parsed
	}

	tag, err := r.db.Exec(ctx, `UPDATE payments SET
        bank_uuid = $2, status = $3, updated_at = $4
        WHERE uuid = $1`,
		paymentUUID, bankUUID, string(p.Status), p.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ByUUID fetches a payment by identifier.
func (r *PostgresRepository) ByUUID(ctx context.Context, id string) (Payment, error) {
	paymentUUID, err := uuid.Parse(id)
	if err != nil {
		return Payment{}, ErrNotFound
	}

	row := r.db.QueryRow(ctx, `SELECT uuid, pos_uuid, bank_uuid, amount, card_number_hash,
        masked_card_number, verification_code, expiration_date, status, created_at, updated_at
        FROM payments WHERE uuid = $1`, paymentUUID)

	var p Payment
	var idVal, posUUID uuid.UUID
	var bankUUID *uuid.UUID
	var status string
	var expiration, createdAt, updatedAt time.Time
	if err := row.Scan(&idVal, &posUUID, &bankUUID, &p.Amount, &p.CardNumberHash,
		&p.MaskedCardNumber, &p.VerificationCode, &expiration, &status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payment{}, ErrNotFound
		}
		return Payment{}, err
	}
	p.UUID = idVal.String()
	p.PosUUID = posUUID.String()
	if bankUUID != nil {
		p.BankUUID = bankUUID.String()
	}
	p.Status = Status(status)
	p.ExpirationDate = expiration.UTC()
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return p, nil
}
