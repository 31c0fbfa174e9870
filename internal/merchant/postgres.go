package merchant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores registry records in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a registry repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateClient inserts the client row together with its card-type
// associations in a single transaction.
func (r *PostgresRepository) CreateClient(ctx context.Context, c Client) error {
	clientUUID, err := uuid.Parse(c.UUID)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := tx.Exec(ctx, `INSERT INTO clients
        (uuid, name, address, pan, is_active, threshold, redirect_url, auth_subject, bank_uuid, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		clientUUID, c.Name, c.Address, c.PAN, c.Active, c.Threshold, c.RedirectURL, c.AuthSubject, c.BankUUID, c.CreatedAt.UTC()); err != nil {
		return err
	}

	if err := replaceCardTypes(ctx, tx, clientUUID, c.SupportedCardTypes); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateClient rewrites the client row and its card-type associations in a
// single transaction.
func (r *PostgresRepository) UpdateClient(ctx context.Context, c Client) error {
	clientUUID, err := uuid.Parse(c.UUID)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	tag, err := tx.Exec(ctx, `UPDATE clients SET
        name = $2, address = $3, pan = $4, is_active = $5, threshold = $6,
        redirect_url = $7, bank_uuid = $8
        WHERE uuid = $1`,
		clientUUID, c.Name, c.Address, c.PAN, c.Active, c.Threshold, c.RedirectURL, c.BankUUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := replaceCardTypes(ctx, tx, clientUUID, c.SupportedCardTypes); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func replaceCardTypes(ctx context.Context, tx pgx.Tx, clientUUID uuid.UUID, types []CardType) error {
	if _, err := tx.Exec(ctx, `DELETE FROM client_card_types WHERE client_uuid = $1`, clientUUID); err != nil {
		return err
	}
	for _, ct := range types {
		cardTypeUUID, err := uuid.Parse(ct.UUID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO client_card_types (client_uuid, card_type_uuid)
            VALUES ($1, $2)`, clientUUID, cardTypeUUID); err != nil {
			return err
		}
	}
	return nil
}

// ClientByUUID fetches a client with its supported card types.
func (r *PostgresRepository) ClientByUUID(ctx context.Context, id string) (Client, error) {
	clientUUID, err := uuid.Parse(id)
	if err != nil {
		return Client{}, ErrNotFound
	}

	row := r.db.QueryRow(ctx, `SELECT uuid, name, address, pan, is_active, threshold,
        redirect_url, auth_subject, bank_uuid, created_at
        FROM clients WHERE uuid = $1`, clientUUID)

	var c Client
	var idVal, bankUUID uuid.UUID
	var createdAt time.Time
	if err := row.Scan(&idVal, &c.Name, &c.Address, &c.PAN, &c.Active, &c.Threshold,
		&c.RedirectURL, &c.AuthSubject, &bankUUID, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	c.UUID = idVal.String()
	c.BankUUID = bankUUID.String()
	c.CreatedAt = createdAt.UTC()

	rows, err := r.db.Query(ctx, `SELECT ct.uuid, ct.name, ct.pattern
        FROM card_types ct
        INNER JOIN client_card_types cct ON cct.card_type_uuid = ct.uuid
        WHERE cct.client_uuid = $1`, clientUUID)
	if err != nil {
		return Client{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var ct CardType
		var ctUUID uuid.UUID
		if err := rows.Scan(&ctUUID, &ct.Name, &ct.Pattern); err != nil {
			return Client{}, err
		}
		ct.UUID = ctUUID.String()
		c.SupportedCardTypes = append(c.SupportedCardTypes, ct)
	}
	return c, rows.Err()
}

// CreateCardType inserts a card type definition.
func (r *PostgresRepository) CreateCardType(ctx context.Context, ct CardType) error {
	id, err := uuid.Parse(ct.UUID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO card_types (uuid, name, pattern)
        VALUES ($1, $2, $3)`, id, ct.Name, ct.Pattern)
	return err
}

// CardTypeByUUID fetches a card type by identifier.
func (r *PostgresRepository) CardTypeByUUID(ctx context.Context, id string) (CardType, error) {
	ctUUID, err := uuid.Parse(id)
	if err != nil {
		return CardType{}, ErrNotFound
	}
	return scanCardType(r.db.QueryRow(ctx, `SELECT uuid, name, pattern
        FROM card_types WHERE uuid = $1`, ctUUID))
}

// CardTypeByName fetches a card type by its unique name.
func (r *PostgresRepository) CardTypeByName(ctx context.Context, name string) (CardType, error) {
	return scanCardType(r.db.QueryRow(ctx, `SELECT uuid, name, pattern
        FROM card_types WHERE name = $1`, name))
}

func scanCardType(row pgx.Row) (CardType, error) {
	var ct CardType
	var id uuid.UUID
	if err := row.Scan(&id, &ct.Name, &ct.Pattern); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CardType{}, ErrNotFound
		}
		return CardType{}, err
	}
	ct.UUID = id.String()
	return ct, nil
}

// CreatePos inserts a point-of-sale record.
func (r *PostgresRepository) CreatePos(ctx context.Context, p POS) error {
	posUUID, err := uuid.Parse(p.UUID)
	if err != nil {
		return err
	}
	clientUUID, err := uuid.Parse(p.ClientUUID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO pos (uuid, is_active, client_uuid, created_at)
        VALUES ($1, $2, $3, $4)`, posUUID, p.Active, clientUUID, p.CreatedAt.UTC())
	return err
}

// PosByUUID fetches a point of sale by identifier.
func (r *PostgresRepository) PosByUUID(ctx context.Context, id string) (POS, error) {
	posUUID, err := uuid.Parse(id)
	if err != nil {
		return POS{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT uuid, is_active, client_uuid, created_at
        FROM pos WHERE uuid = $1`, posUUID)

	var p POS
	var idVal, clientUUID uuid.UUID
	var createdAt time.Time
	if err := row.Scan(&idVal, &p.Active, &clientUUID, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return POS{}, ErrNotFound
		}
		return POS{}, err
	}
	p.UUID = idVal.String()
	p.ClientUUID = clientUUID.String()
	p.CreatedAt = createdAt.UTC()
	return p, nil
}
