package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/salon-crm/internal/domain"
)

// ClientRepository encapsulates client persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	Delete(ctx context.Context, id int64) error
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository returns a Postgres-backed implementation.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (name, email, phone, birthday)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
		client.Birthday,
	).Scan(&client.ID, &client.CreatedAt)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET name=$1, email=$2, phone=$3, birthday=$4
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
		client.Birthday,
		client.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	const query = `
        SELECT id, name, email, phone, birthday, created_at
        FROM clients WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *clientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	const query = `
        SELECT id, name, email, phone, birthday, created_at
        FROM clients WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *clientRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Client, error) {
	var client domain.Client
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.Phone,
		&client.Birthday,
		&client.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	const query = `
        SELECT id, name, email, phone, birthday, created_at
        FROM clients ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.Email,
			&client.Phone,
			&client.Birthday,
			&client.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	return result, rows.Err()
}

func (r *clientRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
