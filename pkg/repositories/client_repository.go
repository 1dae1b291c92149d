package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadscope/leadscope-engine/pkg/apperrors"
	"github.com/leadscope/leadscope-engine/pkg/models"
)

// ClientRepository persists tenants.
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	Get(ctx context.Context, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a ClientRepository backed by PostgreSQL.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

var _ ClientRepository = (*clientRepository)(nil)

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO clients (name) VALUES ($1) RETURNING id, created_at`,
		client.Name,
	).Scan(&client.ID, &client.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM clients WHERE id = $1`, id,
	).Scan(&client.ID, &client.Name, &client.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context) ([]models.Client, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM clients ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}
