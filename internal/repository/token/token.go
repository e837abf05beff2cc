package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
	"dispatch/internal/service/token"
)

type Repository struct {
	querier repository.Querier
}

func New(querier repository.Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) GetLatest(ctx context.Context, provider entities.Provider) (*entities.AccessToken, error) {
	query := `SELECT id, provider, token, created_at, expires_in_seconds
		FROM access_tokens
		WHERE provider = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	var (
		tok       entities.AccessToken
		expiresIn int64
	)
	err := r.querier.QueryRow(ctx, query, provider.String()).
		Scan(&tok.ID, &tok.Provider, &tok.Token, &tok.CreatedAt, &expiresIn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, token.ErrTokenNotFound
		}
		return nil, fmt.Errorf("unexpected token repository getlatest error: %w", err)
	}
	tok.ExpiresIn = time.Duration(expiresIn) * time.Second

	return &tok, nil
}

// Create всегда вставляет новую строку, старые токены остаются для аудита.
func (r *Repository) Create(ctx context.Context, tok entities.AccessToken) (*entities.AccessToken, error) {
	query := `INSERT INTO access_tokens (provider, token, created_at, expires_in_seconds)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.querier.QueryRow(
		ctx,
		query,
		tok.Provider.String(),
		tok.Token,
		tok.CreatedAt,
		int64(tok.ExpiresIn/time.Second),
	).Scan(&tok.ID)
	if err != nil {
		return nil, fmt.Errorf("unexpected token repository create error: %w", err)
	}

	return &tok, nil
}
