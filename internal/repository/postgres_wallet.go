package repository

import (
	"context"
	"errors"

	"github.com/erencelik/ticketline/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresWalletRepository struct {
	db *pgxpool.Pool
}

func NewPostgresWalletRepository(db *pgxpool.Pool) *PostgresWalletRepository {
	return &PostgresWalletRepository{
		db: db,
	}
}

func (p *PostgresWalletRepository) GetByActorID(ctx context.Context, actorID int) (*domain.Wallet, error) {
	query := `
		SELECT id, actor_id, balance, updated_at
		FROM wallets
		WHERE actor_id = $1
	`

	var wallet domain.Wallet

	err := p.db.QueryRow(ctx, query, actorID).Scan(
		&wallet.ID,
		&wallet.ActorID,
		&wallet.Balance,
		&wallet.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &wallet, nil
}

type PostgresActorRepository struct {
	db *pgxpool.Pool
}

func NewPostgresActorRepository(db *pgxpool.Pool) *PostgresActorRepository {
	return &PostgresActorRepository{
		db: db,
	}
}

func (p *PostgresActorRepository) GetMembershipTier(ctx context.Context, actorID int) (domain.MembershipTier, error) {
	query := `
		SELECT membership_tier
		FROM actors
		WHERE id = $1
	`

	var tier domain.MembershipTier

	err := p.db.QueryRow(ctx, query, actorID).Scan(&tier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrRecordNotFound
		}

		return "", err
	}

	return tier, nil
}
