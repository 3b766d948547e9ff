package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
)

const pgUniqueViolation = "23505"

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	q := TxOrDB(ctx, r.db)

	query := `INSERT INTO users (auth_id, name, email, role)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at;`

	err := q.QueryRow(ctx, query, user.AuthID, user.Name, user.Email, string(user.Role)).
		Scan(&user.ID, &user.CreatedAt)
	recordQuery("users", "create", err)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, types.ErrEmailTaken
		}
		return nil, fmt.Errorf("user repo: Create: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetByAuthID(ctx context.Context, authID string) (*models.User, error) {
	q := TxOrDB(ctx, r.db)

	var user models.User
	query := `SELECT id, auth_id, name, email, role, created_at
              FROM users WHERE auth_id = $1;`

	err := q.QueryRow(ctx, query, authID).Scan(
		&user.ID, &user.AuthID, &user.Name, &user.Email, &user.Role, &user.CreatedAt,
	)
	recordQuery("users", "get_by_auth_id", err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("user repo: GetByAuthID: %w", err)
	}

	return &user, nil
}
