package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
)

type DriverRepo struct {
	db *pgxpool.Pool
}

func NewDriverRepo(db *pgxpool.Pool) *DriverRepo {
	return &DriverRepo{db: db}
}

func (r *DriverRepo) Create(ctx context.Context, driver *models.Driver) (*models.Driver, error) {
	q := TxOrDB(ctx, r.db)

	query := `INSERT INTO drivers (user_id, ride_type, availability)
              VALUES ($1, $2, $3)
              RETURNING id, created_at;`

	err := q.QueryRow(ctx, query, driver.UserID, string(driver.RideType), string(driver.Availability)).
		Scan(&driver.ID, &driver.CreatedAt)
	recordQuery("drivers", "create", err)
	if err != nil {
		return nil, fmt.Errorf("driver repo: Create: %w", err)
	}

	return driver, nil
}

func (r *DriverRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Driver, error) {
	q := TxOrDB(ctx, r.db)

	var driver models.Driver
	query := `SELECT d.id, d.user_id, u.name, d.ride_type, d.availability, d.created_at
              FROM drivers d
              JOIN users u ON u.id = d.user_id
              WHERE d.user_id = $1;`

	err := q.QueryRow(ctx, query, userID).Scan(
		&driver.ID, &driver.UserID, &driver.Name,
		&driver.RideType, &driver.Availability, &driver.CreatedAt,
	)
	recordQuery("drivers", "get_by_user_id", err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrDriverNotFound
		}
		return nil, fmt.Errorf("driver repo: GetByUserID: %w", err)
	}

	return &driver, nil
}

// SetAvailability flips the stored availability flag for the driver.
func (r *DriverRepo) SetAvailability(ctx context.Context, driverID uuid.UUID, availability types.DriverAvailability) (err error) {
	defer func() { recordQuery("drivers", "set_availability", err) }()

	q := TxOrDB(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE drivers SET availability = $2 WHERE id = $1;`,
		driverID, string(availability),
	)
	if err != nil {
		return fmt.Errorf("driver repo: SetAvailability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrDriverNotFound
	}

	return nil
}

// ListAvailableByType returns available drivers for the given vehicle class.
func (r *DriverRepo) ListAvailableByType(ctx context.Context, rideType types.RideType) (drivers []models.Driver, err error) {
	defer func() { recordQuery("drivers", "list_available_by_type", err) }()

	q := TxOrDB(ctx, r.db)

	query := `SELECT d.id, d.user_id, u.name, d.ride_type, d.availability, d.created_at
              FROM drivers d
              JOIN users u ON u.id = d.user_id
              WHERE d.availability = $1 AND d.ride_type = $2
              ORDER BY d.created_at;`

	rows, err := q.Query(ctx, query, string(types.DriverAvailable), string(rideType))
	if err != nil {
		return nil, fmt.Errorf("driver repo: ListAvailableByType: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.Driver
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.RideType, &d.Availability, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("driver repo: ListAvailableByType scan: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("driver repo: ListAvailableByType rows: %w", err)
	}

	return drivers, nil
}
