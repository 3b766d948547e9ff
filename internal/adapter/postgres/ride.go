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

type RideRepo struct {
	db *pgxpool.Pool
}

func NewRideRepo(db *pgxpool.Pool) *RideRepo {
	return &RideRepo{db: db}
}

const rideColumns = `id, pickup_location, drop_location, ride_type, status,
                     passenger_id, driver_id, created_at, updated_at`

func scanRide(row pgx.Row) (*models.Ride, error) {
	var ride models.Ride
	err := row.Scan(
		&ride.ID, &ride.PickupLocation, &ride.DropLocation, &ride.RideType,
		&ride.Status, &ride.PassengerID, &ride.DriverID,
		&ride.CreatedAt, &ride.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

func (r *RideRepo) Create(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	q := TxOrDB(ctx, r.db)

	query := `INSERT INTO rides (pickup_location, drop_location, ride_type, status, passenger_id)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING created_at, updated_at, id;`

	err := q.QueryRow(ctx, query,
		ride.PickupLocation, ride.DropLocation, string(ride.RideType),
		string(ride.Status), ride.PassengerID,
	).Scan(&ride.CreatedAt, &ride.UpdatedAt, &ride.ID)
	recordQuery("rides", "create", err)
	if err != nil {
		return nil, fmt.Errorf("ride repo: Create: %w", err)
	}

	return ride, nil
}

func (r *RideRepo) Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	q := TxOrDB(ctx, r.db)

	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1;`

	ride, err := scanRide(q.QueryRow(ctx, query, rideID))
	recordQuery("rides", "get", err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRideNotFound
		}
		return nil, fmt.Errorf("ride repo: Get: %w", err)
	}

	return ride, nil
}

// ApplyUpdate merges the non-nil fields of upd into the ride row in a single
// atomic UPDATE and returns the resulting snapshot.
func (r *RideRepo) ApplyUpdate(ctx context.Context, rideID uuid.UUID, upd models.RideUpdate) (*models.Ride, error) {
	q := TxOrDB(ctx, r.db)

	var rideType, status *string
	if upd.RideType != nil {
		s := string(*upd.RideType)
		rideType = &s
	}
	if upd.Status != nil {
		s := string(*upd.Status)
		status = &s
	}

	query := `UPDATE rides
              SET pickup_location = COALESCE($2, pickup_location),
                  drop_location   = COALESCE($3, drop_location),
                  ride_type       = COALESCE($4, ride_type),
                  status          = COALESCE($5, status),
                  driver_id       = COALESCE($6, driver_id),
                  updated_at      = now()
              WHERE id = $1
              RETURNING ` + rideColumns + `;`

	ride, err := scanRide(q.QueryRow(ctx, query,
		rideID, upd.PickupLocation, upd.DropLocation, rideType, status, upd.DriverID,
	))
	recordQuery("rides", "apply_update", err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRideNotFound
		}
		return nil, fmt.Errorf("ride repo: ApplyUpdate: %w", err)
	}

	return ride, nil
}

func (r *RideRepo) ListByPassenger(ctx context.Context, passengerID uuid.UUID) ([]models.Ride, error) {
	return r.list(ctx, `passenger_id`, passengerID)
}

func (r *RideRepo) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]models.Ride, error) {
	return r.list(ctx, `driver_id`, driverID)
}

func (r *RideRepo) list(ctx context.Context, column string, id uuid.UUID) (rides []models.Ride, err error) {
	defer func() { recordQuery("rides", "list_by_"+column, err) }()

	q := TxOrDB(ctx, r.db)

	query := `SELECT ` + rideColumns + ` FROM rides WHERE ` + column + ` = $1 ORDER BY created_at DESC;`

	rows, err := q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("ride repo: list by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("ride repo: list scan: %w", err)
		}
		rides = append(rides, *ride)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ride repo: list rows: %w", err)
	}

	return rides, nil
}
