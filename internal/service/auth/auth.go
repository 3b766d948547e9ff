package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
	"github.com/zhandos-t/ridelink/pkg/logger"
	"github.com/zhandos-t/ridelink/pkg/trm"
)

var ErrInvalidToken = errors.New("invalid access token")

type Service struct {
	identity  IdentityProvider
	users     UserRepo
	drivers   DriverRepo
	trm       trm.TxManager
	jwtSecret string
	log       logger.Logger
}

func NewService(identity IdentityProvider, users UserRepo, drivers DriverRepo, txm trm.TxManager, jwtSecret string, log logger.Logger) *Service {
	return &Service{
		identity:  identity,
		users:     users,
		drivers:   drivers,
		trm:       txm,
		jwtSecret: jwtSecret,
		log:       log,
	}
}

// RegisterPassenger creates the provider account, then the local profile.
func (s *Service) RegisterPassenger(ctx context.Context, name, email, password string) (*models.User, error) {
	ctx = logger.WithAction(ctx, "register_passenger")

	return s.register(ctx, name, email, password, types.RolePassenger, "")
}

// RegisterDriver additionally creates the driver profile with the vehicle
// class. Drivers start unavailable and go online explicitly.
func (s *Service) RegisterDriver(ctx context.Context, name, email, password string, rideType types.RideType) (*models.User, error) {
	ctx = logger.WithAction(ctx, "register_driver")

	return s.register(ctx, name, email, password, types.RoleDriver, rideType)
}

func (s *Service) register(ctx context.Context, name, email, password string, role types.UserRole, rideType types.RideType) (*models.User, error) {
	authID, err := s.identity.CreateUser(ctx, email, password)
	if err != nil {
		return nil, logger.WrapError(ctx, err)
	}

	user := &models.User{
		AuthID: authID,
		Name:   name,
		Email:  email,
		Role:   role,
	}

	// The local writes are atomic; the provider account is not. A failure
	// here leaves a dangling provider account, which we log and accept
	// rather than attempt a compensating delete.
	err = s.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.Create(ctx, user)
		if err != nil {
			return err
		}

		if role == types.RoleDriver {
			_, err = s.drivers.Create(ctx, &models.Driver{
				UserID:       user.ID,
				RideType:     rideType,
				Availability: types.DriverUnavailable,
			})
		}
		return err
	})
	if err != nil {
		s.log.Warn(ctx, "local registration failed after provider account creation, account left dangling",
			"auth_id", authID,
			"email", email,
			"err", err.Error(),
		)
		return nil, logger.WrapError(ctx, err)
	}

	return user, nil
}

// LoginResult carries everything the client needs after a successful login.
type LoginResult struct {
	Tokens *models.TokenPair
	User   *models.User
	Driver *models.Driver // nil for passengers
}

// Login verifies credentials with the provider and resolves the local
// profile (plus driver details for drivers).
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx = logger.WithAction(ctx, "login")

	tokens, authID, err := s.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, logger.WrapError(ctx, err)
	}

	user, err := s.users.GetByAuthID(ctx, authID)
	if err != nil {
		return nil, logger.WrapError(ctx, err)
	}

	result := &LoginResult{
		Tokens: tokens,
		User:   user,
	}

	if user.Role == types.RoleDriver {
		driver, err := s.drivers.GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, logger.WrapError(ctx, err)
		}
		result.Driver = driver
	}

	return result, nil
}

// VerifyAccess checks a provider-signed access JWT (HS256, shared secret)
// and resolves the local user for the request context.
func (s *Service) VerifyAccess(ctx context.Context, tokenString string) (*models.User, error) {
	ctx = logger.WithAction(ctx, "verify_access_token")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, logger.WrapError(ctx, ErrInvalidToken)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return nil, logger.WrapError(ctx, ErrInvalidToken)
	}

	user, err := s.users.GetByAuthID(ctx, sub)
	if err != nil {
		return nil, logger.WrapError(ctx, err)
	}

	return user, nil
}
