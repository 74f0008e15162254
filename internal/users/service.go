package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohanmahajan/furnimart-backend/pkg/db/models"
	pkgerrors "github.com/rohanmahajan/furnimart-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages account profiles and address books.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserResponse, error)
	ListUsers(ctx context.Context) ([]UserResponse, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]AddressResponse, error)
	AddAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*AddressResponse, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input AddressInput) (*AddressResponse, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a users service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	resp := ToUserResponse(*user)
	return &resp, nil
}

// ListUsers returns every account, newest first.
func (s *service) ListUsers(ctx context.Context) ([]UserResponse, error) {
	list, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return ToUserResponses(list), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		user.Name = name
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.NotifyEmail != nil {
		user.NotifyEmail = *input.NotifyEmail
	}
	if input.NotifySMS != nil {
		user.NotifySMS = *input.NotifySMS
	}

	saved, err := s.repo.SaveUser(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	resp := ToUserResponse(*saved)
	return &resp, nil
}

func (s *service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]AddressResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return ToAddressResponses(list), nil
}

func (s *service) AddAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*AddressResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}

	var created *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.IsDefault {
			if err := repo.ClearDefaultAddresses(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default addresses")
			}
		}
		address := &models.Address{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      input.Type,
			Street:    strings.TrimSpace(input.Street),
			City:      strings.TrimSpace(input.City),
			State:     strings.TrimSpace(input.State),
			Zip:       strings.TrimSpace(input.Zip),
			IsDefault: input.IsDefault,
		}
		saved, err := repo.CreateAddress(ctx, address)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
		}
		created = saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToAddressResponse(*created)
	return &resp, nil
}

func (s *service) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input AddressInput) (*AddressResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if addressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}

	var updated *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		address, err := repo.FindAddress(ctx, addressID, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
		}

		if input.IsDefault && !address.IsDefault {
			if err := repo.ClearDefaultAddresses(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default addresses")
			}
		}

		address.Type = input.Type
		address.Street = strings.TrimSpace(input.Street)
		address.City = strings.TrimSpace(input.City)
		address.State = strings.TrimSpace(input.State)
		address.Zip = strings.TrimSpace(input.Zip)
		address.IsDefault = input.IsDefault

		saved, err := repo.SaveAddress(ctx, address)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
		}
		updated = saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToAddressResponse(*updated)
	return &resp, nil
}

func (s *service) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}
	if _, err := s.repo.FindAddress(ctx, addressID, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if err := s.repo.DeleteAddress(ctx, addressID, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

func validateAddressInput(input AddressInput) error {
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid address type")
	}
	if strings.TrimSpace(input.Street) == "" ||
		strings.TrimSpace(input.City) == "" ||
		strings.TrimSpace(input.State) == "" ||
		strings.TrimSpace(input.Zip) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "street, city, state and zip are required")
	}
	return nil
}
