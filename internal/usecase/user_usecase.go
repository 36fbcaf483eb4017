package usecase

import (
	"context"
	"errors"

	"ezstore/internal/domain/model"
	repo "ezstore/internal/repository"

	"github.com/rs/zerolog"
)

var ErrInvalidPaymentMethod = errors.New("invalid payment method")

// UserUsecase は注文確定前に揃えておくプロフィール情報（住所・支払い方法）を扱う。
type UserUsecase struct {
	userRepo repo.UserRepository
	log      zerolog.Logger
}

func NewUserUsecase(userRepo repo.UserRepository, log zerolog.Logger) *UserUsecase {
	return &UserUsecase{userRepo: userRepo, log: log}
}

type SaveAddressInput struct {
	FullName      string `json:"full_name" validate:"required,max=255"`
	StreetAddress string `json:"street_address" validate:"required,max=255"`
	City          string `json:"city" validate:"required,max=255"`
	PostalCode    string `json:"postal_code" validate:"required,max=20"`
	Country       string `json:"country" validate:"required,max=100"`
}

// SaveShippingAddress は配送先住所を保存する（上書き）。
func (u *UserUsecase) SaveShippingAddress(ctx context.Context, userID int64, in SaveAddressInput) error {
	if _, err := u.userRepo.FindByID(ctx, userID); err != nil {
		return err
	}

	return u.userRepo.UpdateAddress(ctx, userID, model.ShippingAddress{
		FullName:      in.FullName,
		StreetAddress: in.StreetAddress,
		City:          in.City,
		PostalCode:    in.PostalCode,
		Country:       in.Country,
	})
}

// SavePaymentMethod は支払い方法を保存する。選択肢にない値は受け付けない。
func (u *UserUsecase) SavePaymentMethod(ctx context.Context, userID int64, method string) error {
	if !isValidPaymentMethod(method) {
		return ErrInvalidPaymentMethod
	}

	if _, err := u.userRepo.FindByID(ctx, userID); err != nil {
		return err
	}

	return u.userRepo.UpdatePaymentMethod(ctx, userID, method)
}
