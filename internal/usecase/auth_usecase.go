package usecase

import (
	"context"
	"errors"
	"time"

	"ezstore/internal/config"
	"ezstore/internal/domain/model"
	repo "ezstore/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	//401 認証失敗
	ErrInvalidCredentials = errors.New("invalid email or password")
	//403 停止済みユーザー
	ErrUserInactive = errors.New("user is inactive")
	//409 email重複
	ErrEmailTaken = errors.New("email already in use")
)

// accesstokenの有効期限
const accessTokenTTL = 24 * time.Hour

type AuthUsecase struct {
	cfg      config.Config
	userRepo repo.UserRepository
	log      zerolog.Logger
}

func NewAuthUsecase(cfg config.Config, userRepo repo.UserRepository, log zerolog.Logger) *AuthUsecase {
	return &AuthUsecase{cfg: cfg, userRepo: userRepo, log: log}
}

type UserOutput struct {
	ID            int64                  `json:"id"`
	Name          string                 `json:"name"`
	Email         string                 `json:"email"`
	Role          string                 `json:"role"`
	Address       *model.ShippingAddress `json:"address"`
	PaymentMethod string                 `json:"payment_method"`
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthTokenOutput struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type LoginOutput struct {
	User  UserOutput      `json:"user"`
	Token AuthTokenOutput `json:"token"`
}

// Register は新規ユーザー登録。パスワードは必ずハッシュ化して保存する。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserOutput, error) {
	if _, err := u.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return UserOutput{}, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrUserNotFound) {
		return UserOutput{}, err
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserOutput{}, err
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(pwHash),
		Role:         model.RoleUser,
		IsActive:     true,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		// unique制約違反（FindByEmail後の競合）もここに落ちる
		return UserOutput{}, ErrEmailTaken
	}

	u.log.Info().Int64("user_id", user.ID).Msg("user registered")
	return toUserOutput(user), nil
}

// Login はメール＋パスワードで認証してJWTを返す。
// 失敗理由（email不存在かパスワード違いか）は区別せず同じエラーにする。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	user, err := u.userRepo.FindByEmail(ctx, in.Email)
	if errors.Is(err, repo.ErrUserNotFound) {
		return LoginOutput{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginOutput{}, err
	}

	if !user.IsActive {
		return LoginOutput{}, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginOutput{}, ErrInvalidCredentials
	}

	//last_login更新（失敗してもログインは成立）
	now := time.Now()
	user.LastLoginAt = &now
	if err := u.userRepo.Update(ctx, user); err != nil {
		u.log.Warn().Err(err).Int64("user_id", user.ID).Msg("last login update failed")
	}

	token, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return LoginOutput{}, err
	}

	return LoginOutput{
		User: toUserOutput(user),
		Token: AuthTokenOutput{
			AccessToken: token,
			ExpiresIn:   expiresIn,
		},
	}, nil
}

// Me はログイン中ユーザーのプロフィール。
func (u *AuthUsecase) Me(ctx context.Context, userID int64) (UserOutput, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return UserOutput{}, ErrInvalidCredentials
	}
	if err != nil {
		return UserOutput{}, err
	}
	if !user.IsActive {
		return UserOutput{}, ErrUserInactive
	}

	return toUserOutput(user), nil
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(user *model.User) (string, int, error) {
	now := time.Now()
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}

	return signed, int(accessTokenTTL.Seconds()), nil
}

func toUserOutput(u *model.User) UserOutput {
	return UserOutput{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          string(u.Role),
		Address:       u.Address,
		PaymentMethod: u.PaymentMethod,
	}
}
