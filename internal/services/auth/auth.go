// Package auth реализует регистрацию и вход с проверкой статуса аккаунта.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/creatorshield/creatorshield/internal/lib/jwt"
	"github.com/creatorshield/creatorshield/internal/lib/password"
	"github.com/creatorshield/creatorshield/internal/lib/sl"
	"github.com/creatorshield/creatorshield/internal/models"
	"github.com/creatorshield/creatorshield/internal/services/logingate"
	"github.com/creatorshield/creatorshield/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
// Несуществующий аккаунт и неверный пароль наружу неразличимы.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Accounts описывает нужные операции над аккаунтами.
type Accounts interface {
	Create(ctx context.Context, acc models.Account) (string, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}

// Devices описывает реестр сессий устройств.
type Devices interface {
	RecordSession(ctx context.Context, email, username string, info models.DeviceInfo) (bool, *models.DeviceSession, error)
}

// LoginResult — итог успешной или отклонённой попытки входа.
// При отказе Denial заполнен, остальные поля пусты.
type LoginResult struct {
	Token       string
	Account     *models.Account
	Denial      *logingate.Decision
	IsNewDevice bool
	Session     *models.DeviceSession
}

// Service реализует бизнес-логику аутентификации.
type Service struct {
	accounts Accounts
	devices  Devices
	gate     *logingate.Gate
	maker    jwt.Maker
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(accounts Accounts, devices Devices, gate *logingate.Gate, maker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		devices:  devices,
		gate:     gate,
		maker:    maker,
		log:      log,
	}
}

// Register создает аккаунт с хешированным паролем и возвращает его UID.
func (s *Service) Register(ctx context.Context, email, username, plainPassword string) (string, error) {
	hash, err := password.GetHash(plainPassword)
	if err != nil {
		return "", err
	}
	return s.accounts.Create(ctx, models.Account{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         "user",
		Status:       models.StatusActive,
	})
}

// Login проверяет учётные данные и статус аккаунта.
//
// Порядок фиксирован: сначала пароль, затем гейт статуса, и только для
// допущенного входа — регистрация устройства и выпуск токена. Отказ по
// статусу возвращается в LoginResult.Denial, а не как ошибка.
func (s *Service) Login(ctx context.Context, email, plainPassword string, device models.DeviceInfo) (*LoginResult, error) {
	acc, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := password.CompareHash(plainPassword, acc.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	decision := s.gate.Evaluate(acc, time.Now().UTC())
	if !decision.Allowed {
		s.log.Info("login denied by account status",
			slog.String("email", email), slog.String("reason", decision.Reason))
		return &LoginResult{Account: acc, Denial: &decision}, nil
	}

	isNew, sess, err := s.devices.RecordSession(ctx, acc.Email, acc.Username, device)
	if err != nil {
		s.log.Warn("failed to record device session", slog.String("email", email), sl.Err(err))
		isNew, sess = false, nil
	}

	token, err := s.maker.GenerateToken(acc.Username, acc.Email, acc.Role, acc.UID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:       token,
		Account:     acc,
		IsNewDevice: isNew,
		Session:     sess,
	}, nil
}

// ValidateToken проверяет JWT и возвращает claims.
func (s *Service) ValidateToken(tokenStr string) (*jwt.CustomClaims, error) {
	return s.maker.ParseToken(tokenStr)
}
