package interactor

import (
	"context"
	"github.com/google/uuid"
	"github.com/mufasadev/velocity-ledger/internal/domain/models"
	"github.com/mufasadev/velocity-ledger/internal/domain/repositories"
	apperrors "github.com/mufasadev/velocity-ledger/internal/errors"
	"github.com/mufasadev/velocity-ledger/internal/usecases/dtos"
	"github.com/mufasadev/velocity-ledger/pkg/log"
	"github.com/mufasadev/velocity-ledger/pkg/money"
	"github.com/rs/zerolog"
	"strings"
	"time"
)

const welcomeDescription = "Welcome bonus"

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type UserInteractor struct {
	userRepository repositories.UserRepository
	ledger         repositories.LedgerRepository
	hasher         PasswordHasher
	tokens         TokenIssuer
	notifier       *ledgerNotifier
	welcomeBonus   money.Amount
	logger         *zerolog.Logger
}

func NewUserInteractor(
	userRepository repositories.UserRepository,
	ledger repositories.LedgerRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	publisher repositories.EventPublisher,
	journal repositories.JournalRepository,
	welcomeBonus money.Amount,
) *UserInteractor {
	l := log.GetLogger()
	return &UserInteractor{
		userRepository: userRepository,
		ledger:         ledger,
		hasher:         hasher,
		tokens:         tokens,
		notifier:       &ledgerNotifier{publisher: publisher, journal: journal, logger: &l},
		welcomeBonus:   welcomeBonus,
		logger:         &l,
	}
}

// Register creates the user together with a checking account seeded by the welcome credit.
func (u *UserInteractor) Register(ctx context.Context, dto *dtos.RegisterDTO) (*dtos.AuthResult, error) {
	email := strings.TrimSpace(dto.Email)
	if _, err := u.userRepository.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewUserAlreadyExistsError()
	}

	hash, err := u.hasher.Hash(dto.Password)
	if err != nil {
		u.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     dto.FullName,
		Phone:        dto.Phone,
		CreatedAt:    time.Now(),
	}
	if err = u.userRepository.Create(ctx, user); err != nil {
		return nil, err
	}

	// the user only exists together with the funded default account
	account, err := u.ledger.CreateFundedAccount(ctx, user.ID, models.AccountTypeChecking, u.welcomeBonus, welcomeDescription)
	if err != nil {
		u.logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to open default account")
		if delErr := u.userRepository.Delete(context.WithoutCancel(ctx), user.ID); delErr != nil {
			u.logger.Error().Err(delErr).Str("user_id", user.ID).Msg("Failed to roll back user")
		}
		return nil, err
	}
	u.notifier.accountOpened(ctx, &account.Account)
	if len(account.Transactions) > 0 {
		u.notifier.entriesCommitted(ctx, account.Transactions...)
	}

	token, err := u.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	u.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return &dtos.AuthResult{Token: token, UserID: user.ID}, nil
}

func (u *UserInteractor) Login(ctx context.Context, dto *dtos.LoginDTO) (*dtos.AuthResult, error) {
	user, err := u.userRepository.GetByEmail(ctx, dto.Email)
	if err != nil {
		return nil, apperrors.NewInvalidCredentialsError()
	}
	if !u.hasher.Verify(dto.Password, user.PasswordHash) {
		return nil, apperrors.NewInvalidCredentialsError()
	}

	token, err := u.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &dtos.AuthResult{Token: token, UserID: user.ID}, nil
}

func (u *UserInteractor) Profile(ctx context.Context, userID string) (*models.User, error) {
	return u.userRepository.GetByID(ctx, userID)
}

func (u *UserInteractor) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, err := u.userRepository.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return true, nil
}

// OpenAccount opens an additional, empty account for an existing user.
func (u *UserInteractor) OpenAccount(ctx context.Context, userID string, dto *dtos.OpenAccountDTO) (*models.Account, error) {
	if _, ok := models.ValidAccountTypes[dto.AccountType]; !ok {
		return nil, apperrors.NewBadRequestError("Invalid account type")
	}
	if _, err := u.userRepository.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	account, err := u.ledger.CreateAccount(ctx, userID, dto.AccountType)
	if err != nil {
		return nil, err
	}
	u.notifier.accountOpened(ctx, account)
	return account, nil
}
