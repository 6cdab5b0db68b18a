package di

import (
	"context"
	"fmt"
	"github.com/mufasadev/velocity-ledger/internal/config"
	"github.com/mufasadev/velocity-ledger/internal/domain/repositories"
	"github.com/mufasadev/velocity-ledger/internal/infrastructure/api/handlers"
	"github.com/mufasadev/velocity-ledger/internal/infrastructure/auth"
	"github.com/mufasadev/velocity-ledger/internal/infrastructure/database/db_client"
	dbrepositories "github.com/mufasadev/velocity-ledger/internal/infrastructure/database/repositories"
	"github.com/mufasadev/velocity-ledger/internal/infrastructure/events"
	"github.com/mufasadev/velocity-ledger/internal/infrastructure/storage/memory"
	"github.com/mufasadev/velocity-ledger/internal/usecases/interactor"
	"golang.org/x/crypto/bcrypt"
)

type Container struct {
	Ledger              *memory.LedgerStore
	Tokens              *auth.TokenIssuer
	UserInteractor      *interactor.UserInteractor
	TransferInteractor  *interactor.TransferInteractor
	QueryInteractor     *interactor.QueryInteractor
	ReconcileInteractor *interactor.ReconcileInteractor
	UserHandler         *handlers.UserHandler
	AccountHandler      *handlers.AccountHandler
	TransferHandler     *handlers.TransferHandler
}

// NewContainer wires the ledger core and the HTTP handlers. publisher and journal may be nil.
func NewContainer(cfg *config.Config, publisher repositories.EventPublisher, journal repositories.JournalRepository) *Container {
	ledger := memory.NewLedgerStore(
		memory.WithLockRetry(cfg.Ledger.LockAttemptsCount(), cfg.Ledger.LockRetryDelayDuration()),
	)
	userRepository := memory.NewUserStore()

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLDuration())
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)

	userInteractor := interactor.NewUserInteractor(userRepository, ledger, hasher, tokens, publisher, journal, cfg.Ledger.WelcomeBonusAmount())
	transferInteractor := interactor.NewTransferInteractor(ledger, publisher, journal, cfg.Ledger.TransferAttemptsCount())
	queryInteractor := interactor.NewQueryInteractor(ledger, cfg.Ledger.DashboardLimitCount())
	reconcileInteractor := interactor.NewReconcileInteractor(ledger)

	return &Container{
		Ledger:              ledger,
		Tokens:              tokens,
		UserInteractor:      userInteractor,
		TransferInteractor:  transferInteractor,
		QueryInteractor:     queryInteractor,
		ReconcileInteractor: reconcileInteractor,
		UserHandler:         handlers.NewUserHandler(userInteractor),
		AccountHandler:      handlers.NewAccountHandler(queryInteractor),
		TransferHandler:     handlers.NewTransferHandler(transferInteractor, queryInteractor),
	}
}

// NewPublisher connects the event sink selected by EVENTS_DRIVER.
func NewPublisher(cfg config.Events) (repositories.EventPublisher, error) {
	switch cfg.Driver {
	case "", "none":
		return events.NoopPublisher{}, nil
	case "redis":
		client, err := events.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDBIndex())
		if err != nil {
			return nil, err
		}
		return events.NewRedisPublisher(client), nil
	case "nats":
		conn, err := events.NewNATSConn(cfg.NATSURL, "velocity-ledger")
		if err != nil {
			return nil, err
		}
		return events.NewNATSPublisher(conn), nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

// NewJournal connects and migrates the audit journal. It returns a nil repository when DB_ENABLED is off.
// The returned func closes the pool.
func NewJournal(ctx context.Context, cfg config.PostgreSQL) (repositories.JournalRepository, func(), error) {
	if !cfg.IsEnabled() {
		return nil, func() {}, nil
	}

	db, err := db_client.NewPGClient(cfg).Connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err = db_client.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return dbrepositories.NewJournalRepositoryImpl(db), db.Close, nil
}
