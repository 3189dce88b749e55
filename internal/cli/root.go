package cli

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shizzytech/LinguaSync-AI/internal/core/repository"
	"github.com/shizzytech/LinguaSync-AI/internal/core/service"
	"github.com/shizzytech/LinguaSync-AI/internal/infrastructure/memory"
	"github.com/shizzytech/LinguaSync-AI/internal/infrastructure/sessionstore"
	"github.com/shizzytech/LinguaSync-AI/internal/infrastructure/sqlstore"
	"github.com/shizzytech/LinguaSync-AI/internal/logging"
	"github.com/shizzytech/LinguaSync-AI/internal/metrics"
	"github.com/shizzytech/LinguaSync-AI/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    *logrus.Logger
	logCloser io.Closer
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "linguasync",
	Short: "LinguaSync - accounts and waitlist backend",
	Long: `LinguaSync serves the account and waitlist API behind the LinguaSync front-end.

It provides:
- Session-based registration, login and logout
- Waitlist signups with referral tracking
- SQLite, PostgreSQL or in-memory storage
- Prometheus metrics`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, logCloser, err = logging.New(logging.Options{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			File:   cfg.LogFile,
		})
		if err != nil {
			return fmt.Errorf("failed to configure logging: %w", err)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/linguasync/config.yml)")
}

// Services holds all initialized services
type Services struct {
	DB              *sqlstore.DB
	UserRepo        repository.UserRepository
	WaitlistRepo    repository.WaitlistRepository
	SessionRepo     repository.SessionRepository
	AuthService     *service.AuthService
	WaitlistService *service.WaitlistService
	SessionStore    *sessionstore.Store
	Metrics         *metrics.Metrics
	Registry        *prometheus.Registry
}

// initServices initializes storage and services for the configured backend
func initServices(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Services, error) {
	services := &Services{
		Registry: prometheus.NewRegistry(),
	}
	services.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	services.Metrics = metrics.New(services.Registry)

	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		services.UserRepo = store.Users()
		services.WaitlistRepo = store.Waitlist()
		services.SessionRepo = store.Sessions()

	default:
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		services.DB = db

		if cfg.Database.AutoMigrate {
			applied, err := db.Migrate(ctx)
			if err != nil {
				db.Close()
				return nil, err
			}
			if applied > 0 {
				log.WithField("applied", applied).Info("applied database migrations")
			}
		}

		services.SessionRepo, err = sqlstore.NewSessionRepository(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		services.UserRepo = sqlstore.NewUserRepository(db)
		services.WaitlistRepo = sqlstore.NewWaitlistRepository(db)
	}

	services.AuthService = service.NewAuthService(services.UserRepo, cfg.BcryptCost, services.Metrics)
	services.WaitlistService = service.NewWaitlistService(services.WaitlistRepo, services.Metrics)
	services.SessionStore = sessionstore.New(services.SessionRepo, cfg.SessionOptions(), sessionKeys(cfg.SessionSecret)...)
	services.SessionStore.SetLogger(log)

	return services, nil
}

func openDatabase(cfg *config.Config) (*sqlstore.DB, error) {
	db, err := sqlstore.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

// sessionKeys derives the cookie signing and encryption keys from the secret
func sessionKeys(secret string) [][]byte {
	blockKey := sha256.Sum256([]byte("linguasync-session-encryption:" + secret))
	return [][]byte{[]byte(secret), blockKey[:]}
}

// Close closes all resources
func (s *Services) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}
