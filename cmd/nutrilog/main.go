// Command nutrilog tracks foods, pantry stock, recipes, and meal entries in a
// local SQLite file, with nutrient profiles looked up from Nutritionix.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nutrilog/backend/config"
	"github.com/nutrilog/backend/internal/infrastructure/nutritionix"
	"github.com/nutrilog/backend/internal/infrastructure/store"
	"github.com/nutrilog/backend/internal/logging"
	"github.com/nutrilog/backend/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once the root has started up
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *store.Store
	service *usecase.NutritionService
}

// rootFlags override the loaded configuration
type rootFlags struct {
	dbPath   string
	logLevel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	if stopErr := a.stop(); err == nil {
		err = stopErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "nutrilog",
		Short:         "Track foods, pantry, recipes, and meals with per-nutrient detail",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.start(cmd.Context(), flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "SQLite database file (overrides NUTRILOG_DATABASE_PATH)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn, or error (overrides NUTRILOG_LOG_LEVEL)")

	root.AddCommand(
		newServeCmd(a),
		newSchemaCmd(a),
		newSearchCmd(a),
		newImportCmd(a),
		newFoodsCmd(a),
		newPantryCmd(a),
		newRecipeCmd(a),
		newEntryCmd(a),
	)
	return root
}

// start loads configuration, opens the store, and makes sure the schema
// exists. It runs before every subcommand.
func (a *app) start(ctx context.Context, flags *rootFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flags.dbPath != "" {
		cfg.Database.Path = flags.dbPath
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Server.Environment)
	if err != nil {
		return err
	}

	db, err := store.Open(ctx, cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return err
	}

	// Offline commands run without credentials; search and import check them.
	var source *nutritionix.Client
	if cfg.RequireNutritionix() == nil {
		source = nutritionix.NewClient(nutritionix.Config{
			AppID:         cfg.Nutritionix.AppID,
			AppKey:        cfg.Nutritionix.AppKey,
			BaseURL:       cfg.Nutritionix.BaseURL,
			Timeout:       cfg.Nutritionix.Timeout,
			RatePerSecond: cfg.Nutritionix.RatePerSecond,
			Burst:         cfg.Nutritionix.Burst,
		}, logger)
	}

	serviceConfig := usecase.NutritionServiceConfig{
		Match: usecase.MatchConfig{
			MinScore:       cfg.Matching.MinScore,
			MaxSuggestions: cfg.Matching.MaxSuggestions,
		},
	}
	// Keep a nil *Client out of the interface so the service sees no source.
	if source != nil {
		a.service = usecase.NewNutritionService(db, source, logger, serviceConfig)
	} else {
		a.service = usecase.NewNutritionService(db, nil, logger, serviceConfig)
	}

	a.cfg = cfg
	a.logger = logger
	a.store = db

	logger.Debug("Started",
		zap.String("database", db.Path()),
		zap.Bool("nutritionix", source != nil))
	return nil
}

// stop releases the store. Safe to call more than once.
func (a *app) stop() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// requireSource fails early when the command needs Nutritionix but no
// credentials are configured.
func (a *app) requireSource() error {
	return a.cfg.RequireNutritionix()
}
