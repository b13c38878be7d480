// Command loader populates the paper corpus: it fetches paper metadata from
// arXiv and embeds papers that have no vector yet.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/resurch-labs/resurch/internal/config"
	dbRedis "github.com/resurch-labs/resurch/internal/db/redis"
	logpkg "github.com/resurch-labs/resurch/internal/logger"
	"github.com/resurch-labs/resurch/internal/metrics"
	"github.com/resurch-labs/resurch/internal/repository/corpus"
	"github.com/resurch-labs/resurch/internal/version"
)

var (
	globalConfig config.Config
	globalLogger *zap.Logger
	globalStore  *dbRedis.Store
	globalCorpus *corpus.Repo
)

var rootCmd = &cobra.Command{
	Use:   "loader",
	Short: "Populate the resurch paper corpus",
	Long: `loader feeds the resurch corpus in two stages:

  fetch  pull paper metadata from the arXiv API
  embed  vectorize papers that have no stored embedding yet

Configuration is read from config/<ENV>.yaml, with env vars (and an
optional .env file) filling in secrets.`,
	Version:       fmt.Sprintf("%s (%s)", version.Version, version.Commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		_ = godotenv.Load()

		env := config.GetEnv()
		cfg, err := config.Load(env)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg

		logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		globalLogger = logger

		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			return fmt.Errorf("failed to create corpus store: %w", err)
		}
		if err := store.WaitForReady(cmd.Context(), time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			return fmt.Errorf("corpus store not ready: %w", err)
		}
		globalStore = store

		metrics.RegisterEmbeddingMetrics()

		globalCorpus = corpus.New(store, cfg.Embedding.Dimensions).WithHNSW(corpus.HNSWConfig{
			M:           cfg.Index.HNSWM,
			EFConstruct: cfg.Index.HNSWEFConstruct,
		})

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalStore != nil {
			globalStore.Close()
			globalStore = nil
		}
		if globalLogger != nil {
			_ = globalLogger.Sync()
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
