package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/resurch-labs/resurch/internal/metrics"
	"github.com/resurch-labs/resurch/internal/repository/embcache"
	openaiEmb "github.com/resurch-labs/resurch/internal/transport/openai"
	"github.com/resurch-labs/resurch/internal/usecase/ingest"
)

var embedBatchSize int

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed papers without a stored vector",
	Long:  "Vectorize every paper that has metadata but no embedding yet, and make sure the vector index exists.",
	RunE:  runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().IntVar(&embedBatchSize, "batch-size", ingest.DefaultBatchSize, "Papers per embedding API call")
}

func runEmbed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := globalConfig

	// A fresh corpus gets pinned to the configured model here. A corpus
	// embedded with a different model is refused.
	if err := globalCorpus.AssertModel(ctx, cfg.VectorConfig()); err != nil {
		return err
	}

	baseEmbedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     globalLogger,
	})
	embedder := embcache.New(baseEmbedder, globalStore, metrics.EmbeddingCacheTotal, globalLogger)

	svc := ingest.New(nil, globalCorpus, embedder, embedBatchSize, globalLogger)

	embedded, err := svc.EmbedMissing(ctx)
	if err != nil {
		globalLogger.Error("Embed failed", zap.Error(err), zap.Int("embedded", embedded))
		return err
	}

	fmt.Printf("Embedded %d papers with %s\n", embedded, cfg.Embedding.Model)
	return nil
}
