package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/resurch-labs/resurch/internal/arxiv"
	"github.com/resurch-labs/resurch/internal/usecase/ingest"
)

var (
	fetchQuery      string
	fetchMaxResults int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch paper metadata from arXiv",
	Long:  "Query the arXiv API and store paper metadata in the corpus. Vectors are added later by the embed command.",
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchQuery, "query", "", "arXiv search query (required), e.g. 'cat:cs.CL'")
	fetchCmd.Flags().IntVar(&fetchMaxResults, "max-results", arxiv.DefaultMaxResults, "Maximum number of papers to fetch")
	_ = fetchCmd.MarkFlagRequired("query")
}

func runFetch(cmd *cobra.Command, args []string) error {
	client := arxiv.NewClient()
	svc := ingest.New(client, globalCorpus, nil, 0, globalLogger)

	stored, err := svc.FetchPapers(cmd.Context(), fetchQuery, fetchMaxResults)
	if err != nil {
		globalLogger.Error("Fetch failed", zap.Error(err), zap.Int("stored", stored))
		return err
	}

	fmt.Printf("Stored %d papers for query %q\n", stored, fetchQuery)
	return nil
}
