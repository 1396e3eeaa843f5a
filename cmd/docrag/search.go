package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"docrag/internal/domain"
	"docrag/internal/retrieve"
)

var (
	searchCollection string
	searchTopK       int
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search [question]",
	Short: "Show the stored excerpts most similar to a question",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchCollection, "collection", "c", "paragraphs", "collection to query")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "maximum number of excerpts (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	store, err := buildStore(cfg)
	if err != nil {
		return err
	}

	topK := searchTopK
	if topK <= 0 {
		topK = cfg.Retrieve.TopK
	}
	results, err := retrieve.New(embedder, store).Retrieve(context.Background(), args[0], searchCollection, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}
	printResults(cmd, results)
	return nil
}

func printResults(cmd *cobra.Command, results []domain.RetrievalResult) {
	if len(results) == 0 {
		cmd.Println("No matching excerpts found.")
		return
	}
	for i, r := range results {
		cmd.Printf("[Excerpt %d] %s #%d (%.3f)\n", i+1, r.Metadata.Filename, r.Metadata.ParagraphIndex, r.Score)
		cmd.Println(r.Text)
		cmd.Println()
	}
}
