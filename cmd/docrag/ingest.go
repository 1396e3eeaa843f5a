package main

import (
	"context"

	"github.com/spf13/cobra"

	"docrag/internal/ingest"
	"docrag/internal/segment"
)

var ingestCollection string

var ingestCmd = &cobra.Command{
	Use:   "ingest [folder]",
	Short: "Embed a folder of .txt and .csv files into a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestCollection, "collection", "c", "paragraphs", "collection to write into")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
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

	seg := segment.New(segment.Mode(cfg.Segmenter.Mode), cfg.Segmenter.MinChars, cfg.Segmenter.MaxChars)
	in := ingest.New(seg, cfg.Batcher.MaxChars, embedder, store)

	summary, runErr := in.Run(context.Background(), args[0], ingestCollection)

	cmd.Printf("Files processed:  %d\n", summary.FilesProcessed)
	cmd.Printf("Units embedded:   %d\n", summary.UnitsEmbedded)
	cmd.Printf("Units filtered:   %d\n", summary.UnitsFiltered)
	cmd.Printf("Batches sent:     %d\n", summary.BatchesSent)
	if len(summary.Failures) > 0 {
		cmd.Println("Failures:")
		for _, f := range summary.Failures {
			cmd.Printf("  %s: %v\n", f.File, f.Err)
		}
	}
	return runErr
}
