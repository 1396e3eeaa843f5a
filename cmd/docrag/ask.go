package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"docrag/internal/answer"
	"docrag/internal/retrieve"
	"docrag/internal/tui"
)

var askCollection string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from a collection",
	Long: `Retrieves the most relevant excerpts and generates an answer.
With a question argument it answers once and exits; without one it
starts an interactive session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askCollection, "collection", "c", "paragraphs", "collection to query")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
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
	generator, err := answer.NewOpenAIGenerator(answer.GeneratorConfig{
		APIKeyEnv:   cfg.Embedder.APIKeyEnv,
		BaseURL:     cfg.Embedder.BaseURL,
		Model:       cfg.Answer.Model,
		Temperature: cfg.Answer.Temperature,
		Timeout:     time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return err
	}

	svc := answer.NewService(
		retrieve.New(embedder, store),
		generator,
		askCollection,
		cfg.Retrieve.TopK,
		cfg.Answer.SystemPrompt,
	)

	if len(args) == 0 {
		_, err := tea.NewProgram(tui.New(svc, askCollection)).Run()
		return err
	}

	results, reply, err := svc.Ask(context.Background(), args[0])
	if err != nil {
		return err
	}
	if len(results) == 0 {
		cmd.Println("No relevant excerpts found in the collection.")
		return nil
	}
	printResults(cmd, results)
	cmd.Println("Answer:")
	cmd.Println(reply)
	return nil
}
