// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/qd-maker/insurance-rag/internal/embedding"
	"github.com/qd-maker/insurance-rag/internal/secrets"
	"github.com/qd-maker/insurance-rag/pkg/types"
)

// defaultSmokeText is the sentence sent when no input text is given.
const defaultSmokeText = "这是一个测试文本，用于验证 embedding 模型是否可用。"

var embedCmd = &cobra.Command{
	Use:   "embed [text]",
	Short: "Smoke-test the embedding API",
	Long: `Embed sends one text to the configured OpenAI-compatible embeddings
endpoint and reports the vector dimension and first elements. Use it to
verify credentials and connectivity before running the pipeline.

The API key is resolved from config (embedding.api_key), the environment
(INSURANCE_RAG_EMBEDDING_API_KEY), or .secrets/embedding-api-key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEmbed,
}

func init() {
	embedCmd.Flags().String("model", "", "embedding model (default from config, else text-embedding-3-small)")
	embedCmd.Flags().String("base-url", "", "API base URL including version path (default from config, else https://api.openai.com/v1)")

	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	text := defaultSmokeText
	if len(args) == 1 {
		text = args[0]
	}

	cfg := embeddingConfig(cmd)

	client, err := embedding.NewClient(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing embedding model: %s\n", client.Model())
	fmt.Fprintf(out, "Base URL: %s\n", client.BaseURL())
	fmt.Fprintf(out, "API key:  %s\n\n", secrets.Mask(cfg.APIKey))

	vector, err := client.Embed(context.Background(), text)
	if err != nil {
		return fmt.Errorf("embedding call failed: %w", err)
	}

	head := vector
	if len(head) > 5 {
		head = head[:5]
	}

	fmt.Fprintln(out, "Embedding call succeeded")
	fmt.Fprintf(out, "  text:       %s\n", text)
	fmt.Fprintf(out, "  dimensions: %d\n", len(vector))
	fmt.Fprintf(out, "  first %d:    %v\n", len(head), head)
	return nil
}

// embeddingConfig resolves the embedding client settings from flags, config,
// environment, and the secrets directory.
func embeddingConfig(cmd *cobra.Command) types.EmbeddingConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("embedding.model")
	}

	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = secretDefault("embedding-base-url", viper.GetString("embedding.base_url"))
	}

	return types.EmbeddingConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("embedding.timeout"),
			UserAgent: "insurance-rag/" + version,
		},
		Model:     model,
		BaseURL:   baseURL,
		APIKey:    secretDefault("embedding-api-key", viper.GetString("embedding.api_key")),
		CacheSize: viper.GetInt("embedding.cache_size"),
	}
}
