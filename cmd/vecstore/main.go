package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lithammer/shortuuid/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/emberkit/vecstore/ai"
	"github.com/emberkit/vecstore/internal/profile"
	"github.com/emberkit/vecstore/internal/version"
	"github.com/emberkit/vecstore/store"
	"github.com/emberkit/vecstore/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "vecstore",
	Short: "Store documents as embedding vectors and search them by similarity.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Try to load .env from the current directory (ignore error if absent).
		_ = godotenv.Load()
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the vectors and metadata tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()
		fmt.Println("schema ready")
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add [text]...",
	Short: "Embed texts and insert them as documents (reads stdin when no args)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		texts := args
		if len(texts) == 0 {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				if line := strings.TrimSpace(scanner.Text()); line != "" {
					texts = append(texts, line)
				}
			}
			if err := scanner.Err(); err != nil {
				return err
			}
		}

		batchID := shortuuid.New()
		documents := make([]*store.Document, 0, len(texts))
		for _, text := range texts {
			metadata := map[string]string{"batch": batchID}
			if textKey := s.Spec().TextKey; textKey != "" {
				metadata[textKey] = text
			}
			documents = append(documents, &store.Document{
				PageContent: text,
				Metadata:    metadata,
			})
		}

		if err := s.AddDocuments(cmd.Context(), documents); err != nil {
			return err
		}
		fmt.Printf("inserted %d documents (batch %s)\n", len(documents), batchID)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the nearest documents to a query text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, embedder, err := openStoreWithEmbedder(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		query, err := embedder.Embed(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		topK := viper.GetInt("top-k")
		documents, err := s.SimilaritySearch(cmd.Context(), query, topK)
		if err != nil && len(documents) == 0 {
			return err
		}
		if err != nil {
			slog.Warn("returning partial results", "error", err)
		}

		for i, doc := range documents {
			score := 0.0
			if doc.Score != nil {
				score = *doc.Score
			}
			fmt.Printf("%d. %s  score=%.4f\n", i+1, doc.ID, score)
			if doc.PageContent != "" {
				fmt.Printf("   %s\n", doc.PageContent)
			}
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the vecstore version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.GetCurrentVersion(viper.GetString("mode")))
	},
}

func newProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Version: version.GetCurrentVersion(viper.GetString("mode")),
	}
	p.FromEnv()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func openStoreWithEmbedder(ctx context.Context) (*store.Store, ai.EmbeddingService, error) {
	p, err := newProfile()
	if err != nil {
		return nil, nil, err
	}

	driver, err := db.NewDBDriver(p)
	if err != nil {
		slog.Error("failed to create db driver", "error", err)
		return nil, nil, err
	}

	embedder, err := ai.NewEmbeddingService(&ai.EmbeddingConfig{
		Model:      p.EmbeddingModel,
		APIKey:     p.EmbeddingAPIKey,
		BaseURL:    p.EmbeddingBaseURL,
		Dimensions: p.EmbeddingDimensions,
	})
	if err != nil {
		_ = driver.Close()
		return nil, nil, err
	}
	embedder = ai.NewCachedEmbeddingService(embedder, 1024, 0)

	strategy, err := store.ParseDistanceStrategy(p.DistanceStrategy)
	if err != nil {
		_ = driver.Close()
		return nil, nil, err
	}

	s, err := store.New(ctx, driver, embedder, store.Spec{
		VectorDimensions:        p.EmbeddingDimensions,
		OverwriteExistingTables: p.OverwriteExistingTables,
		TextKey:                 p.TextKey,
		Strategy:                strategy,
	})
	if err != nil {
		_ = driver.Close()
		slog.Error("failed to create store", "error", err)
		return nil, nil, err
	}
	return s, embedder, nil
}

func openStore(ctx context.Context) (*store.Store, error) {
	s, _, err := openStoreWithEmbedder(ctx)
	return s, err
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("top-k", 5)

	rootCmd.PersistentFlags().String("mode", "dev", `mode, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver (postgres, sqlite)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	searchCmd.Flags().Int("top-k", 5, "number of nearest documents to return")

	if err := viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("driver", rootCmd.PersistentFlags().Lookup("driver")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("dsn", rootCmd.PersistentFlags().Lookup("dsn")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("top-k", searchCmd.Flags().Lookup("top-k")); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix("vecstore")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	rootCmd.AddCommand(initCmd, addCmd, searchCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
