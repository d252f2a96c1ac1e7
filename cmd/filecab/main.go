package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/anverma/filecab/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "filecab",
	Short:   "Session-authenticated file storage server",
	Long: `Filecab is a small file storage server with session-based
authentication, folder hierarchies, and per-file visibility, backed by
MongoDB for metadata and Redis for sessions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var configFiles []string
		if cf, err := cmd.Flags().GetString("config"); err == nil && cf != "" {
			configFiles = append(configFiles, cf)
		}

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg.Log.Level)
		cmd.SetContext(withConfig(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("mongo-uri", "", "MongoDB connection string (env: FILECAB_MONGO_URI)")
	rootCmd.PersistentFlags().String("mongo-db", "", "MongoDB database name (env: FILECAB_MONGO_DATABASE)")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address (env: FILECAB_REDIS_ADDR)")
	rootCmd.PersistentFlags().String("storage-path", "", "blob storage directory (env: FILECAB_STORAGE_PATH)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
