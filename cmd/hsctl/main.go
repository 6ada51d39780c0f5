package main

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhelmers/helpscout-client/internal/config"
	"github.com/jhelmers/helpscout-client/pkg/client"
	"github.com/jhelmers/helpscout-client/pkg/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	api     *client.Client
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hsctl",
	Short: "A CLI for the Help Scout Mailbox API",
	Long: `hsctl talks to the Help Scout Mailbox API with OAuth2 client
credentials. It can list mailboxes, search conversations across all
result pages, and pull happiness ratings reports.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(mailboxesCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(ratelimitCmd)
}

// initializeApp loads configuration and builds the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
		Output: os.Stderr,
	})

	clientCfg := client.Config{
		ClientID:     cfg.HelpScout.AppID,
		ClientSecret: cfg.HelpScout.AppSecret,
		APIVersion:   client.APIVersion(cfg.HelpScout.APIVersion),
		BaseURL:      cfg.HelpScout.BaseURL,
	}

	if cfg.Redis.Enabled {
		clientCfg.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Sharing rate-limit state via Redis")
	}

	api, err = client.New(cmd.Context(), clientCfg)
	if err != nil {
		return fmt.Errorf("failed to create Help Scout client: %w", err)
	}

	return nil
}

func main() {
	Execute()
}
