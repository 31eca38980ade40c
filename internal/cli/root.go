package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ppiankov/boycotts/internal/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the release reported by the version command
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// envKeys are the config keys that can be set through BOYCOTTS_* variables
var envKeys = []string{
	"source.url",
	"http.timeout",
	"http.user_agent",
	"http.max_body_bytes",
	"http.http_proxy",
	"http.https_proxy",
	"http.no_proxy",
	"robots.check",
	"robots.enforce",
	"cache.enabled",
	"cache.dir",
	"output.dir",
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "boycotts",
	Short: "Boycotts - Ethical Consumer boycott list scraper",
	Long: `Boycotts fetches the Ethical Consumer boycotts page, reconstructs each
campaign from the page text and writes two JSON files:

  ethical-consumer-boycotts.json        raw archive of every campaign
  ethical-consumer-evil-companies.json  lookup keyed by company name

The extraction is heuristic and tuned to the page's current layout.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "boycotts %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.boycotts/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads .env, the config file and BOYCOTTS_* variables
func initConfig() {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			log.Warn().Err(err).Msg("cannot locate home directory")
		} else {
			viper.AddConfigPath(dir)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("BOYCOTTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range envKeys {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("path", viper.ConfigFileUsed()).Msg("using config file")
	} else if cfgFile != "" {
		log.Warn().Err(err).Str("path", cfgFile).Msg("failed to read config file")
	}
}

// configDir is where config init writes and initConfig looks
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".boycotts"), nil
}

// loadConfig layers the config file and environment over the defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
