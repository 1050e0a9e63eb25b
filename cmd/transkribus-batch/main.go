// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the transkribus-batch CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/transkribus-batch/internal/secrets"
	"github.com/pdiddy/transkribus-batch/internal/transkribus"
	"github.com/pdiddy/transkribus-batch/pkg/types"
)

// version is set at build time via ldflags and printed by --version.
var version = "dev"

// configName is the base name of the config file and of its directory
// under ~/.config.
const configName = "transkribus-batch"

const (
	defaultTimeout   = 120 * time.Second
	defaultUserAgent = "transkribus-batch/0.1"
)

// loadedSecrets holds credentials loaded from the secrets directory at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the transkribus-batch CLI.
var rootCmd = &cobra.Command{
	Use:   "transkribus-batch",
	Short: "Batch upload and update documents in Transkribus",
	Long: `transkribus-batch uploads page images with their PageXML to a Transkribus
collection, and pushes edited PageXML back into documents that already exist
there.

The base directory holds one subdirectory per document:

  base_dir/
    <document title>/
      metadata.xml       docId of the remote document (update only)
      0001_folio1.jpg    page images, numbered in file name order
      page/
        0001_folio1.xml  PageXML for each image

Credentials come from TRANSKRIBUS_USER and TRANSKRIBUS_PASSWORD, a .env file,
the config file, or .secrets/transkribus-user and .secrets/transkribus-password.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "",
		fmt.Sprintf("config file (default: ./%[1]s.yaml or ~/.config/%[1]s/%[1]s.yaml)", configName))
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of credential files")
	rootCmd.PersistentFlags().String("base-url", types.DefaultBaseURL, "Transkribus REST API root")
	rootCmd.PersistentFlags().Duration("timeout", defaultTimeout, "timeout for each HTTP request")

	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.SetDefault("user_agent", defaultUserAgent)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	// TRANSKRIBUS_USER, TRANSKRIBUS_PASSWORD, TRANSKRIBUS_BASE_URL, ...
	viper.SetEnvPrefix("TRANSKRIBUS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// remoteConfig resolves the connection settings for this run. Environment
// and config file win over the secrets directory.
func remoteConfig() types.Config {
	creds := types.Credentials{
		User:     viper.GetString("user"),
		Password: viper.GetString("password"),
	}
	return types.Config{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: viper.GetString("user_agent"),
		},
		BaseURL:     viper.GetString("base_url"),
		Credentials: secrets.FillCredentials(creds, loadedSecrets),
	}
}

// newClient builds the single client, and so the single session, used by a run.
func newClient() (*transkribus.Client, error) {
	return transkribus.NewClient(remoteConfig(), nil)
}

func main() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
