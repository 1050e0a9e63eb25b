// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transkribus-batch/internal/batch"
	"github.com/pdiddy/transkribus-batch/internal/secrets"
	"github.com/pdiddy/transkribus-batch/internal/transkribus"
	"github.com/pdiddy/transkribus-batch/pkg/types"
)

func TestRemoteConfig_EnvironmentWinsOverSecrets(t *testing.T) {
	t.Setenv("TRANSKRIBUS_USER", "env-user")
	t.Setenv("TRANSKRIBUS_PASSWORD", "")
	initConfig()

	loadedSecrets = map[string]string{
		secrets.KeyUser:     "file-user",
		secrets.KeyPassword: "file-pw",
	}
	defer func() { loadedSecrets = nil }()

	cfg := remoteConfig()
	assert.Equal(t, types.Credentials{User: "env-user", Password: "file-pw"}, cfg.Credentials)
	assert.Equal(t, types.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 120*time.Second, cfg.Timeout)
	assert.Equal(t, defaultUserAgent, cfg.UserAgent)
}

func TestNewClient_MissingPassword(t *testing.T) {
	t.Setenv("TRANSKRIBUS_USER", "env-user")
	t.Setenv("TRANSKRIBUS_PASSWORD", "")
	initConfig()
	loadedSecrets = nil

	_, err := newClient()
	assert.ErrorIs(t, err, transkribus.ErrConfiguration)
}

func TestFinishBatch_Strict(t *testing.T) {
	newCmd := func(strict bool) *cobra.Command {
		cmd := &cobra.Command{}
		addBatchFlags(cmd)
		if strict {
			require.NoError(t, cmd.Flags().Set("strict", "true"))
		}
		return cmd
	}
	failed := batch.Summary{PagesFailed: 1}

	assert.NoError(t, finishBatch(newCmd(false), failed, nil))
	assert.Error(t, finishBatch(newCmd(true), failed, nil))
	assert.NoError(t, finishBatch(newCmd(true), batch.Summary{PagesDone: 3}, nil))
}

func TestConfigFlag_DescribesSearchedPaths(t *testing.T) {
	usage := rootCmd.PersistentFlags().Lookup("config").Usage
	assert.Contains(t, usage, "./transkribus-batch.yaml")
	assert.Contains(t, usage, "~/.config/transkribus-batch/transkribus-batch.yaml")
}

func TestRootCommand_VersionIsAFlagOnly(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		assert.NotEqual(t, "version", c.Name())
	}
}
