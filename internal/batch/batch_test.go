// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transkribus-batch/internal/transkribus"
	"github.com/pdiddy/transkribus-batch/internal/transkribus/transkribustest"
	"github.com/pdiddy/transkribus-batch/pkg/types"
)

const (
	testUser     = "archivist"
	testPassword = "pw"
	testColl     = "4242"
)

func newServerAndClient(t *testing.T) (*transkribustest.Server, *transkribus.Client) {
	t.Helper()
	srv := transkribustest.New(testUser, testPassword)
	t.Cleanup(srv.Close)

	c, err := transkribus.NewClient(types.Config{
		BaseURL:     srv.BaseURL(),
		Credentials: types.Credentials{User: testUser, Password: testPassword},
	}, srv.Client())
	require.NoError(t, err)
	return srv, c
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
