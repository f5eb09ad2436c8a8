package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("success - defaults when no file given", func(t *testing.T) {
		engine, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, int64(50), engine.Analysis.MinSupport)
		assert.Equal(t, 2.0, engine.Analysis.ZThreshold)
		assert.Equal(t, 0.05, engine.Analysis.PThreshold)
		assert.Equal(t, 5, engine.Analysis.TopInsights)
		assert.Equal(t, int64(42), engine.Generator.Seed)
		assert.Equal(t, 8000, engine.Generator.Transactions)
	})

	t.Run("success - file overlays defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "engine.yaml")
		content := `
analysis:
  min_support: 100
  top_insights: 3
generator:
  seed: 7
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		engine, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, int64(100), engine.Analysis.MinSupport)
		assert.Equal(t, 3, engine.Analysis.TopInsights)
		assert.Equal(t, int64(7), engine.Generator.Seed)
		assert.Equal(t, 2.0, engine.Analysis.ZThreshold)
		assert.Equal(t, 8000, engine.Generator.Transactions)
	})

	t.Run("error - top insights out of range", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "engine.yaml")
		content := `
analysis:
  top_insights: 10
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := Load(path)
		assert.ErrorContains(t, err, "invalid engine config")
	})

	t.Run("error - missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestProfileRegistry(t *testing.T) {
	ctx := context.Background()

	writeProfiles := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "atlascfg")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("success - list and fetch profiles", func(t *testing.T) {
		path := writeProfiles(t, `
[staging]
db_path = /tmp/staging.db
out_dir = /tmp/staging-out

[local]
db_path = atlas.db
out_dir = output
`)
		registry := NewProfileRegistry(path)

		names, err := registry.GetProfiles(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"local", "staging"}, names)

		profile, err := registry.GetProfile(ctx, "local")
		require.NoError(t, err)
		assert.Equal(t, "atlas.db", profile.DBPath)
		assert.Equal(t, "output", profile.OutDir)
	})

	t.Run("error - unknown profile", func(t *testing.T) {
		path := writeProfiles(t, "[local]\ndb_path = atlas.db\nout_dir = output\n")
		registry := NewProfileRegistry(path)

		_, err := registry.GetProfile(ctx, "prod")
		assert.ErrorContains(t, err, `profile "prod" not found`)
	})

	t.Run("error - incomplete profile", func(t *testing.T) {
		path := writeProfiles(t, "[local]\ndb_path = atlas.db\n")
		registry := NewProfileRegistry(path)

		_, err := registry.GetProfile(ctx, "local")
		assert.ErrorContains(t, err, "missing out_dir")
	})
}
