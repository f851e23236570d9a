package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"SERVER_PORT", "GRAPH_URI", "DATASET_CREDITS", "DATASET_BACON_ACTOR", "SEARCH_WORKERS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.HTTP.Port)
	assert.Equal(t, defaultReadTimeout, cfg.HTTP.ReadTimeout)
	assert.Equal(t, int64(defaultBaconActor), cfg.Dataset.BaconActor)
	assert.Equal(t, defaultParallelThreshold, cfg.Search.ParallelThreshold)
	assert.False(t, cfg.UseGraphDB())
	assert.ErrorIs(t, cfg.Validate(), ErrNoCreditSource)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_WRITE_TIMEOUT", "3s")
	t.Setenv("DATASET_CREDITS", "credits.json")
	t.Setenv("DATASET_BACON_ACTOR", "17")
	t.Setenv("SEARCH_WORKERS", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, "credits.json", cfg.Dataset.CreditsPath)
	assert.Equal(t, int64(17), cfg.Dataset.BaconActor)
	assert.Equal(t, 2, cfg.Search.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	cases := map[string]string{
		"SERVER_PORT":         "70000",
		"SERVER_READ_TIMEOUT": "soon",
		"DATASET_BACON_ACTOR": "kevin",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
