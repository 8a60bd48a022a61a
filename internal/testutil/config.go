package testutil

import (
	"testing"

	"github.com/lepinkainen/libris/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	OverwriteFiles bool
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{OverwriteFiles: config.OverwriteFiles}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.OverwriteFiles = state.OverwriteFiles
}

// ResetConfig resets viper and the config globals, registers the defaults
// and schedules restoration when the test completes.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()
	config.InitConfig()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)
	viper.Set(key, value)

	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
		// viper has no Unset, so an unset key cannot be restored.
	})
}

// SetupTestStores points the favorites and cache databases at the test
// environment and returns their paths.
func SetupTestStores(t *testing.T, env *TestEnv) (favoritesDB, cacheDB string) {
	t.Helper()

	favoritesDB = env.Path("favorites.db")
	cacheDB = env.Path("cache", "test-cache.db")
	env.WriteFile("cache/.keep", nil)

	SetViperValue(t, "favorites.dbfile", favoritesDB)
	SetViperValue(t, "cache.dbfile", cacheDB)
	SetViperValue(t, "cache.ttl", "24h")
	SetViperValue(t, "export.dir", env.Path("notes"))
	return favoritesDB, cacheDB
}
