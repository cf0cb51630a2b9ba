package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkSettingsFromSource(t *testing.T) {
	settings := map[string]interface{}{
		"scoring": map[string]interface{}{
			"base_url": "http://other:5000",
			"burst":    2,
		},
		"log": map[string]interface{}{"json": true},
	}

	sourceMap := make(map[string]SourceInfo)
	markSettingsFromSource(settings, "", SourceUser, "/home/user/.cleaner/am.toml", sourceMap)

	assert.Len(t, sourceMap, 3)
	assert.Equal(t, SourceUser, sourceMap["scoring.base_url"].Source)
	assert.Equal(t, "/home/user/.cleaner/am.toml", sourceMap["log.json"].Path)
}

func TestMergeConfigFiles_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	system := filepath.Join(dir, "system.toml")
	project := filepath.Join(dir, "project.toml")
	require.NoError(t, os.WriteFile(system, []byte("[scoring]\nbase_url = \"http://system:5000\"\nburst = 3\n"), DefaultFilePermissions))
	require.NoError(t, os.WriteFile(project, []byte("[scoring]\nbase_url = \"http://project:5000\"\n"), DefaultFilePermissions))

	Reset()
	t.Cleanup(Reset)

	v := viper.New()
	SetDefaults(v)
	mergeConfigFiles(v, []configPath{
		{system, SourceSystem},
		{filepath.Join(dir, "absent.toml"), SourceUser},
		{project, SourceProject},
	})

	assert.Equal(t, "http://project:5000", v.GetString("scoring.base_url"))
	assert.Equal(t, 3, v.GetInt("scoring.burst"))
	assert.Equal(t, SourceProject, configSources["scoring.base_url"].Source)
	assert.Equal(t, SourceSystem, configSources["scoring.burst"].Source)

	var settings []SettingInfo
	flattenSettingsWithSources(v.AllSettings(), "", configSources, &settings)

	byKey := map[string]SettingInfo{}
	for _, s := range settings {
		byKey[s.Key] = s
	}
	assert.Equal(t, SourceDefault, byKey["session.prob_step"].Source)
	assert.Equal(t, project, byKey["scoring.base_url"].SourcePath)
}

func TestFlattenSettings_EnvironmentOverride(t *testing.T) {
	t.Setenv("CLEANER_LOG_LEVEL", "debug")

	var settings []SettingInfo
	flattenSettingsWithSources(map[string]interface{}{
		"log": map[string]interface{}{"level": "debug"},
	}, "", map[string]SourceInfo{}, &settings)

	require.Len(t, settings, 1)
	assert.Equal(t, SourceEnvironment, settings[0].Source)
	assert.Equal(t, "CLEANER_LOG_LEVEL", settings[0].SourcePath)
}

func TestMergeConfigFiles_EnvironmentStillWins(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "am.toml")
	require.NoError(t, os.WriteFile(project, []byte("[scoring]\nbase_url = \"http://project:5000\"\n"), DefaultFilePermissions))
	t.Setenv("CLEANER_SCORING_URL", "http://env:5000")

	Reset()
	t.Cleanup(Reset)

	v := viper.New()
	BindEnvVars(v)
	SetDefaults(v)
	mergeConfigFiles(v, []configPath{{project, SourceProject}})

	assert.Equal(t, "http://env:5000", v.GetString("scoring.base_url"))
}
