package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaibhaw-/custetl/internal/custetl/reader"
)

// resetGenerateFlags clears values left behind by an earlier Execute.
func resetGenerateFlags(t *testing.T) {
	t.Helper()
	generateCmd.Flags().VisitAll(func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	})
}

func TestRootArgs(t *testing.T) {
	assert.Error(t, rootCmd.Args(rootCmd, nil))
	assert.Error(t, rootCmd.Args(rootCmd, []string{"root"}))
	assert.Error(t, rootCmd.Args(rootCmd, []string{"root", "pw", "extra"}))
	assert.NoError(t, rootCmd.Args(rootCmd, []string{"root", "pw"}))
}

func TestGenerateCommand(t *testing.T) {
	resetGenerateFlags(t)
	out := filepath.Join(t.TempDir(), "customers.txt")
	rootCmd.SetArgs([]string{"generate", "--output", out, "--customers", "12", "--seed", "3"})
	require.NoError(t, rootCmd.Execute())

	_, stats, err := reader.ReadFile(out)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.Detail, 12)
}

func TestGenerateCommand_Profile(t *testing.T) {
	resetGenerateFlags(t)
	dir := t.TempDir()
	profile := filepath.Join(dir, "profile.yaml")
	out := filepath.Join(dir, "from-profile.txt")
	require.NoError(t, os.WriteFile(profile, []byte("output: "+out+"\ncustomers: 4\nduplicate_rate: 0\nnon_detail_rate: 0\n"), 0o644))

	rootCmd.SetArgs([]string{"generate", "--profile", profile})
	require.NoError(t, rootCmd.Execute())

	raw, _, err := reader.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, raw, 4)
}

func TestSubcommandsIgnoreETLConfig(t *testing.T) {
	t.Setenv("CUSTETL_DATABASE_DRIVER", "oracle")

	rootCmd.SetArgs([]string{"version"})
	assert.NoError(t, rootCmd.Execute())

	resetGenerateFlags(t)
	out := filepath.Join(t.TempDir(), "customers.txt")
	rootCmd.SetArgs([]string{"generate", "--output", out, "--customers", "2"})
	assert.NoError(t, rootCmd.Execute())

	// The ETL run itself still validates the config.
	rootCmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "root", "pw"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported database.driver "oracle"`)
}
