package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/hookcfg/config"
	"github.com/grovetools/hookcfg/errors"
	"github.com/grovetools/hookcfg/git"
	"github.com/grovetools/hookcfg/pkg/profiling"
	"github.com/grovetools/hookcfg/pkg/store"
	"github.com/grovetools/hookcfg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blackManifest = `- id: black
  name: black
  entry: black
  language: python
  types: [python]
`

const localConfig = `default_language_version:
  python: python3
repos:
  - repo: local
    hooks:
      - id: lint
        name: lint
        entry: ./lint.sh
        language: script
      - id: fmt
        name: fmt
        entry: fmt
        language: system
        additional_dependencies: [tool-a, tool-b]
`

// execute runs hookcfg with args against an isolated HOOKCFG_HOME.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	if os.Getenv("HOOKCFG_HOME") == "" {
		t.Setenv("HOOKCFG_HOME", t.TempDir())
	}

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func remoteConfig(repoPath, rev string, ids ...string) string {
	var b strings.Builder
	b.WriteString("repos:\n")
	b.WriteString("  - repo: " + repoPath + "\n")
	b.WriteString("    rev: " + rev + "\n")
	b.WriteString("    hooks:\n")
	for _, id := range ids {
		b.WriteString("      - id: " + id + "\n")
	}
	return b.String()
}

func TestValidateCommand(t *testing.T) {
	path := testutil.WriteConfig(t, t.TempDir(), localConfig)

	out, _, err := execute(t, "validate", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "hooks")

	out, _, err = execute(t, "validate", "-c", path, "--json")
	require.NoError(t, err)

	var result ValidateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.Repos)
	assert.Equal(t, 2, result.Hooks)
	assert.Empty(t, result.Results)
}

func TestValidateRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
	}{
		{
			name: "duplicate hook",
			content: `repos:
  - repo: https://github.com/psf/black
    rev: 20.8b1
    hooks:
      - id: black
      - id: black
`,
			code: errors.ErrCodeDuplicateHook,
		},
		{
			name: "missing rev",
			content: `repos:
  - repo: https://github.com/psf/black
    hooks:
      - id: black
`,
			code: errors.ErrCodeConfigValidation,
		},
		{
			name:    "unknown key",
			content: "repos: []\nunknown: true\n",
			code:    errors.ErrCodeSchemaValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteConfig(t, t.TempDir(), tt.content)
			_, _, err := execute(t, "validate", "-c", path)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestValidateMissingConfig(t *testing.T) {
	_, _, err := execute(t, "validate", "-c", filepath.Join(t.TempDir(), ".pre-commit-config.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestValidateFetch(t *testing.T) {
	hookRepo := testutil.CreateHookRepo(t, blackManifest, "v1.0.0")
	dir := t.TempDir()

	path := testutil.WriteConfig(t, dir, remoteConfig(hookRepo, "v1.0.0", "black"))
	out, _, err := execute(t, "validate", "--fetch", "--json", "-c", path)
	require.NoError(t, err)

	var result ValidateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Valid)
	require.Len(t, result.Results, 1)
	require.Len(t, result.Results[0].Hooks, 1)
	assert.Equal(t, "black", result.Results[0].Hooks[0].Entry)
	assert.NotEmpty(t, result.Results[0].Commit)

	path = testutil.WriteConfig(t, dir, remoteConfig(hookRepo, "v1.0.0", "black", "blue"))
	_, _, err = execute(t, "validate", "--fetch", "-c", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeHookNotFound))

	path = testutil.WriteConfig(t, dir, remoteConfig(hookRepo, "v9.9.9", "black"))
	_, _, err = execute(t, "validate", "--fetch", "-c", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeRevisionNotFound))
}

func TestHooksCommand(t *testing.T) {
	path := testutil.WriteConfig(t, t.TempDir(), localConfig)

	out, _, err := execute(t, "hooks", "-c", path, "--json")
	require.NoError(t, err)

	var refs []config.HookRef
	require.NoError(t, json.Unmarshal([]byte(out), &refs))
	require.Len(t, refs, 2)
	assert.Equal(t, "lint", refs[0].ID)
	assert.Equal(t, []string{"tool-a", "tool-b"}, refs[1].AdditionalDependencies)

	out, _, err = execute(t, "hooks", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "tool-a, tool-b")
}

func TestHooksResolve(t *testing.T) {
	path := testutil.WriteConfig(t, t.TempDir(), localConfig)

	out, _, err := execute(t, "hooks", "--resolve", "--json", "-c", path)
	require.NoError(t, err)

	var hooks []struct {
		ID              string `json:"id"`
		Language        string `json:"language"`
		LanguageVersion string `json:"language_version"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &hooks))
	require.Len(t, hooks, 2)
	assert.Equal(t, "script", hooks[0].Language)
	assert.Equal(t, "default", hooks[0].LanguageVersion)
}

func TestExportCommand(t *testing.T) {
	path := testutil.WriteConfig(t, t.TempDir(), localConfig)
	original, err := config.Load(path)
	require.NoError(t, err)

	for _, format := range config.Formats {
		t.Run(string(format), func(t *testing.T) {
			out, _, err := execute(t, "export", "-c", path, "--format", string(format))
			require.NoError(t, err)

			decoded, err := config.Decode([]byte(out), format)
			require.NoError(t, err)
			assert.Equal(t, original, decoded)
		})
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteConfig(t, dir, localConfig)
	target := filepath.Join(dir, "hooks.toml")

	out, _, err := execute(t, "export", "-c", path, "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	decoded, err := config.Decode(data, config.FormatTOML)
	require.NoError(t, err)
	assert.Len(t, decoded.Hooks(), 2)
}

func TestExportUnknownFormat(t *testing.T) {
	path := testutil.WriteConfig(t, t.TempDir(), localConfig)

	_, _, err := execute(t, "export", "-c", path, "--format", "xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestSchemaCommand(t *testing.T) {
	for _, args := range [][]string{{"schema"}, {"schema", "--embedded"}} {
		out, _, err := execute(t, args...)
		require.NoError(t, err)

		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &doc), "args %v", args)
		assert.True(t, strings.HasSuffix(out, "\n"))
	}
}

func TestFetchAndCache(t *testing.T) {
	hookRepo := testutil.CreateHookRepo(t, blackManifest, "v1.0.0")
	t.Setenv("HOOKCFG_HOME", t.TempDir())
	path := testutil.WriteConfig(t, t.TempDir(), remoteConfig(hookRepo, "v1.0.0", "black"))

	out, _, err := execute(t, "fetch", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "completed")

	out, _, err = execute(t, "cache", "list", "--json")
	require.NoError(t, err)
	var entries []store.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "v1.0.0", entries[0].Rev)
	assert.DirExists(t, entries[0].Path)

	_, _, err = execute(t, "cache", "clean")
	require.NoError(t, err)

	out, _, err = execute(t, "cache", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No repositories")
}

func TestFetchReportsFailures(t *testing.T) {
	hookRepo := testutil.CreateHookRepo(t, blackManifest, "v1.0.0")
	path := testutil.WriteConfig(t, t.TempDir(), remoteConfig(hookRepo, "v2.0.0", "black"))

	out, _, err := execute(t, "fetch", "--json", "-c", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeRepoFetchFailed))

	var results []FetchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Error)
}

func TestCacheDirFromSettings(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("HOOKCFG_CACHE_DIR", cacheDir)

	out, _, err := execute(t, "paths")
	require.NoError(t, err)

	var paths PathsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &paths))
	assert.Equal(t, cacheDir, paths.CacheDir)
	assert.Equal(t, "settings.yaml", filepath.Base(paths.SettingsFile))
}

func TestPathsCreate(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOOKCFG_HOME", home)

	_, _, err := execute(t, "paths", "--create")
	require.NoError(t, err)
	for _, sub := range []string{"config", "state", "cache"} {
		assert.DirExists(t, filepath.Join(home, sub))
	}
}

func TestInstallAndUninstall(t *testing.T) {
	testutil.RequireGit(t)
	repo := t.TempDir()
	testutil.InitGitRepo(t, repo)
	t.Chdir(repo)

	_, _, err := execute(t, "install", "--binary", "/usr/local/bin/hookcfg")
	require.NoError(t, err)

	hookPath := filepath.Join(repo, ".git", "hooks", "pre-commit")
	assert.True(t, git.IsManagedHook(hookPath))
	content, err := os.ReadFile(hookPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "/usr/local/bin/hookcfg")

	_, _, err = execute(t, "uninstall")
	require.NoError(t, err)
	assert.NoFileExists(t, hookPath)
}

func TestInstallOutsideRepository(t *testing.T) {
	testutil.RequireGit(t)
	t.Chdir(t.TempDir())

	_, _, err := execute(t, "install")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotGitRepo))
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info["version"])
}

func TestTimingFlag(t *testing.T) {
	t.Cleanup(profiling.Reset)
	path := testutil.WriteConfig(t, t.TempDir(), localConfig)

	_, stderr, err := execute(t, "validate", "-c", path, "--timing")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Timing Profile")
	assert.Contains(t, stderr, "load config")
}
