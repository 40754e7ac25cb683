package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Setenv("HOOKCFG_TEST_DIR", "/var/tmp/hookcfg")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"home", "~", home},
		{"home subdir", "~/.cache/hookcfg", filepath.Join(home, ".cache", "hookcfg")},
		{"env var", "$HOOKCFG_TEST_DIR/logs", "/var/tmp/hookcfg/logs"},
		{"relative", "logs/hookcfg.log", filepath.Join(cwd, "logs", "hookcfg.log")},
		{"tilde inside name", "/tmp/~backup", "/tmp/~backup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
