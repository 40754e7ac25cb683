package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// BackupSuffix is appended to a foreign pre-commit hook when ours replaces it.
const BackupSuffix = ".pre-hookcfg"

// hookMarker identifies hook scripts written by HookManager.
const hookMarker = "hookcfg git hook"

const preCommitHookTemplate = `#!/bin/sh
# hookcfg git hook - {{.HookName}}
# Auto-generated, do not edit directly

HOOKCFG_BIN={{.Binary}}

# Run the hook this one replaced, if any
HOOK_DIR="$(cd "$(dirname "$0")" && pwd)"
if [ -x "$HOOK_DIR/{{.HookName}}{{.BackupSuffix}}" ]; then
    "$HOOK_DIR/{{.HookName}}{{.BackupSuffix}}" "$@" || exit $?
fi

# Check if hookcfg is installed
if ! command -v "$HOOKCFG_BIN" >/dev/null 2>&1; then
    echo "hookcfg not found. Skipping configuration check." >&2
    exit 0
fi

cd "$(git rev-parse --show-toplevel)" || exit 1
exec "$HOOKCFG_BIN" validate
`

// HookManager installs the commit-time configuration check
type HookManager struct {
	binary string
}

// Ensure it implements the interface
var _ HookProvider = (*HookManager)(nil)

// NewHookManager creates a new hook manager
func NewHookManager(binary string) *HookManager {
	if binary == "" {
		binary = "hookcfg"
	}
	return &HookManager{
		binary: binary,
	}
}

// InstallHooks installs the pre-commit hook into the repository at repoPath
func (m *HookManager) InstallHooks(ctx context.Context, repoPath string) error {
	hooksDir, err := HooksDir(ctx, repoPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return fmt.Errorf("create hooks directory: %w", err)
	}

	if err := m.installHook(hooksDir, "pre-commit", preCommitHookTemplate); err != nil {
		return fmt.Errorf("install pre-commit hook: %w", err)
	}
	return nil
}

// UninstallHooks removes the hook if we wrote it and restores any backup
func (m *HookManager) UninstallHooks(ctx context.Context, repoPath string) error {
	hooksDir, err := HooksDir(ctx, repoPath)
	if err != nil {
		return err
	}

	hookPath := filepath.Join(hooksDir, "pre-commit")
	if !IsManagedHook(hookPath) {
		return nil
	}
	if err := os.Remove(hookPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove pre-commit hook: %w", err)
	}

	backupPath := hookPath + BackupSuffix
	if _, err := os.Stat(backupPath); err == nil {
		if err := os.Rename(backupPath, hookPath); err != nil {
			return fmt.Errorf("restore previous hook: %w", err)
		}
	}
	return nil
}

// installHook installs a single git hook
func (m *HookManager) installHook(hooksDir, hookName, templateContent string) error {
	hookPath := filepath.Join(hooksDir, hookName)

	// Check if hook already exists
	if _, err := os.Stat(hookPath); err == nil {
		if !IsManagedHook(hookPath) {
			// Backup existing hook
			if err := os.Rename(hookPath, hookPath+BackupSuffix); err != nil {
				return fmt.Errorf("backup existing hook: %w", err)
			}
		}
	}

	// Generate hook content
	tmpl, err := template.New(hookName).Parse(templateContent)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	data := struct {
		HookName     string
		Binary       string
		BackupSuffix string
	}{
		HookName:     hookName,
		Binary:       shellQuote(m.binary),
		BackupSuffix: BackupSuffix,
	}

	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	// #nosec G306 - Git hooks need to be executable
	if err := os.WriteFile(hookPath, buf.Bytes(), 0755); err != nil {
		return fmt.Errorf("write hook file: %w", err)
	}

	return nil
}

// shellQuote single-quotes s for /bin/sh so the binary path is never expanded.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// IsManagedHook reports whether the hook file at hookPath was written by HookManager
func IsManagedHook(hookPath string) bool {
	content, err := os.ReadFile(hookPath)
	if err != nil {
		return false
	}
	return bytes.Contains(content, []byte(hookMarker))
}
