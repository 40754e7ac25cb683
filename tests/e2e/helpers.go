package main

import (
	"fmt"
	"os/exec"
)

// findHookcfgBinary finds the hookcfg binary under test.
// It relies on the Makefile setting the PATH to include the local ./bin directory.
func findHookcfgBinary() (string, error) {
	path, err := exec.LookPath("hookcfg")
	if err != nil {
		return "", fmt.Errorf("could not find 'hookcfg' binary in PATH. Ensure 'make test-e2e' is used")
	}
	return path, nil
}

const validConfig = `default_language_version:
  python: python3
repos:
  - repo: https://github.com/pre-commit/mirrors-isort
    rev: v5.7.0
    hooks:
      - id: isort
  - repo: https://gitlab.com/pycqa/flake8
    rev: 3.8.4
    hooks:
      - id: flake8
        additional_dependencies:
          - git+https://github.com/RedHatQE/flake8-plugins.git
          - pep8-naming
`

const duplicateHookConfig = `repos:
  - repo: https://github.com/psf/black
    rev: 20.8b1
    hooks:
      - id: black
      - id: black
`
