package cli

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/grovetools/hookcfg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "config not found",
			err:  errors.ConfigNotFound("/tmp/x"),
			want: []string{"No .pre-commit-config.yaml found"},
		},
		{
			name: "schema",
			err:  errors.SchemaInvalid(stderrors.New("- /repos/0: missing properties: 'rev'")),
			want: []string{"does not match the schema", "/repos/0"},
		},
		{
			name: "duplicate hook",
			err:  errors.DuplicateHook("https://github.com/psf/black", "black"),
			want: []string{"Invalid configuration", "repo: https://github.com/psf/black", "hook: black"},
		},
		{
			name: "hook not found",
			err:  errors.HookNotFound("https://gitlab.com/pycqa/flake8", "3.8.4", "flake9"),
			want: []string{"flake9", "hookcfg hooks"},
		},
		{
			name: "fetch failed",
			err:  errors.FetchFailed("https://example.invalid/x", stderrors.New("boom")),
			want: []string{"failed to fetch", "hookcfg fetch"},
		},
		{
			name: "generic",
			err:  stderrors.New("something odd"),
			want: []string{"Error: something odd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &ErrorHandler{Out: &buf}

			got := h.Handle(tt.err)
			assert.Equal(t, tt.err, got)
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
			assert.NotContains(t, buf.String(), "Error details")
		})
	}
}

func TestErrorHandlerVerbose(t *testing.T) {
	var buf bytes.Buffer
	h := &ErrorHandler{Verbose: true, Out: &buf}

	_ = h.Handle(errors.HookNotFound("meta", "", "nope"))
	assert.Contains(t, buf.String(), "Error details")
	assert.Contains(t, buf.String(), `"code": "HOOK_NOT_FOUND"`)
}

func TestErrorHandlerNil(t *testing.T) {
	assert.NoError(t, NewErrorHandler(false).Handle(nil))
}
