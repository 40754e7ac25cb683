package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	original, err := Load(shippedConfig)
	require.NoError(t, err)

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(original, format)
			require.NoError(t, err)

			decoded, err := Decode(data, format)
			require.NoError(t, err)
			assert.Equal(t, original, decoded)

			// Encoding the decoded value again is byte-identical.
			again, err := Encode(decoded, format)
			require.NoError(t, err)
			assert.Equal(t, string(data), string(again))
		})
	}
}

func TestRoundTripOverrides(t *testing.T) {
	alwaysRun := true
	original := &Config{
		DefaultStages: []string{"commit"},
		Exclude:       `^docs/`,
		FailFast:      true,
		Repos: []Repo{
			{
				Repo: LocalRepo,
				Hooks: []Hook{{
					ID:        "pylint",
					Name:      "pylint",
					Entry:     "pylint",
					Language:  "system",
					Types:     []string{"python"},
					AlwaysRun: &alwaysRun,
				}},
			},
		},
	}

	for _, format := range Formats {
		data, err := Encode(original, format)
		require.NoError(t, err)
		decoded, err := Decode(data, format)
		require.NoError(t, err)
		assert.Equal(t, original, decoded, "format %s", format)
	}
}

func TestEncodedYAMLLoads(t *testing.T) {
	original, err := Load(shippedConfig)
	require.NoError(t, err)

	data, err := Encode(original, FormatYAML)
	require.NoError(t, err)

	reloaded, err := LoadFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, original, reloaded)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"yaml":  FormatYAML,
		".yml":  FormatYAML,
		"JSON":  FormatJSON,
		".toml": FormatTOML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("ini")
	assert.Error(t, err)

	got, err := FormatForPath("/tmp/hooks.toml")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, got)
}

func TestRoundTripEmptyLists(t *testing.T) {
	doc := `default_language_version: {}
default_stages: []
repos:
  - repo: https://gitlab.com/pycqa/flake8
    rev: 3.8.4
    hooks: []
  - repo: https://github.com/psf/black
    rev: 20.8b1
    hooks:
      - id: black
        args: []
        additional_dependencies: []
        types: []
`
	original, err := LoadFromBytes([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, original.Repos[0].HookIDs())
	assert.Nil(t, original.Repos[0].Hooks)
	assert.Nil(t, original.Repos[1].Hooks[0].Args)

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(original, format)
			require.NoError(t, err)

			decoded, err := Decode(data, format)
			require.NoError(t, err)
			assert.Equal(t, original, decoded)
		})
	}
}
