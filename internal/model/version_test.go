package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sassbin/sassbin/internal/model"
)

func TestNewVersion(t *testing.T) {
	cases := map[string]struct {
		version  string
		expected model.Version
	}{
		"bare": {
			version:  "1.58.0",
			expected: model.Version("1.58.0"),
		},
		"prefixed": {
			version:  "v1.58.0",
			expected: model.Version("1.58.0"),
		},
		"whitespace": {
			version:  "  1.58.0\n",
			expected: model.Version("1.58.0"),
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, model.NewVersion(tc.version))
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	cases := map[string]struct {
		version  model.Version
		other    model.Version
		expected int
	}{
		"lower": {
			version:  model.NewVersion("1.57.1"),
			other:    model.NewVersion("1.58.0"),
			expected: -1,
		},
		"equal": {
			version:  model.NewVersion("1.58.0"),
			other:    model.NewVersion("1.58.0"),
			expected: 0,
		},
		"higher": {
			version:  model.NewVersion("1.61.0"),
			other:    model.NewVersion("1.58.0"),
			expected: 1,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.version.Compare(tc.other))
		})
	}
}

func TestVersion_Before(t *testing.T) {
	assert.True(t, model.NewVersion("1.57.1").Before(model.NewVersion("1.58.0")))
	assert.False(t, model.NewVersion("1.58.0").Before(model.NewVersion("1.58.0")))
	assert.False(t, model.NewVersion("1.61.0").Before(model.NewVersion("1.58.0")))
}

func TestVersion_Equal(t *testing.T) {
	assert.True(t, model.NewVersion("1.58.0").Equal(model.NewVersion("v1.58.0")))
	assert.False(t, model.NewVersion("1.58.0").Equal(model.NewVersion("1.58.1")))
}

func TestVersion_IsValid(t *testing.T) {
	cases := map[string]struct {
		version  model.Version
		expected bool
	}{
		"valid": {
			version:  model.NewVersion("1.58.0"),
			expected: true,
		},
		"valid-prerelease": {
			version:  model.NewVersion("1.58.0-rc.1"),
			expected: true,
		},
		"invalid": {
			version:  model.NewVersion("latest"),
			expected: false,
		},
		"empty": {
			version:  model.NewVersion(""),
			expected: false,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.version.IsValid())
		})
	}
}
