package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionInfoString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vi   VersionInfo
		exp  string
	}{
		{
			name: "ok/release",
			vi:   VersionInfo{Semantic: "v1.2.0", Go: "go1.24.2"},
			exp:  "v1.2.0, built with go1.24.2",
		},
		{
			name: "ok/commit",
			vi:   VersionInfo{Semantic: "(devel)", Commit: "0123456789abcdef", Go: "go1.24.2"},
			exp:  "(devel) (0123456789ab), built with go1.24.2",
		},
		{
			name: "ok/dirty",
			vi:   VersionInfo{Semantic: "(devel)", Commit: "abc", Dirty: true, Go: "go1.24.2"},
			exp:  "(devel) (abc-dirty), built with go1.24.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.exp, tt.vi.String())
		})
	}
}

func TestGetVersion(t *testing.T) {
	t.Parallel()

	vi, err := GetVersion()
	require.NoError(t, err)
	assert.NotEmpty(t, vi.Semantic)
	assert.NotEmpty(t, vi.Go)
}
