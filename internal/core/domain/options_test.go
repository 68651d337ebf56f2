package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/core/domain"
)

var dateClassOptions = []domain.OptionDecl{
	{Name: domain.OptionShared, Default: false},
	{Name: domain.OptionPIC, Default: true},
}

func TestResolveOptions(t *testing.T) {
	linux := domain.Settings{OS: "Linux"}
	windows := domain.Settings{OS: "Windows"}

	tests := []struct {
		name        string
		settings    domain.Settings
		overrides   map[string]string
		want        map[string]bool
		wantIgnored []string
		errContains string
	}{
		{
			name:     "linux defaults",
			settings: linux,
			want:     map[string]bool{"shared": false, "position_independent_code": true},
		},
		{
			name:     "windows drops position independent code",
			settings: windows,
			want:     map[string]bool{"shared": false},
		},
		{
			name:     "lower case windows",
			settings: domain.Settings{OS: "windows"},
			want:     map[string]bool{"shared": false},
		},
		{
			name:      "override shared",
			settings:  linux,
			overrides: map[string]string{"shared": "True"},
			want:      map[string]bool{"shared": true, "position_independent_code": true},
		},
		{
			name:      "fPIC alias",
			settings:  linux,
			overrides: map[string]string{"fPIC": "False"},
			want:      map[string]bool{"shared": false, "position_independent_code": false},
		},
		{
			name:        "fPIC on windows is ignored",
			settings:    windows,
			overrides:   map[string]string{"fPIC": "True", "shared": "true"},
			want:        map[string]bool{"shared": true},
			wantIgnored: []string{"fPIC"},
		},
		{
			name:        "unknown option",
			settings:    linux,
			overrides:   map[string]string{"with_tz": "True"},
			errContains: "unknown option",
		},
		{
			name:        "non boolean value",
			settings:    linux,
			overrides:   map[string]string{"shared": "maybe"},
			errContains: "invalid option value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, ignored, err := domain.ResolveOptions(dateClassOptions, tt.settings, tt.overrides)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts.Values())
			assert.Equal(t, tt.wantIgnored, ignored)
		})
	}
}

func TestOptions_Accessors(t *testing.T) {
	opts, _, err := domain.ResolveOptions(dateClassOptions, domain.Settings{OS: "Linux"}, nil)
	require.NoError(t, err)

	pic, ok := opts.Get("fPIC")
	assert.True(t, ok)
	assert.True(t, pic)
	assert.True(t, opts.Has(domain.OptionShared))
	assert.False(t, opts.Has("with_tz"))
	assert.Equal(t, []string{"position_independent_code", "shared"}, opts.Names())
	assert.Equal(t, 2, opts.Len())

	values := opts.Values()
	values["shared"] = true
	shared, _ := opts.Get("shared")
	assert.False(t, shared, "Values must return a copy")
}
