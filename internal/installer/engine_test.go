package installer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeletePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    DeletePolicy
		wantErr bool
	}{
		{in: "", want: AbortOnError},
		{in: "abort", want: AbortOnError},
		{in: "continue", want: ContinueOnError},
		{in: "ignore", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDeletePolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	assert.Equal(t, AbortOnError, h.engine.deletePolicy)
	assert.False(t, h.engine.autoRollback)
	assert.Nil(t, h.engine.metrics)
}
