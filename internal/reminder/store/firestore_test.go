package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/reminder/domain"
)

func TestToGoal(t *testing.T) {
	goal, err := toGoal("g1", goalDocument{UserID: "u1", Name: "Car", TargetAmount: int64(5000)})

	require.NoError(t, err)
	assert.Equal(t, domain.Goal{ID: "g1", UserID: "u1", Name: "Car", TargetAmount: 5000}, goal)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      interface{}
		want    float64
		wantErr bool
	}{
		{name: "integer", in: int64(100), want: 100},
		{name: "double", in: 12.5, want: 12.5},
		{name: "numeric string", in: "250", want: 250},
		{name: "missing", in: nil, want: 0},
		{name: "garbage string", in: "lots", wantErr: true},
		{name: "bool", in: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
