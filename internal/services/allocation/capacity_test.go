package services

import (
	"testing"

	"github.com/magabrotheeeer/parking-allocator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrant(t *testing.T) {
	tests := []struct {
		name          string
		space         models.ParkingSpace
		wantRemaining int
		wantAvailable bool
		wantErr       error
	}{
		{
			name:          "consumes one unit",
			space:         models.ParkingSpace{CapacityMax: 3, CapacityRemaining: 3, IsAvailable: true},
			wantRemaining: 2,
			wantAvailable: true,
		},
		{
			name:          "last unit makes space unavailable",
			space:         models.ParkingSpace{CapacityMax: 3, CapacityRemaining: 1, IsAvailable: true},
			wantRemaining: 0,
			wantAvailable: false,
		},
		{
			name:          "single capacity space",
			space:         models.ParkingSpace{CapacityMax: 1, CapacityRemaining: 1, IsAvailable: true},
			wantRemaining: 0,
			wantAvailable: false,
		},
		{
			name:    "exhausted space rejected",
			space:   models.ParkingSpace{CapacityMax: 3, CapacityRemaining: 0, IsAvailable: false},
			wantErr: models.ErrCapacityExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Grant(tt.space)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemaining, got.CapacityRemaining)
			assert.Equal(t, tt.wantAvailable, got.IsAvailable)
			assert.Equal(t, got.IsAvailable, got.CapacityRemaining > 0)
		})
	}
}

func TestRelease(t *testing.T) {
	tests := []struct {
		name          string
		space         models.ParkingSpace
		wantRemaining int
		wantAvailable bool
		wantErr       error
	}{
		{
			name:          "returns one unit",
			space:         models.ParkingSpace{CapacityMax: 3, CapacityRemaining: 1, IsAvailable: true},
			wantRemaining: 2,
			wantAvailable: true,
		},
		{
			name:          "release makes exhausted space available again",
			space:         models.ParkingSpace{CapacityMax: 3, CapacityRemaining: 0, IsAvailable: false},
			wantRemaining: 1,
			wantAvailable: true,
		},
		{
			name:    "release above maximum rejected",
			space:   models.ParkingSpace{CapacityMax: 3, CapacityRemaining: 3, IsAvailable: true},
			wantErr: models.ErrCapacityOverflow,
		},
		{
			name:    "full single capacity space rejected",
			space:   models.ParkingSpace{CapacityMax: 1, CapacityRemaining: 1, IsAvailable: true},
			wantErr: models.ErrCapacityOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Release(tt.space)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemaining, got.CapacityRemaining)
			assert.Equal(t, tt.wantAvailable, got.IsAvailable)
		})
	}
}

// Выдача и освобождение одной единицы возвращают место в исходное состояние.
func TestGrantReleaseRoundTrip(t *testing.T) {
	original := models.ParkingSpace{
		ID: 1, Number: "A-101", CapacityMax: 5, CapacityRemaining: 3, IsAvailable: true,
	}

	granted, err := Grant(original)
	require.NoError(t, err)
	restored, err := Release(granted)
	require.NoError(t, err)

	assert.Equal(t, original.CapacityRemaining, restored.CapacityRemaining)
	assert.Equal(t, original.IsAvailable, restored.IsAvailable)
}
