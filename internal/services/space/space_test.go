package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/magabrotheeeer/parking-allocator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateSpace(ctx context.Context, sp models.ParkingSpace) (int, error) {
	args := m.Called(ctx, sp)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetSpace(ctx context.Context, id int) (*models.ParkingSpace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ParkingSpace), args.Error(1)
}
func (m *RepoMock) GetSpaceByNumber(ctx context.Context, number string) (*models.ParkingSpace, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ParkingSpace), args.Error(1)
}
func (m *RepoMock) ListSpaces(ctx context.Context, available *bool, limit, offset int) ([]*models.ParkingSpace, error) {
	args := m.Called(ctx, available, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ParkingSpace), args.Error(1)
}
func (m *RepoMock) UpdateSpaceInfo(ctx context.Context, sp models.ParkingSpace) (int, error) {
	args := m.Called(ctx, sp)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemoveSpace(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSpaceService_Create(t *testing.T) {
	req := models.DummySpace{
		Number:      "A-101",
		FloorNumber: 2,
		Address:     "Main street 1",
		OpenTime:    "08:00",
		CloseTime:   "22:00",
	}

	tests := []struct {
		name       string
		req        models.DummySpace
		setupMocks func(r *RepoMock)
		wantID     int
		wantErr    bool
	}{
		{
			name: "success create with default capacity",
			req:  req,
			setupMocks: func(r *RepoMock) {
				r.On("GetSpaceByNumber", mock.Anything, "A-101").
					Return(nil, models.ErrSpaceNotFound).Once()
				r.On("CreateSpace", mock.Anything, mock.MatchedBy(func(sp models.ParkingSpace) bool {
					return sp.Number == "A-101" &&
						sp.CapacityMax == 1 &&
						sp.CapacityRemaining == 1 &&
						sp.IsAvailable
				})).Return(5, nil).Once()
			},
			wantID: 5,
		},
		{
			name: "explicit capacity kept",
			req: models.DummySpace{
				Number: "B-1", CapacityMax: 4,
				Address: "Main street 1", OpenTime: "08:00", CloseTime: "22:00",
			},
			setupMocks: func(r *RepoMock) {
				r.On("GetSpaceByNumber", mock.Anything, "B-1").
					Return(nil, models.ErrSpaceNotFound).Once()
				r.On("CreateSpace", mock.Anything, mock.MatchedBy(func(sp models.ParkingSpace) bool {
					return sp.CapacityMax == 4 && sp.CapacityRemaining == 4
				})).Return(6, nil).Once()
			},
			wantID: 6,
		},
		{
			name: "duplicate number rejected",
			req:  req,
			setupMocks: func(r *RepoMock) {
				r.On("GetSpaceByNumber", mock.Anything, "A-101").
					Return(&models.ParkingSpace{ID: 1, Number: "A-101"}, nil).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := NewSpaceService(repo, newNoopLogger())

			tt.setupMocks(repo)

			id, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				_, ok := models.IsDuplicate(err)
				assert.True(t, ok)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestSpaceService_Update(t *testing.T) {
	existing := &models.ParkingSpace{
		ID: 1, Number: "A-101", CapacityMax: 2, CapacityRemaining: 1,
		IsAvailable: true, Address: "Main street 1",
	}
	req := models.DummySpace{
		Number: "A-102", FloorNumber: 3,
		Address: "Main street 1", OpenTime: "08:00", CloseTime: "22:00",
	}

	t.Run("success update keeps capacity counters", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSpaceService(repo, newNoopLogger())

		repo.On("GetSpace", mock.Anything, 1).Return(existing, nil).Once()
		repo.On("GetSpaceByNumber", mock.Anything, "A-102").
			Return(nil, models.ErrSpaceNotFound).Once()
		repo.On("UpdateSpaceInfo", mock.Anything, mock.MatchedBy(func(sp models.ParkingSpace) bool {
			return sp.Number == "A-102" &&
				sp.FloorNumber == 3 &&
				sp.CapacityMax == 2 &&
				sp.CapacityRemaining == 1
		})).Return(1, nil).Once()

		got, err := svc.Update(context.Background(), 1, req)
		require.NoError(t, err)
		assert.Equal(t, "A-102", got.Number)

		repo.AssertExpectations(t)
	})

	t.Run("number taken by another space", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSpaceService(repo, newNoopLogger())

		repo.On("GetSpace", mock.Anything, 1).Return(existing, nil).Once()
		repo.On("GetSpaceByNumber", mock.Anything, "A-102").
			Return(&models.ParkingSpace{ID: 2, Number: "A-102"}, nil).Once()

		_, err := svc.Update(context.Background(), 1, req)
		field, ok := models.IsDuplicate(err)
		assert.True(t, ok)
		assert.Equal(t, "number", field)
	})

	t.Run("keeping own number is not a duplicate", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSpaceService(repo, newNoopLogger())

		sameNumber := models.DummySpace{
			Number: "A-101", Address: "Main street 1",
			OpenTime: "08:00", CloseTime: "22:00",
		}
		repo.On("GetSpace", mock.Anything, 1).Return(existing, nil).Once()
		repo.On("GetSpaceByNumber", mock.Anything, "A-101").Return(existing, nil).Once()
		repo.On("UpdateSpaceInfo", mock.Anything, mock.Anything).Return(1, nil).Once()

		_, err := svc.Update(context.Background(), 1, sameNumber)
		assert.NoError(t, err)
	})

	t.Run("unknown space", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSpaceService(repo, newNoopLogger())

		repo.On("GetSpace", mock.Anything, 9).
			Return(nil, models.ErrSpaceNotFound).Once()

		_, err := svc.Update(context.Background(), 9, req)
		assert.ErrorIs(t, err, models.ErrSpaceNotFound)
	})
}

func TestSpaceService_List(t *testing.T) {
	available := true
	spaces := []*models.ParkingSpace{{ID: 1, Number: "A-101", IsAvailable: true}}

	t.Run("filter passed through", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSpaceService(repo, newNoopLogger())

		repo.On("ListSpaces", mock.Anything, &available, 10, 0).Return(spaces, nil).Once()

		got, err := svc.List(context.Background(), &available, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, spaces, got)
	})

	t.Run("nil result becomes empty slice", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSpaceService(repo, newNoopLogger())

		repo.On("ListSpaces", mock.Anything, (*bool)(nil), 10, 0).
			Return([]*models.ParkingSpace(nil), nil).Once()

		got, err := svc.List(context.Background(), nil, 10, 0)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestSpaceService_Remove(t *testing.T) {
	existing := &models.ParkingSpace{ID: 1, Number: "A-101"}

	t.Run("success remove returns snapshot", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSpaceService(repo, newNoopLogger())

		repo.On("GetSpace", mock.Anything, 1).Return(existing, nil).Once()
		repo.On("RemoveSpace", mock.Anything, 1).Return(1, nil).Once()

		got, err := svc.Remove(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, existing, got)
	})

	t.Run("unknown space", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSpaceService(repo, newNoopLogger())

		repo.On("GetSpace", mock.Anything, 9).
			Return(nil, models.ErrSpaceNotFound).Once()

		_, err := svc.Remove(context.Background(), 9)
		assert.ErrorIs(t, err, models.ErrSpaceNotFound)
	})
}
