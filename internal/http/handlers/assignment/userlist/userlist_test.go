package userlist

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/parking-allocator/internal/models"
)

// MockService реализует интерфейс userlist.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListForUser(ctx context.Context, userUID string) ([]*models.UserAssignment, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserAssignment), args.Error(1)
}

func TestUserListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	const userUID = "9f1c6e7a-2b34-4c8d-9e0f-123456789abc"

	tests := []struct {
		name           string
		uid            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "закрепления с описанием мест",
			uid:  userUID,
			setupMock: func(m *MockService) {
				m.On("ListForUser", mock.Anything, userUID).
					Return([]*models.UserAssignment{
						{
							ID:           1,
							RecordedSlot: 2,
							Space: models.SpaceSummary{
								ID: 5, Number: "A-101", FloorNumber: 2, IsAvailable: true,
							},
						},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"number":"A-101"`,
		},
		{
			name: "пустой список для пользователя без закреплений",
			uid:  userUID,
			setupMock: func(m *MockService) {
				m.On("ListForUser", mock.Anything, userUID).
					Return([]*models.UserAssignment{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"list_count":0`,
		},
		{
			name: "пользователь не найден",
			uid:  "unknown-uid",
			setupMock: func(m *MockService) {
				m.On("ListForUser", mock.Anything, "unknown-uid").
					Return(nil, models.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `user not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/users/"+tt.uid+"/assignments", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("uid", tt.uid)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
