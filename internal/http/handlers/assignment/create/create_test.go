package create

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/parking-allocator/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.DummyAssignment) (*models.AssignmentEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssignmentEntry), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	const userUID = "9f1c6e7a-2b34-4c8d-9e0f-123456789abc"
	validBody := `{"user_uid":"` + userUID + `","space_id":1}`

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная выдача места",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, models.DummyAssignment{
					UserUID: userUID, SpaceID: 1,
				}).Return(&models.AssignmentEntry{
					ID: 42, UserUID: userUID, SpaceID: 1, RecordedSlot: 1,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"ID":42`,
		},
		{
			name:           "некорректный json",
			body:           `{invalid`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name:           "ошибка валидации",
			body:           `{"user_uid":"not-a-uuid","space_id":1}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `uuid`,
		},
		{
			name: "место недоступно",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(nil, models.ErrSpaceUnavailable)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `parking space unavailable`,
		},
		{
			name: "пользователь не найден",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(nil, models.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `user not found`,
		},
		{
			name: "автомобиль уже закреплён",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(nil, models.ErrCarAlreadyAssigned)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `car already assigned`,
		},
		{
			name: "конфликт конкурентных выдач",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(nil, models.ErrConcurrencyConflict)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `concurrent update conflict`,
		},
		{
			name: "ошибка сервиса",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not create assignment`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/assignments", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
