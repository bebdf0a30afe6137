package set

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockService реализует интерфейс set.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Set(ctx context.Context, email string, isPremium bool, sessionID string) error {
	args := m.Called(ctx, email, isPremium, sessionID)
	return args.Error(0)
}

func TestSetHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная выдача премиума",
			body: `{"email":"student@example.com","isPremium":true,"stripeSessionId":"cs_test_1"}`,
			setupMock: func(m *MockService) {
				m.On("Set", mock.Anything, "student@example.com", true, "cs_test_1").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"success":true`,
		},
		{
			name: "явный отзыв премиума",
			body: `{"email":"student@example.com","isPremium":false}`,
			setupMock: func(m *MockService) {
				m.On("Set", mock.Anything, "student@example.com", false, "").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"success":true`,
		},
		{
			name:           "отсутствует isPremium",
			body:           `{"email":"student@example.com"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `required`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"email":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name: "ошибка записи в хранилище",
			body: `{"email":"student@example.com","isPremium":true}`,
			setupMock: func(m *MockService) {
				m.On("Set", mock.Anything, "student@example.com", true, "").
					Return(errors.New("store unavailable"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not set premium status`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/subscription/set", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
