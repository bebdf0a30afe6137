package webhookevents

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/models"
)

// MockService реализует интерфейс webhookevents.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListEvents(ctx context.Context, limit, offset int) ([]*models.WebhookEventRecord, error) {
	args := m.Called(ctx, limit, offset)
	if res := args.Get(0); res != nil {
		return res.([]*models.WebhookEventRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sampleEvents := []*models.WebhookEventRecord{
		{
			ID:              1,
			StripeEventID:   "evt_1",
			EventType:       "checkout.session.completed",
			Email:           "student@example.com",
			StripeSessionID: "cs_test_1",
			Outcome:         "handled",
			ReceivedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "список с параметрами по умолчанию",
			url:  "/webhook-events",
			setupMock: func(m *MockService) {
				m.On("ListEvents", mock.Anything, 50, 0).Return(sampleEvents, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"stripe_event_id":"evt_1"`,
		},
		{
			name: "пагинация через query-параметры",
			url:  "/webhook-events?limit=10&offset=20",
			setupMock: func(m *MockService) {
				m.On("ListEvents", mock.Anything, 10, 20).Return([]*models.WebhookEventRecord{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"offset":20`,
		},
		{
			name: "некорректный limit заменяется значением по умолчанию",
			url:  "/webhook-events?limit=-5",
			setupMock: func(m *MockService) {
				m.On("ListEvents", mock.Anything, 50, 0).Return([]*models.WebhookEventRecord{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"limit":50`,
		},
		{
			name: "слишком большой limit обрезается",
			url:  "/webhook-events?limit=100000",
			setupMock: func(m *MockService) {
				m.On("ListEvents", mock.Anything, 50, 0).Return([]*models.WebhookEventRecord{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"limit":50`,
		},
		{
			name: "ошибка журнала",
			url:  "/webhook-events",
			setupMock: func(m *MockService) {
				m.On("ListEvents", mock.Anything, 50, 0).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not list webhook events`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
