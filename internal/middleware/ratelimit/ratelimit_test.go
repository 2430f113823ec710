package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/pkg/messaging"
)

// MockRedisClient is a mock implementation of messaging.RedisClient
type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) Publish(ctx context.Context, channel string, message interface{}) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}

func (m *MockRedisClient) Subscribe(ctx context.Context, channel string) (<-chan messaging.Message, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan messaging.Message), args.Error(1)
}

func (m *MockRedisClient) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	args := m.Called(ctx, key, window)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRedisClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func runRateLimited(client messaging.RedisClient, requests int64) *httptest.ResponseRecorder {
	e := echo.New()
	handler := Middleware(client, Config{
		Requests: requests,
		Window:   time.Minute,
		Logger:   zap.NewNop(),
	})(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	rec := httptest.NewRecorder()

	_ = handler(e.NewContext(req, rec))
	return rec
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("under the limit passes through", func(t *testing.T) {
		client := new(MockRedisClient)
		client.On("IncrementWindow", mock.Anything, mock.AnythingOfType("string"), time.Minute).
			Return(int64(3), nil)

		rec := runRateLimited(client, 20)

		assert.Equal(t, http.StatusOK, rec.Code)
		client.AssertExpectations(t)
	})

	t.Run("over the limit answers 429", func(t *testing.T) {
		client := new(MockRedisClient)
		client.On("IncrementWindow", mock.Anything, mock.AnythingOfType("string"), time.Minute).
			Return(int64(21), nil)

		rec := runRateLimited(client, 20)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
	})

	t.Run("counter store failure lets the request through", func(t *testing.T) {
		client := new(MockRedisClient)
		client.On("IncrementWindow", mock.Anything, mock.AnythingOfType("string"), time.Minute).
			Return(int64(0), errors.New("connection refused"))

		rec := runRateLimited(client, 20)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
