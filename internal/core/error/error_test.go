package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapFetch(t *testing.T) {
	assert.NoError(t, WrapFetch("Blitman Dining Hall", nil))

	cause := errors.New("connection reset")
	err := WrapFetch("Blitman Dining Hall", cause)
	assert.Equal(t, "menu fetch failed for Blitman Dining Hall: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
}

func TestWrapRedis(t *testing.T) {
	assert.NoError(t, WrapRedis(nil))

	var appErr *AppError
	require.ErrorAs(t, WrapRedis(redis.Nil), &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.ErrorIs(t, appErr, redis.Nil)

	require.ErrorAs(t, WrapRedis(errors.New("i/o timeout")), &appErr)
	assert.Equal(t, RedisErrorMessage, appErr.Message)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(fmt.Errorf("%w: %q", ErrInvalidToken, "garbage")))
	assert.Equal(t, http.StatusBadGateway, StatusOf(WrapRedis(errors.New("i/o timeout"))))
	assert.Equal(t, http.StatusBadGateway, StatusOf(fmt.Errorf("graph: %w", WrapFetch("BARH Dining Hall", errors.New("eof")))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("panic: boom")))
}
