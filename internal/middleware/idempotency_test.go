package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newIdempotentRouter(rdb *redis.Client, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/reports", Idempotency(rdb, time.Hour), func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusCreated, gin.H{"id": 1})
	})
	return r
}

func postWithKey(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/reports", nil)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	cacheKey := IdempotencyCacheKey("/reports", "", "k1")

	t.Run("first request is stored", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", idempotencyLockTTL).SetVal(true)
		mock.ExpectSet(cacheKey, []byte(`{"status":201,"body":{"id":1}}`), time.Hour).SetVal("OK")
		mock.ExpectDel(cacheKey + ":lock").SetVal(1)

		calls := 0
		w := postWithKey(newIdempotentRouter(rdb, &calls), "k1")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay skips the handler", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetVal(`{"status":201,"body":{"id":1}}`)

		calls := 0
		w := postWithKey(newIdempotentRouter(rdb, &calls), "k1")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
		assert.JSONEq(t, `{"id":1}`, w.Body.String())
		assert.Zero(t, calls)
	})

	t.Run("in-flight duplicate -> 409", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", idempotencyLockTTL).SetVal(false)

		calls := 0
		w := postWithKey(newIdempotentRouter(rdb, &calls), "k1")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Zero(t, calls)
	})

	t.Run("no key passes through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		calls := 0
		w := postWithKey(newIdempotentRouter(rdb, &calls), "")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
