package response

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"wozamali-core/pkg/errno"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  errno.Errno
		want int
	}{
		{errno.OK, http.StatusOK},
		{errno.ErrBind, http.StatusBadRequest},
		{errno.ErrValidation, http.StatusBadRequest},
		{errno.ErrCollectionNotFound, http.StatusNotFound},
		{errno.ErrWalletNotFound, http.StatusNotFound},
		{errno.ErrCollectionSettled, http.StatusConflict},
		{errno.ErrSettlementInProgress, http.StatusConflict},
		{errno.ErrEmptySubmission, http.StatusUnprocessableEntity},
		{errno.ErrCatalogUnavailable, http.StatusServiceUnavailable},
		{errno.InternalServerError, http.StatusInternalServerError},
		{errno.ErrDatabase, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err.Code), tt.err.Message)
	}
}

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, fmt.Errorf("approve: %w", errno.ErrCatalogUnavailable))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"code":30201,"msg":"Material catalog unavailable, retry later","data":{}}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Error(c, errno.ErrCollectionSettled)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, w.Header().Get("Retry-After"))
}

func TestCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Created(c, gin.H{"id": "c-1"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"code":0,"msg":"Success","data":{"id":"c-1"}}`, w.Body.String())
}
