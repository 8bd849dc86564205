package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wozamali-core/pkg/errno"
)

// Response 统一返回结构: code 0 表示成功, 其余为 errno 业务码
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"msg"`
	Data    interface{} `json:"data"`
}

// retryAfterSeconds is sent with codes a client may simply retry.
const retryAfterSeconds = "1"

// Success 200 + data
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, errno.OK.Code, errno.OK.Message, data)
}

// Created 201 + data, for requests that stored a new resource
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, errno.OK.Code, errno.OK.Message, data)
}

// Error writes err with the HTTP status of its errno class.
func Error(c *gin.Context, err error) {
	code, msg := errno.Decode(err)
	if code == errno.ErrCatalogUnavailable.Code || code == errno.ErrSettlementInProgress.Code {
		c.Header("Retry-After", retryAfterSeconds)
	}
	write(c, HTTPStatus(code), code, msg, nil)
}

// HTTPStatus maps an errno code onto the transport status.
func HTTPStatus(code int) int {
	switch code {
	case errno.OK.Code:
		return http.StatusOK
	case errno.ErrBind.Code, errno.ErrValidation.Code:
		return http.StatusBadRequest
	case errno.ErrNotFound.Code, errno.ErrCollectionNotFound.Code,
		errno.ErrMaterialNotFound.Code, errno.ErrWalletNotFound.Code:
		return http.StatusNotFound
	case errno.ErrCollectionSettled.Code, errno.ErrCollectionState.Code, errno.ErrSettlementInProgress.Code:
		return http.StatusConflict
	case errno.ErrEmptySubmission.Code:
		return http.StatusUnprocessableEntity
	case errno.ErrCatalogUnavailable.Code:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func write(c *gin.Context, status, code int, msg string, data interface{}) {
	if data == nil {
		data = gin.H{} // 返回空对象而不是 null
	}
	c.JSON(status, Response{
		Code:    code,
		Message: msg,
		Data:    data,
	})
}
