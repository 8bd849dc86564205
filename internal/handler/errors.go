package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wozamali-core/internal/handler/response"
	"wozamali-core/internal/service"
	"wozamali-core/internal/settlement"
	"wozamali-core/pkg/errno"
	"wozamali-core/pkg/logger"
	"wozamali-core/pkg/validator"
)

// toErrno maps service errors onto API codes. Unknown errors are logged and
// reported as internal errors without their text.
func toErrno(c *gin.Context, err error) errno.Errno {
	switch {
	case errors.Is(err, service.ErrCollectionNotFound):
		return errno.ErrCollectionNotFound
	case errors.Is(err, service.ErrAlreadySettled):
		return errno.ErrCollectionSettled
	case errors.Is(err, service.ErrCollectionRejected):
		return errno.ErrCollectionState
	case errors.Is(err, service.ErrEmptySubmission):
		return errno.ErrEmptySubmission
	case errors.Is(err, service.ErrSettlementInProgress):
		return errno.ErrSettlementInProgress
	case errors.Is(err, settlement.ErrCatalogUnavailable):
		return errno.ErrCatalogUnavailable
	case errors.Is(err, service.ErrWalletNotFound):
		return errno.ErrWalletNotFound
	case errors.Is(err, service.ErrInvalidCategory):
		return errno.ErrValidation.WithMessage(err.Error())
	}

	var e errno.Errno
	if errors.As(err, &e) {
		return e
	}
	logger.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	return errno.InternalServerError
}

func fail(c *gin.Context, err error) {
	response.Error(c, toErrno(c, err))
}

// bindFailed 使用 validator 包翻译错误信息
func bindFailed(c *gin.Context, err error) {
	response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
}
