package errno

import "errors"

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// WithMessage keeps the code and replaces the message.
func (e Errno) WithMessage(msg string) Errno {
	return Errno{Code: e.Code, Message: msg}
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var ptr *Errno
	if errors.As(err, &ptr) {
		return ptr.Code, ptr.Message
	}
	var val Errno
	if errors.As(err, &val) {
		return val.Code, val.Message
	}
	return InternalServerError.Code, err.Error()
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrValidation       = Errno{Code: 10003, Message: "Validation failed"}
	ErrDatabase         = Errno{Code: 10004, Message: "Database error"}
	ErrNotFound         = Errno{Code: 10005, Message: "Resource not found"}
)

// Business Errors (30000+)
var (
	ErrCollectionNotFound   = Errno{Code: 30101, Message: "Collection not found"}
	ErrCollectionSettled    = Errno{Code: 30102, Message: "Collection already settled"}
	ErrCollectionState      = Errno{Code: 30103, Message: "Collection is not pending"}
	ErrEmptySubmission      = Errno{Code: 30104, Message: "Collection has no material with a positive weight"}
	ErrSettlementInProgress = Errno{Code: 30105, Message: "Collection is being settled by another request"}
	ErrCatalogUnavailable   = Errno{Code: 30201, Message: "Material catalog unavailable, retry later"}
	ErrMaterialNotFound     = Errno{Code: 30202, Message: "Material not found"}
	ErrWalletNotFound       = Errno{Code: 30301, Message: "Wallet not found"}
)
