package public

import (
	"errors"

	"github.com/hatstore-next/internal/http/response"
	"github.com/hatstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "quantity must be positive"},
	{target: service.ErrProductNotAvailable, code: response.CodeNotFound, msg: "product not available"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: "cart item not found"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrCheckoutInFlight, code: response.CodeConflict, msg: "checkout already in progress"},
}

var categoryErrorRules = []mappedHandlerError{
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, msg: "category not found"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
}

var registerErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeBadRequest, msg: "invalid email address"},
	{target: service.ErrEmailExists, code: response.CodeBadRequest, msg: "email already registered"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, msg: "password too short"},
}

var userAuthErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid credentials"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, msg: "account disabled"},
	{target: service.ErrEmailExists, code: response.CodeBadRequest, msg: "email already registered"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, msg: "password too short"},
}
