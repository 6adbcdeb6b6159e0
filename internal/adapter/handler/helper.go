package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/speech-summarizer/errors"
	"github.com/johnquangdev/speech-summarizer/internal/adapter/dto/common"
)

// getRequestID reads the id set by the request-id middleware, falling back
// to the incoming header
func getRequestID(c echo.Context) string {
	if c == nil {
		return ""
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	if c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized 200 response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return HandleSuccessWithStatus(logger, c, http.StatusOK, data)
}

// HandleSuccessWithStatus writes a standardized success response with status
func HandleSuccessWithStatus(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := common.SuccessResponse{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger.
// Usecase errors are translated into AppErrors first.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := errors.FromError(err)

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := common.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// NewHTTPErrorHandler renders errors raised outside handlers. Body limit
// rejections and unknown routes get the same error shape as handler errors;
// everything else goes through echo's default handler.
func NewHTTPErrorHandler(e *echo.Echo, logger *zap.Logger, maxUploadMB int) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if isTooLarge(err) {
			if herr := HandleError(logger, c, errors.ErrPayloadTooLarge(maxUploadMB)); herr != nil && logger != nil {
				logger.Warn("failed to write error response", zap.Error(herr))
			}
			return
		}
		var httpErr *echo.HTTPError
		if stdErrors.As(err, &httpErr) && httpErr.Code == http.StatusNotFound {
			_ = HandleError(logger, c, errors.ErrNotFound("Route"))
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
