package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/devotedslingers/devotedslingers/internal/errors"
	"github.com/devotedslingers/devotedslingers/internal/telemetry"
)

// ErrorHandlerMiddleware recovers panics and renders any error a handler
// attached to the gin context as a structured JSON response.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				ctx := c.Request.Context()
				telemetry.LogFromContext(ctx).WithFields(map[string]interface{}{
					"operation":   "panic_recovery",
					"panic_value": fmt.Sprintf("%v", r),
					"stack_trace": string(debug.Stack()),
				}).Error("Panic recovered in handler")

				appErr := errors.NewInternalError(fmt.Sprintf("panic in handler: %v", r), nil).
					WithCorrelationID(telemetry.GetCorrelationID(ctx))
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody(appErr))
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		RenderError(c, c.Errors.Last().Err)
	}
}

// RenderError writes an error response for err, converting unknown errors to
// internal AppErrors.
func RenderError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	correlationID := telemetry.GetCorrelationID(ctx)

	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.NewInternalError("An unexpected error occurred", err)
	}
	if appErr.CorrelationID == "" {
		appErr = appErr.WithCorrelationID(correlationID)
	}

	logger := telemetry.LogFromContext(ctx).WithFields(map[string]interface{}{
		"error_type": string(appErr.Type),
		"error_code": appErr.Code,
	})
	if appErr.Cause != nil {
		logger = logger.WithField("cause", appErr.Cause.Error())
	}

	switch appErr.Type {
	case errors.ErrorTypeValidation:
		logger.Warn(appErr.Message)
	case errors.ErrorTypeNotFound, errors.ErrorTypeConflict:
		logger.Info(appErr.Message)
	default:
		logger.Error(appErr.Message)
	}

	c.AbortWithStatusJSON(appErr.HTTPStatus, errorBody(appErr))
}

func errorBody(appErr *errors.AppError) gin.H {
	return gin.H{
		"error": gin.H{
			"type":           appErr.Type,
			"code":           appErr.Code,
			"message":        appErr.Message,
			"correlation_id": appErr.CorrelationID,
		},
	}
}
