package response

import (
	"time"

	"github.com/gin-gonic/gin"

	"homebound/internal/pkg/apperror"
)

// Every API route answers with the same envelope:
// {success: true, data} or {success: false, error}.

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Fail(c *gin.Context, err *apperror.Error) {
	body := gin.H{
		"code":      err.Code,
		"message":   err.Message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if err.Field != "" {
		body["field"] = err.Field
	}
	if err.Details != nil {
		body["details"] = err.Details
	}
	if rid := c.GetString("request_id"); rid != "" {
		body["request_id"] = rid
	}
	c.JSON(err.Status, gin.H{
		"success": false,
		"error":   body,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	Fail(c, &apperror.Error{Code: code, Message: message, Status: statusCode})
}
