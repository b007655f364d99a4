package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func ErrorResponse(c *gin.Context, message string, code int) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func SuccessResponse(c *gin.Context, message string, code int) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// HasEmail reports whether s holds a non-blank address. Presence is the
// only hard precondition before a send; format checking is left to the
// email boundary, which rejects malformed recipients itself.
func HasEmail(s string) bool {
	return strings.TrimSpace(s) != ""
}
