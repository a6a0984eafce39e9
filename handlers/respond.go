package handlers

import "github.com/gin-gonic/gin"

// Error kinds surfaced in the "code" field of every failed response.
const (
	codeValidation   = "validation"
	codeUnauthorized = "unauthorized"
	codeForbidden    = "forbidden"
	codeNotFound     = "not_found"
	codeConflict     = "conflict"
	codeServerError  = "server_error"
)

// fail writes the uniform error envelope with a proper status code. Storage
// detail never reaches the client; callers log it and pass a generic message.
func fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
		"code":    code,
	})
}
