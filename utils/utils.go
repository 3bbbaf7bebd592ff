package utils

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const genericServerError = "An unexpected error occurred. Please try again later."

// SendJSONError sends a standardized JSON error response and logs the internal error.
// For 5xx errors the client only sees a generic message; the internal error is logged.
func SendJSONError(c *gin.Context, statusCode int, publicMsg string, internalError error, details ...string) {
	errorDetails := ""
	if len(details) > 0 {
		errorDetails = details[0]
	}

	if internalError != nil {
		log.Printf("ERROR: Handler error: status_code=%d, public_message='%s', internal_error='%v', details='%s', path='%s'",
			statusCode, publicMsg, internalError, errorDetails, c.Request.URL.Path)
	} else {
		log.Printf("INFO: Handler response: status_code=%d, public_message='%s', details='%s', path='%s'",
			statusCode, publicMsg, errorDetails, c.Request.URL.Path)
	}

	if statusCode >= http.StatusInternalServerError && (publicMsg == "" || (internalError != nil && publicMsg == internalError.Error())) {
		publicMsg = genericServerError
	}

	response := gin.H{"code": statusCode, "error": publicMsg}
	if errorDetails != "" {
		response["details"] = errorDetails
	}
	c.AbortWithStatusJSON(statusCode, response)
}

// SendJSONSuccess wraps data in the standard success envelope.
func SendJSONSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    data,
	})
}

// QueryLimit parses a positive integer query parameter, capped at max.
// Missing or invalid values yield def.
func QueryLimit(c *gin.Context, key string, def, max int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
