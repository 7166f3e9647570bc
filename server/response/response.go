package response

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/civilink/errors"
)

// JSON writes the standard envelope. A *errors.Error is rendered as an object
// so clients can show its title, description and field messages.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	var errData interface{}
	if err != nil {
		var apiErr *errs.Error
		if stderrors.As(err, &apiErr) {
			errData = apiErr
		} else {
			errData = gin.H{"description": err.Error()}
		}
	}

	c.JSON(status, gin.H{
		"message":   message,
		"data":      data,
		"errors":    errData,
		"status":    http.StatusText(status),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HandleErrors responds with the status carried by err. Errors that are not
// API errors are reported as a generic 500 so internals do not leak.
func HandleErrors(c *gin.Context, err error) {
	status := errs.Status(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		JSON(c, "", status, nil, errs.ErrInternalServerError)
		return
	}
	JSON(c, "", status, nil, err)
}
