package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the error body for every non-2xx reply. Status rides on the
// HTTP line and stays out of the JSON.
type Response struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

type envelope struct {
	Error Response `json:"error"`
}

// AbortWithError writes the error envelope and stashes the original error
// on the gin context so the logging middleware can record it.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status, Message: msg, Detail: detail}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, envelope{Error: resp})
}
