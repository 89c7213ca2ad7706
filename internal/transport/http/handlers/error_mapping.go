package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ErrorCase maps one or more sentinel errors to an HTTP status and message.
type ErrorCase struct {
	Errors  []error
	Status  int
	Message string
}

// RespondWithMappedError walks the cases in order and writes the first match.
// Unmatched errors get the fallback status and message.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	for _, ec := range cases {
		for _, target := range ec.Errors {
			if errors.Is(err, target) {
				c.JSON(ec.Status, NewErrorResponse(c, ec.Message))
				return
			}
		}
	}

	_ = c.Error(err)
	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackMessage))
}
