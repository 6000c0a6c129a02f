package utils

import "github.com/gin-gonic/gin"

// Envelope is the response shell every endpoint uses.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func RespondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func RespondMessage(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

// RespondConflict carries the conflicting record in data, the way import
// conflicts report the existing movie.
func RespondConflict(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: false, Message: message, Data: data})
}

func RespondValidation(c *gin.Context, message string, errs []string) {
	c.JSON(400, Envelope{Success: false, Message: message, Errors: errs})
}
