package response

import (
	"github.com/gin-gonic/gin"
)

// Error sends the {message} error envelope
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Abort sends the error envelope and stops the handler chain
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// InsertResult is the body of a create endpoint. InsertedID is null when nothing was written.
type InsertResult struct {
	Acknowledged bool    `json:"acknowledged"`
	InsertedID   *string `json:"insertedId"`
	Message      string  `json:"message,omitempty"`
}

// Inserted reports a new record
func Inserted(c *gin.Context, status int, id string) {
	c.JSON(status, InsertResult{Acknowledged: true, InsertedID: &id})
}

// NotInserted reports a benign no-op create, such as a duplicate registration
func NotInserted(c *gin.Context, message string) {
	c.JSON(200, InsertResult{Message: message})
}
