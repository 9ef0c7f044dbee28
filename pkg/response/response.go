package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint writes.
type APIResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data,omitempty"`
	Meta      any       `json:"meta,omitempty"`
	Error     any       `json:"error,omitempty"`
}

// ListMeta accompanies collection responses.
type ListMeta struct {
	Count int `json:"count"`
}

func envelope[T any](c *gin.Context, status int, ok bool, message string) APIResponse[T] {
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: c.GetString("request_id"),
		Success:   ok,
		Message:   message,
	}
}

// Success writes a success envelope and returns it.
func Success[T any](c *gin.Context, status int, data T, message string, meta any) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := envelope[T](c, status, true, message)
	resp.Data = data
	resp.Meta = meta
	c.JSON(status, resp)
	return resp
}

// List writes a 200 envelope for a collection with its item count as meta.
func List[T any](c *gin.Context, items []T, message string) APIResponse[[]T] {
	return Success(c, http.StatusOK, items, message, ListMeta{Count: len(items)})
}

// Error writes an error envelope and returns it. Middleware must still call Abort.
func Error[T any](c *gin.Context, status int, message string, details any) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := envelope[T](c, status, false, message)
	resp.Error = details
	c.JSON(status, resp)
	return resp
}
