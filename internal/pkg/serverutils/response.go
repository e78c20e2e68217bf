package serverutils

import (
	"net/http"
	"time"
)

// BaseResponse is the envelope every endpoint answers with.
type BaseResponse[T any] struct {
	StatusCode int       `json:"statusCode"`
	Message    string    `json:"message"`
	Data       T         `json:"data"`
	Success    bool      `json:"success"`
	Timestamp  time.Time `json:"timestamp"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
		Success:    true,
		Timestamp:  time.Now().UTC(),
	}
}

func CreatedResponse[T any](message string, data T) BaseResponse[T] {
	res := SuccessResponse(message, data)
	res.StatusCode = http.StatusCreated
	return res
}

func ErrorResponse(statusCode int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		StatusCode: statusCode,
		Message:    message,
		Success:    false,
		Timestamp:  time.Now().UTC(),
	}
}

// ErrorResponseWithData attaches extra detail, e.g. per-field validation messages.
func ErrorResponseWithData(statusCode int, message string, data any) BaseResponse[any] {
	res := ErrorResponse(statusCode, message)
	res.Data = data
	return res
}
