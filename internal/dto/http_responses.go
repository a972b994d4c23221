package dto

import (
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"
)

const (
	InvalidRequest = "invalid_request"

	MessageSubmitted       = "Registration submitted successfully!"
	MessageStoreFailed     = "Failed to submit registration. Please try again."
	MessageUnexpectedError = "An unexpected error occurred. Please try again."
	MessageInvalidJSON     = "Invalid JSON format"
)

// SubmissionResponse is the body returned for every submission attempt.
type SubmissionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// RegistrationCreatedMessage is published once a registration row exists.
type RegistrationCreatedMessage struct {
	RegistrationID string    `json:"registration_id"`
	Name           string    `json:"name"`
	Branch         string    `json:"branch"`
	Batch          string    `json:"batch"`
	PaymentMethod  string    `json:"payment_method"`
	TransactionID  string    `json:"transaction_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func BadResponseError(c *ginext.Context, code, message string) {
	c.JSON(http.StatusBadRequest, SubmissionResponse{
		Success: false,
		Message: message,
		Error:   code,
	})
}

func InternalServerError(c *ginext.Context, message, detail string) {
	c.JSON(http.StatusInternalServerError, SubmissionResponse{
		Success: false,
		Message: message,
		Error:   detail,
	})
}

func InvalidJSONError(c *ginext.Context) {
	BadResponseError(c, InvalidRequest, MessageInvalidJSON)
}

func SuccessCreatedResponse(c *ginext.Context, message string) {
	c.JSON(http.StatusCreated, SubmissionResponse{
		Success: true,
		Message: message,
	})
}

func HealthOK(c *ginext.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
