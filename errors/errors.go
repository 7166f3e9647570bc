package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the API error type. When Title is set the error is a user facing
// notice: Title is the headline and Message the description.
type Error struct {
	Message string            `json:"description"`
	Title   string            `json:"title,omitempty"`
	Status  int               `json:"status"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("%s: %s", e.Title, e.Message)
	}
	return e.Message
}

// New returns a plain API error.
func New(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

// Notice returns a titled error that clients show as a toast.
func Notice(title, description string, status int) *Error {
	return &Error{Title: title, Message: description, Status: status}
}

// WithFields returns a copy of e carrying per-field validation messages.
func (e *Error) WithFields(fields map[string]string) *Error {
	cp := *e
	cp.Fields = fields
	return &cp
}

// Is matches errors by status and text so that copies made by WithFields
// still compare equal to the value they came from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Status == t.Status && e.Title == t.Title && e.Message == t.Message
}

// Status reports the HTTP status carried by err, or 500.
func Status(err error) int {
	var apiErr *Error
	if stderrors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}

var (
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("Unauthorized", http.StatusUnauthorized)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrInvalidFields       = New("Please correct the highlighted fields", http.StatusBadRequest)

	ErrInvalidCredentials = Notice("Login failed", "Invalid username or password.", http.StatusUnauthorized)
	ErrInvalidOTP         = Notice("Invalid OTP", "The verification code you entered is incorrect.", http.StatusBadRequest)
	ErrInvalidMobile      = Notice("Invalid mobile number", "Please enter a valid 10-digit mobile number", http.StatusBadRequest)

	ErrComplaintNotFound  = Notice("Complaint not found", "The complaint you are looking for does not exist.", http.StatusNotFound)
	ErrAlreadyLiked       = Notice("Already liked", "You can only like a complaint once.", http.StatusConflict)
	ErrEmptyComment       = Notice("Empty comment", "Please write something before posting a comment.", http.StatusBadRequest)
	ErrMissingDescription = Notice("Missing description", "Please provide a description of your complaint.", http.StatusBadRequest)
	ErrMissingImage       = Notice("Missing image", "Please upload an image related to your complaint.", http.StatusBadRequest)
	ErrMissingLocation    = Notice("Missing location", "Please share your location to continue.", http.StatusBadRequest)
	ErrInvalidCategory    = Notice("Invalid category", "Category must be one of electricity, road or cleanliness.", http.StatusBadRequest)
	ErrInvalidRisk        = Notice("Invalid risk", "Risk must be either high or low.", http.StatusBadRequest)
	ErrInvalidStatus      = Notice("Invalid status", "Status must be one of reported, resolved or in-progress.", http.StatusBadRequest)
	ErrInvalidImage       = Notice("Invalid image", "Only JPEG, PNG or GIF images up to 5 MB are accepted.", http.StatusBadRequest)
)

// ErrorHandler is the rate limiter's rejection handler.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message": "",
		"data":    nil,
		"errors": Notice("Too many requests",
			"Try again in "+time.Until(info.ResetTime).Round(time.Second).String(), http.StatusTooManyRequests),
		"status": http.StatusText(http.StatusTooManyRequests),
	})
	c.Abort()
}
