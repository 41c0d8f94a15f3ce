package v1

import (
	"errors"
	"net/http"

	"github.com/amaken/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

var (
	errNoteIDParameter  = errors.New("the noteId field must be set")
	errNotAssigned      = errors.New("you are not assigned to this project")
	errActionNotAllowed = errors.New("your role does not allow this action")
)
