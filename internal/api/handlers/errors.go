package handlers

import (
	"errors"
	"net/http"

	"jobdeck-api/pkg/utils"
)

// statusForError maps application errors onto HTTP status codes, falling
// back to 500 for anything untyped.
func statusForError(err error) int {
	var customErr *utils.CustomError
	if errors.As(err, &customErr) {
		return customErr.Code
	}
	return http.StatusInternalServerError
}
