package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	apperrors "github.com/hedgie-app/hedgie/internal/errors"
	"github.com/hedgie-app/hedgie/internal/middleware"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps typed errors to their HTTP status; anything else is
// a generic 500 so internal details never leak to callers.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.RequestIDFromContext(r.Context())

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		respondJSON(w, appErr.StatusCode, apperrors.NewErrorResponse(appErr, requestID))
		return
	}

	internal := apperrors.NewInternalError("Internal server error", nil)
	respondJSON(w, internal.StatusCode, apperrors.NewErrorResponse(internal, requestID))
}

// decodeAndValidate parses a JSON body into req and runs struct
// validation. Returns a ValidationError suitable for respondError.
func decodeAndValidate(r *http.Request, req interface{}) *apperrors.Error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return apperrors.NewValidationError("Invalid request body", err)
	}

	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return apperrors.NewValidationError(
				fmt.Sprintf("Invalid field %q: failed %q validation", first.Field(), first.Tag()),
				nil,
			)
		}
		return apperrors.NewValidationError("Invalid request body", err)
	}

	return nil
}

// pathID extracts a positive integer path variable.
func pathID(r *http.Request, name string) (int64, *apperrors.Error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("Invalid %s", name), nil)
	}
	return id, nil
}
