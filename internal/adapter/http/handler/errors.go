package handler

import "net/http"

func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"error": message}

	// Fall back to a bare 500 when even the error body cannot be encoded.
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// failedValidationResponse returns 422: the body parsed but the contained
// values fail our checks. Repeating the request unchanged will fail again.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	errorResponse(w, http.StatusUnprocessableEntity, errors)
}

// badRequestResponse returns 400 for malformed request syntax or framing.
func badRequestResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusBadRequest, message)
}

func internalErrorResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusInternalServerError, message)
}
