package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"masrofi/internal/backup"
	"masrofi/internal/backup/gdrive"
	"masrofi/internal/core"
	"masrofi/internal/log"
	"masrofi/internal/services"
	"masrofi/internal/storage"
)

const maxBodyBytes = 1 << 20

// maxBackupBytes bounds an uploaded backup document.
const maxBackupBytes = 16 << 20

var (
	errBadJSON       = errors.New("malformed JSON body")
	errCloudDisabled = errors.New("cloud backup is not configured")
	errBodyTooLarge  = errors.New("request body too large")
)

var validationErrors = []error{
	core.ErrInvalidAmount,
	core.ErrNegativeAmount,
	core.ErrEmptyTitle,
	core.ErrEmptyName,
	core.ErrInvalidDate,
	core.ErrInvalidMonth,
	core.ErrInvalidCategory,
	core.ErrInvalidFrequency,
	core.ErrInvalidDebtType,
	core.ErrInvalidQuantity,
	core.ErrInvalidDayOfMonth,
	core.ErrInvalidNotifyDays,
	core.ErrTitleTooLong,
	core.ErrUnsupportedCurrency,
	backup.ErrInvalidBackup,
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Failed to encode response", log.FieldError, err)
	}
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadJSON):
		return http.StatusBadRequest
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, gdrive.ErrNoBackup):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateBudget), errors.Is(err, services.ErrAlreadyPaid):
		return http.StatusConflict
	case errors.Is(err, errCloudDisabled):
		return http.StatusServiceUnavailable
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
		msg = "internal error"
	}
	writeJSON(w, r, status, errorBody{Error: msg})
}

// decode reads a JSON body into dst.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return nil
}

func readAll(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, err
	}
	return data, nil
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

func month(r *http.Request) string {
	return r.URL.Query().Get("month")
}
