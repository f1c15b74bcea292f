package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/staticpress/staticpress/internal/content"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, messageResponse) {
	if err == nil {
		return http.StatusInternalServerError, messageResponse{Message: "internal error"}
	}

	var notFound *content.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, messageResponse{Message: notFoundMessage(notFound.Kind)}
	}

	return http.StatusInternalServerError, messageResponse{Message: err.Error()}
}

func notFoundMessage(kind string) string {
	if kind == "" {
		return "Not found"
	}
	return strings.ToUpper(kind[:1]) + kind[1:] + " not found"
}
