package common

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const genericErrorCode = "generic_error"

// HttpResponse is the body of every monitoring server response
type HttpResponse struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func GetNotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		SendHttpFailResponse(w, r, http.StatusNotFound, "not found", fmt.Errorf("endpoint[%s] not found", r.URL.Path))
	}
}

// SendHttpFailResponse responds with `cause` as the data, the failure
// is also logged against the request when the request logger is set
func SendHttpFailResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string, cause error) {
	if log, ok := r.Context().Value(HttpContextLogger).(HttpRequestLogger); ok {
		log(LogLevelWarn, fmt.Sprintf("%s: %s", message, cause))
	}
	var data any = genericErrorCode
	if cause != nil {
		data = cause.Error()
	}
	writeHttpResponse(w, statusCode, HttpResponse{
		Data:    data,
		Message: message,
	})
}

func SendHttpSuccessResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string, data any) {
	writeHttpResponse(w, statusCode, HttpResponse{
		Data:    data,
		Message: message,
		Success: true,
	})
}

func writeHttpResponse(w http.ResponseWriter, statusCode int, response HttpResponse) {
	body, err := json.Marshal(response)
	if err != nil {
		body = []byte(`{"data":"` + genericErrorCode + `","message":"failed to encode response","success":false}`)
		statusCode = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}
