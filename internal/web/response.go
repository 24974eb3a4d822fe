package web

import (
    "encoding/json"
    "fmt"
    "net/http"
)

// Response is the JSON envelope for API replies.
type Response struct {
    Status int `json:"Status"`
    Body   any `json:"Body,omitempty"`
}

// ErrorResponse is the body of a failed API call.
type ErrorResponse struct {
    ErrorDescription string `json:"ErrorDescription"`
}

const internalErrorJSON = "{\"Status\": 500,\"Body\":{\"ErrorDescription\": \"Internal server error\"}}"

func writeJSON(w http.ResponseWriter, status int, body any) {
    b, err := json.Marshal(Response{Status: status, Body: body})
    if err != nil {
        writeInternalError(w)
        return
    }
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _, _ = w.Write(b)
}

func writeInternalError(w http.ResponseWriter) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusInternalServerError)
    _, _ = fmt.Fprintln(w, internalErrorJSON)
}
