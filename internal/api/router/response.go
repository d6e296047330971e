package router

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// corsHeaders are set on every response the dispatcher writes, errors and
// preflights included.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, Authorization",
	"Access-Control-Max-Age":       "86400",
}

// Response is a fully materialised HTTP response returned by handlers and
// middleware.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// JSON encodes payload with the given status.
func JSON(status int, payload any) *Response {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("encode response")
		status = http.StatusInternalServerError
		body = []byte(`{"success":false,"message":"Internal server error"}`)
	}
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return &Response{Status: status, Header: h, Body: body}
}

// Success wraps data in the {success: true, ...data} envelope.
func Success(data map[string]any) *Response {
	return SuccessStatus(http.StatusOK, data)
}

func SuccessStatus(status int, data map[string]any) *Response {
	payload := make(map[string]any, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	payload["success"] = true
	return JSON(status, payload)
}

// Message is a success envelope carrying only a message.
func Message(message string) *Response {
	return Success(map[string]any{"message": message})
}

// Error builds the {success: false, message, errors?} envelope.
func Error(status int, message string, fields map[string]string) *Response {
	payload := map[string]any{
		"success": false,
		"message": message,
	}
	if len(fields) > 0 {
		payload["errors"] = fields
	}
	return JSON(status, payload)
}

func NotFound() *Response {
	return Error(http.StatusNotFound, "Not found", nil)
}

func InternalError() *Response {
	return Error(http.StatusInternalServerError, "Internal server error", nil)
}

// MethodNotAllowed advertises the permitted methods in the Allow header.
func MethodNotAllowed(allowed []string) *Response {
	resp := Error(http.StatusMethodNotAllowed, "Method not allowed", nil)
	resp.Header.Set("Allow", strings.Join(allowed, ", "))
	return resp
}

// Raw returns body with an explicit content type.
func Raw(status int, contentType string, body []byte) *Response {
	h := make(http.Header)
	h.Set("Content-Type", contentType)
	return &Response{Status: status, Header: h, Body: body}
}

// Preflight answers a CORS preflight with 204 and no body.
func Preflight() *Response {
	return &Response{Status: http.StatusNoContent, Header: make(http.Header)}
}

// Write sends resp with the CORS header set applied.
func (resp *Response) Write(w http.ResponseWriter) {
	h := w.Header()
	for k, vs := range resp.Header {
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	for k, v := range corsHeaders {
		h.Set(k, v)
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(resp.Body) > 0 && status != http.StatusNoContent {
		_, _ = w.Write(resp.Body)
	}
}
