// Package httputil holds response helpers shared by every handler: content
// negotiation between JSON and XML, and the error envelope.
package httputil

import (
	"encoding/json"
	"encoding/xml"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	dErrors "renewal-gateway/pkg/domain-errors"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeXML  = "application/xml"
)

// ErrorResponse is the envelope for every non-2xx response body.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteError renders err as a JSON envelope. Domain errors keep their code and,
// for client-side codes, their message. Anything else becomes internal_error
// with no description so raw store errors never reach callers.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: string(dErrors.CodeInternal)}

	if de, ok := dErrors.As(err); ok {
		status = dErrors.HTTPStatus(de.Code)
		resp.Error = string(de.Code)
		if de.Code.IsClientError() {
			resp.ErrorDescription = de.Message
		}
	}

	WriteJSON(w, status, resp)
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteXML writes v as XML with the given status.
func WriteXML(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", ContentTypeXML)
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(v)
}

// Write picks XML or JSON from the request's Accept header.
func Write(w http.ResponseWriter, r *http.Request, status int, v any) {
	if PrefersXML(r) {
		WriteXML(w, status, v)
		return
	}
	WriteJSON(w, status, v)
}

// PrefersXML reports whether the first supported media type listed in Accept
// is an XML type. JSON is the default when Accept is absent or generic.
func PrefersXML(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case "application/xml", "text/xml":
			return true
		case "application/json":
			return false
		}
	}
	return false
}

// WriteCreated answers 201 with a Location header and no body.
func WriteCreated(w http.ResponseWriter, location string) {
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusCreated)
}

// PathID parses the numeric path parameter name. A value that is not an
// integer cannot name a resource, so it is reported as not found.
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeNotFound, "resource not found")
	}
	return id, nil
}

// ParseForm parses url-encoded form bodies and query strings.
func ParseForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid form body")
	}
	return nil
}

// FormValue returns the submitted value for key, or nil when the field was
// not sent at all. ParseForm must have been called.
func FormValue(r *http.Request, key string) *string {
	values, ok := r.Form[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}
