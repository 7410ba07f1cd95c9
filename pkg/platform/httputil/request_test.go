package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	dErrors "renewal-gateway/pkg/domain-errors"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "42", want: 42},
		{raw: "-3", want: -3},
		{raw: "abc", wantErr: true},
		{raw: "1.5", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", tt.raw)
			got, err := PathID(r, "id")
			if tt.wantErr {
				if !dErrors.HasCode(err, dErrors.CodeNotFound) {
					t.Fatalf("expected not_found, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("expected %d, got %d (%v)", tt.want, got, err)
			}
		})
	}
}

func TestFormValue(t *testing.T) {
	r := httptest.NewRequest(http.MethodPut, "/licences/1", strings.NewReader("address=1+Road&email="))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := ParseForm(r); err != nil {
		t.Fatalf("parse form: %v", err)
	}

	if v := FormValue(r, "address"); v == nil || *v != "1 Road" {
		t.Fatalf("expected address, got %v", v)
	}
	if v := FormValue(r, "email"); v == nil || *v != "" {
		t.Fatalf("expected present empty email, got %v", v)
	}
	if v := FormValue(r, "expiryDate"); v != nil {
		t.Fatalf("expected absent expiryDate, got %q", *v)
	}
}

func TestParseFormRejectsMalformedBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader("amount=%zz"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := ParseForm(r); !dErrors.HasCode(err, dErrors.CodeBadRequest) {
		t.Fatalf("expected bad_request, got %v", err)
	}
}
