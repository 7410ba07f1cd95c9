package handler

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renewal-gateway/internal/access"
	"renewal-gateway/internal/licence/models"
	"renewal-gateway/internal/licence/service"
	"renewal-gateway/internal/licence/store"
	"renewal-gateway/internal/platform/metrics"
	"renewal-gateway/pkg/testutil"
)

type fixture struct {
	router http.Handler
	store  *store.InMemory
}

func newLicenceRouter(t *testing.T) fixture {
	t.Helper()
	licences := store.NewInMemory()
	ctx := context.Background()
	for _, l := range []*models.Licence{
		{Number: "NSW-1", Name: "Ada", LicenceClass: "C", Address: "1 George St", Email: "ada@example.com", ExpiryDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Number: "NSW-2", Name: "Alan", LicenceClass: "MC", Address: "2 Pitt St", Email: "alan@example.com", ExpiryDate: time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)},
	} {
		_, err := licences.Create(ctx, l)
		require.NoError(t, err)
	}

	resolver, err := access.NewResolver(testutil.DriverKey, testutil.OfficerKey)
	require.NoError(t, err)
	logger := testutil.DiscardLogger()
	svc := service.New(licences, service.WithLogger(logger))

	h := New(svc, resolver, logger, metrics.New(prometheus.NewRegistry()))
	r := chi.NewRouter()
	h.Register(r)
	return fixture{router: r, store: licences}
}

func TestGetLicence(t *testing.T) {
	f := newLicenceRouter(t)

	testutil.Given(t, "no credential", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/licences/1"))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	testutil.Given(t, "a driver", func(t *testing.T) {
		testutil.When(t, "the licence exists", func(t *testing.T) {
			req := testutil.WithAuthorization(testutil.NewRequest(t, http.MethodGet, "/licences/1"), testutil.DriverKey)
			rr := testutil.DoRequest(f.router, req)

			testutil.AssertStatus(t, rr, http.StatusOK)
			resp := testutil.UnmarshalResponse[models.LicenceResponse](t, rr)
			assert.Equal(t, "NSW-1", resp.Number)
			assert.Equal(t, "2025-03-01", resp.ExpiryDate)
		})

		testutil.When(t, "the licence is unknown", func(t *testing.T) {
			req := testutil.WithAuthorization(testutil.NewRequest(t, http.MethodGet, "/licences/99"), testutil.DriverKey)
			testutil.AssertStatusAndError(t, testutil.DoRequest(f.router, req), http.StatusNotFound, "not_found")
		})

		testutil.When(t, "the id is not an integer", func(t *testing.T) {
			req := testutil.WithAuthorization(testutil.NewRequest(t, http.MethodGet, "/licences/abc"), testutil.DriverKey)
			testutil.AssertStatus(t, testutil.DoRequest(f.router, req), http.StatusNotFound)
		})

		testutil.When(t, "XML is preferred", func(t *testing.T) {
			req := testutil.WithAuthorization(testutil.NewRequest(t, http.MethodGet, "/licences/2"), testutil.DriverKey)
			req.Header.Set("Accept", "application/xml")
			rr := testutil.DoRequest(f.router, req)

			testutil.AssertStatus(t, rr, http.StatusOK)
			assert.Equal(t, "application/xml", rr.Header().Get("Content-Type"))
			var resp models.LicenceResponse
			require.NoError(t, xml.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "NSW-2", resp.Number)
		})
	})
}

func TestListExpiring(t *testing.T) {
	f := newLicenceRouter(t)

	testutil.Given(t, "a driver", func(t *testing.T) {
		testutil.Then(t, "the role gate runs before date validation", func(t *testing.T) {
			req := testutil.WithAuthorization(testutil.NewRequest(t, http.MethodGet, "/licences/expiring/bogus"), testutil.DriverKey)
			testutil.AssertStatusAndError(t, testutil.DoRequest(f.router, req), http.StatusForbidden, "forbidden")
		})
	})

	testutil.Given(t, "an officer", func(t *testing.T) {
		testutil.When(t, "licences expire before the date", func(t *testing.T) {
			req := testutil.WithAuthorization(testutil.NewRequest(t, http.MethodGet, "/licences/expiring/01012026"), testutil.OfficerKey)
			rr := testutil.DoRequest(f.router, req)

			testutil.AssertStatus(t, rr, http.StatusOK)
			resp := testutil.UnmarshalResponse[[]models.LicenceResponse](t, rr)
			require.Len(t, *resp, 1)
			assert.Equal(t, "NSW-1", (*resp)[0].Number)
		})

		testutil.When(t, "the threshold equals an expiry date", func(t *testing.T) {
			req := testutil.WithAuthorization(testutil.NewRequest(t, http.MethodGet, "/licences/expiring/01032025"), testutil.OfficerKey)
			testutil.AssertStatusAndError(t, testutil.DoRequest(f.router, req), http.StatusNotFound, "not_found")
		})

		testutil.When(t, "the date is malformed", func(t *testing.T) {
			for _, raw := range []string{"29022021", "00010099", "1012026", "2026-01-01"} {
				req := testutil.WithAuthorization(testutil.NewRequest(t, http.MethodGet, "/licences/expiring/"+raw), testutil.OfficerKey)
				testutil.AssertStatusAndError(t, testutil.DoRequest(f.router, req), http.StatusBadRequest, "bad_request")
			}
		})

		testutil.When(t, "XML is preferred", func(t *testing.T) {
			req := testutil.WithAuthorization(testutil.NewRequest(t, http.MethodGet, "/licences/expiring/01012030"), testutil.OfficerKey)
			req.Header.Set("Accept", "text/xml")
			rr := testutil.DoRequest(f.router, req)

			testutil.AssertStatus(t, rr, http.StatusOK)
			var list models.LicenceList
			require.NoError(t, xml.Unmarshal(rr.Body.Bytes(), &list))
			assert.Len(t, list.Licences, 2)
		})
	})
}

func TestUpdateLicence(t *testing.T) {
	f := newLicenceRouter(t)
	ctx := context.Background()

	put := func(t *testing.T, path string, form url.Values) *http.Request {
		return testutil.WithAuthorization(testutil.NewFormRequest(t, http.MethodPut, path, form), testutil.DriverKey)
	}

	testutil.When(t, "all fields are valid", func(t *testing.T) {
		form := url.Values{"address": {"9 Market St"}, "email": {"ada@new.example.com"}, "expiryDate": {"31122030"}}
		testutil.AssertStatus(t, testutil.DoRequest(f.router, put(t, "/licences/1", form)), http.StatusOK)

		l, err := f.store.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "9 Market St", l.Address)
		assert.Equal(t, "ada@new.example.com", l.Email)
		assert.Equal(t, time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC), l.ExpiryDate)
	})

	testutil.When(t, "the expiry date is malformed", func(t *testing.T) {
		form := url.Values{"address": {"should not be written"}, "expiryDate": {"31022030"}}
		testutil.AssertStatusAndError(t, testutil.DoRequest(f.router, put(t, "/licences/2", form)), http.StatusBadRequest, "bad_request")

		l, err := f.store.FindByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "2 Pitt St", l.Address, "no field is written when validation fails")
	})

	testutil.When(t, "the email is invalid", func(t *testing.T) {
		form := url.Values{"email": {"not-an-email"}}
		testutil.AssertStatusAndError(t, testutil.DoRequest(f.router, put(t, "/licences/2", form)), http.StatusBadRequest, "bad_request")
	})

	testutil.When(t, "the licence is unknown", func(t *testing.T) {
		form := url.Values{"address": {"x"}}
		testutil.AssertStatusAndError(t, testutil.DoRequest(f.router, put(t, "/licences/42", form)), http.StatusNotFound, "not_found")
	})

	testutil.When(t, "no credential is sent", func(t *testing.T) {
		req := testutil.NewFormRequest(t, http.MethodPut, "/licences/1", url.Values{"address": {"x"}})
		testutil.AssertStatus(t, testutil.DoRequest(f.router, req), http.StatusUnauthorized)
	})
}
