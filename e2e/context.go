package e2e

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultDriverKey  = "DRIVER@#$"
	defaultOfficerKey = "OFFICER@#$"
)

// TestContext drives a running gateway over HTTP and remembers the last
// response plus any values saved by earlier steps.
type TestContext struct {
	baseURL string
	client  *http.Client
	keys    map[string]string
	status  int
	header  http.Header
	body    []byte
	saved   map[string]string
}

func NewTestContext(baseURL, driverKey, officerKey string) *TestContext {
	if driverKey == "" {
		driverKey = defaultDriverKey
	}
	if officerKey == "" {
		officerKey = defaultOfficerKey
	}
	return &TestContext{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		keys:    map[string]string{"driver": driverKey, "officer": officerKey},
		saved:   map[string]string{},
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.status = 0
	tc.header = nil
	tc.body = nil
	tc.saved = map[string]string{}
}

// Do sends a request as role ("driver", "officer" or "anonymous"). A non-nil
// form is sent url-encoded. Saved values are substituted into path as {name}.
func (tc *TestContext) Do(method, path, role string, form url.Values) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, tc.baseURL+tc.Expand(path), body)
	if err != nil {
		return err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	if key, ok := tc.keys[role]; ok {
		req.Header.Set("Authorization", key)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	tc.body, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.status = resp.StatusCode
	tc.header = resp.Header
	return nil
}

func (tc *TestContext) Status() int {
	return tc.status
}

func (tc *TestContext) Header(name string) string {
	return tc.header.Get(name)
}

// ResponseField returns a top-level field of the last JSON object response.
func (tc *TestContext) ResponseField(field string) (any, error) {
	var obj map[string]any
	if err := json.Unmarshal(tc.body, &obj); err != nil {
		return nil, fmt.Errorf("decode response %q: %w", string(tc.body), err)
	}
	v, ok := obj[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response %s", field, string(tc.body))
	}
	return v, nil
}

// ResponseLength returns the length of the last JSON array response.
func (tc *TestContext) ResponseLength() (int, error) {
	var items []any
	if err := json.Unmarshal(tc.body, &items); err != nil {
		return 0, fmt.Errorf("decode response %q: %w", string(tc.body), err)
	}
	return len(items), nil
}

func (tc *TestContext) Save(name, value string) {
	tc.saved[name] = value
}

func (tc *TestContext) Saved(name string) (string, bool) {
	v, ok := tc.saved[name]
	return v, ok
}

// Expand replaces {name} placeholders with saved values.
func (tc *TestContext) Expand(s string) string {
	for name, value := range tc.saved {
		s = strings.ReplaceAll(s, "{"+name+"}", value)
	}
	return s
}
