package common

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path, role string, form url.Values) error
	Status() int
	Header(name string) string
	ResponseField(field string) (any, error)
	ResponseLength() (int, error)
	Save(name, value string)
	Expand(s string) string
}

// RegisterSteps registers request and assertion steps shared by all features
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the gateway is healthy$`, steps.gatewayIsHealthy)
	ctx.Step(`^I (GET|DELETE) "([^"]*)" as (driver|officer|anonymous)$`, steps.request)
	ctx.Step(`^I (POST|PUT) "([^"]*)" as (driver|officer|anonymous) with:$`, steps.requestWithForm)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response should list (\d+) items?$`, steps.listLengthShouldBe)
	ctx.Step(`^I save the created id as "([^"]*)"$`, steps.saveCreatedID)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) gatewayIsHealthy(ctx context.Context) error {
	if err := s.tc.Do(http.MethodGet, "/healthz", "anonymous", nil); err != nil {
		return err
	}
	return s.statusShouldBe(ctx, http.StatusOK)
}

func (s *commonSteps) request(ctx context.Context, method, path, role string) error {
	return s.tc.Do(method, path, role, nil)
}

func (s *commonSteps) requestWithForm(ctx context.Context, method, path, role string, table *godog.Table) error {
	form := url.Values{}
	for _, row := range table.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("form rows need a name and a value, got %d cells", len(row.Cells))
		}
		form.Set(row.Cells[0].Value, s.tc.Expand(row.Cells[1].Value))
	}
	return s.tc.Do(method, path, role, form)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, want int) error {
	if got := s.tc.Status(); got != want {
		return fmt.Errorf("expected status %d, got %d", want, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, field, want string) error {
	v, err := s.tc.ResponseField(field)
	if err != nil {
		return err
	}
	got := fmt.Sprint(v)
	if f, ok := v.(float64); ok {
		got = strconv.FormatFloat(f, 'f', -1, 64)
	}
	if got != s.tc.Expand(want) {
		return fmt.Errorf("expected %s to be %q, got %q", field, want, got)
	}
	return nil
}

func (s *commonSteps) listLengthShouldBe(ctx context.Context, want int) error {
	got, err := s.tc.ResponseLength()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected %d items, got %d", want, got)
	}
	return nil
}

// saveCreatedID stores the trailing id segment of the Location header.
func (s *commonSteps) saveCreatedID(ctx context.Context, name string) error {
	location := s.tc.Header("Location")
	idx := strings.LastIndex(location, "/")
	if idx < 0 || idx == len(location)-1 {
		return fmt.Errorf("no resource id in Location %q", location)
	}
	s.tc.Save(name, location[idx+1:])
	return nil
}
