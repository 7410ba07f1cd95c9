package renewal

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
	Save(name, value string)
	Saved(name string) (string, bool)
}

// RegisterSteps registers renewal lifecycle steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &renewalSteps{tc: tc}

	ctx.Step(`^licence (\d+) has no open renewal$`, steps.closeOpenRenewal)
	ctx.Step(`^an officer opens a renewal for licence (\d+) saved as "([^"]*)"$`, steps.openRenewal)
	ctx.Step(`^renewal "([^"]*)" is closed$`, steps.closeRenewal)
}

type renewalSteps struct {
	tc TestContext
}

// closeOpenRenewal completes any renewal left open by an earlier run so
// scenarios can be repeated against the same database.
func (s *renewalSteps) closeOpenRenewal(ctx context.Context, licenceID int) error {
	if err := s.tc.Do(http.MethodGet, "/renewals/licenceId/"+strconv.Itoa(licenceID), "officer", nil); err != nil {
		return err
	}
	switch s.tc.Status() {
	case http.StatusNotFound:
		return nil
	case http.StatusOK:
	default:
		return fmt.Errorf("unexpected status %d looking up open renewal", s.tc.Status())
	}
	id, err := s.tc.ResponseField("id")
	if err != nil {
		return err
	}
	num, ok := id.(float64)
	if !ok {
		return fmt.Errorf("renewal id %v is not a number", id)
	}
	if err := s.tc.Do(http.MethodDelete, "/renewals/"+strconv.FormatFloat(num, 'f', -1, 64), "officer", nil); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusOK {
		return fmt.Errorf("expected 200 closing stale renewal, got %d", s.tc.Status())
	}
	return nil
}

func (s *renewalSteps) openRenewal(ctx context.Context, licenceID int, name string) error {
	form := url.Values{
		"licenceId": {strconv.Itoa(licenceID)},
		"address":   {"12 Renewal Rd"},
		"email":     {"renewal@example.com"},
	}
	if err := s.tc.Do(http.MethodPost, "/renewals", "officer", form); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusCreated {
		return fmt.Errorf("expected 201 opening renewal, got %d", s.tc.Status())
	}
	location := s.tc.Header("Location")
	s.tc.Save(name, location[strings.LastIndex(location, "/")+1:])
	return nil
}

func (s *renewalSteps) closeRenewal(ctx context.Context, name string) error {
	id, ok := s.tc.Saved(name)
	if !ok {
		return fmt.Errorf("no saved renewal %q", name)
	}
	if err := s.tc.Do(http.MethodDelete, "/renewals/"+id, "driver", nil); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusOK {
		return fmt.Errorf("expected 200 closing renewal, got %d", s.tc.Status())
	}
	return nil
}
