package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path, role string, form url.Values) error
	Status() int
	Header(name string) string
	Save(name, value string)
	Saved(name string) (string, bool)
}

// RegisterSteps registers payment steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &paymentSteps{tc: tc}

	ctx.Step(`^a driver pays "([^"]*)" for renewal "([^"]*)" saved as "([^"]*)"$`, steps.pay)
}

type paymentSteps struct {
	tc TestContext
}

func (s *paymentSteps) pay(ctx context.Context, amount, renewal, name string) error {
	renewalID, ok := s.tc.Saved(renewal)
	if !ok {
		return fmt.Errorf("no saved renewal %q", renewal)
	}
	form := url.Values{"renewalId": {renewalID}, "amount": {amount}}
	if err := s.tc.Do(http.MethodPost, "/payments", "driver", form); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusCreated {
		return fmt.Errorf("expected 201 creating payment, got %d", s.tc.Status())
	}
	location := s.tc.Header("Location")
	s.tc.Save(name, location[strings.LastIndex(location, "/")+1:])
	return nil
}
