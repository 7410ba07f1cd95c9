package e2e

import (
	"github.com/cucumber/godog"

	"renewal-gateway/e2e/steps/common"
	"renewal-gateway/e2e/steps/payment"
	"renewal-gateway/e2e/steps/renewal"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Generic requests and assertions
	common.RegisterSteps(ctx, tc)

	renewal.RegisterSteps(ctx, tc)
	payment.RegisterSteps(ctx, tc)
}
