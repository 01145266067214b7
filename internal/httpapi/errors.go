package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-linkedin-scraper/internal/browser"
	"go-linkedin-scraper/internal/scraper"
)

// failure is the response for one error class.
type failure struct {
	status  int
	outcome string
	body    gin.H
}

// classify maps an invocation error onto its status code and body. Every body
// carries an "error" field.
func classify(err error) failure {
	var (
		reqErr    *RequestError
		provErr   *browser.ProvisioningError
		formErr   *scraper.LoginFormTimeoutError
		postErr   *scraper.PostLoginTimeoutError
		reauthErr *scraper.ReauthRequiredError
		navErr    *scraper.NavigationError
	)

	switch {
	case errors.As(err, &reqErr):
		return failure{http.StatusBadRequest, "bad_request", gin.H{"error": reqErr.Error()}}

	case errors.As(err, &provErr):
		candidates := provErr.Candidates
		if candidates == nil {
			candidates = []browser.Candidate{}
		}
		return failure{http.StatusInternalServerError, "provisioning_error", gin.H{
			"error":              provErr.Error(),
			"chrome_bin":         provErr.BinaryPath,
			"chromedriver_path":  provErr.DriverPath,
			"checked_candidates": candidates,
		}}

	case errors.As(err, &formErr):
		return failure{http.StatusGatewayTimeout, "login_timeout", gin.H{"error": formErr.Error()}}

	case errors.As(err, &postErr):
		return failure{http.StatusGatewayTimeout, "post_login_timeout", gin.H{
			"error":       postErr.Error(),
			"current_url": postErr.URL,
			"title":       postErr.Title,
		}}

	case errors.As(err, &reauthErr):
		return failure{http.StatusGatewayTimeout, "reauth_required", gin.H{
			"error":       reauthErr.Error(),
			"current_url": reauthErr.URL,
		}}

	case errors.As(err, &navErr):
		return failure{http.StatusBadGateway, "navigation_error", gin.H{
			"error": navErr.Error(),
			"url":   navErr.URL,
		}}

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, browser.ErrTimeout):
		return failure{http.StatusGatewayTimeout, "timeout", gin.H{"error": err.Error()}}
	}

	return failure{http.StatusInternalServerError, "error", gin.H{"error": err.Error()}}
}
