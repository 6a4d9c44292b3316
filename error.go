package tgrapher

import (
	"os"

	"github.com/stvp/rollbar"
)

// ErrorReporter forwards unexpected errors to an external crash reporting service
type ErrorReporter interface {
	ReportError(err error)
	Wait()
}

type errorService struct {
	enabled bool
}

// newErrorService enables Rollbar reporting only when a token is configured
func newErrorService(token string) ErrorReporter {
	if token == "" {
		return errorService{}
	}
	switch env := os.Getenv("environment"); env {
	case "development":
		rollbar.Environment = "development"
	default:
		rollbar.Environment = "production"
	}
	rollbar.Token = token
	return errorService{enabled: true}
}

// ReportError sends err to Rollbar.  Data consists only of the error and a stack trace.
func (e errorService) ReportError(err error) {
	if e.enabled && err != nil {
		rollbar.Error(rollbar.ERR, err)
	}
}

// Wait blocks until queued reports are sent
func (e errorService) Wait() {
	if e.enabled {
		rollbar.Wait()
	}
}
