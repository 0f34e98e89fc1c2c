package errs

import (
	"github.com/getsentry/sentry-go"
)

// InitReporting configures the process-wide Sentry client used by Report.
// Called once at startup; a blank dsn disables reporting without an error.
func InitReporting(dsn, environment, release string) error {
	if dsn == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	})
}

// Report forwards an Internal-class error to Sentry and ignores every other
// kind. It is telemetry only and returns nothing. It may block briefly on the
// SDK's internal queue, so it does not belong in the render loop. No code in
// this module calls it.
func Report(err error) {
	if err == nil {
		return
	}
	if !Is(err, Internal) {
		return
	}
	sentry.CaptureException(err)
}
