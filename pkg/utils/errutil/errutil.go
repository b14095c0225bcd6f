package errutil

import (
	"context"
	"errors"
	"net/http"

	"github.com/bikram-mondal/bikram-ai/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// HandleHTTP logs the error and writes an appropriate HTTP error response.
// Server-side failures carry goerr values and stacks into the log record.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
		)
	}

	http.Error(w, err.Error(), statusCode)
}
