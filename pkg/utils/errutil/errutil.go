package errutil

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
	"github.com/secmon-lab/pulumi-connector/pkg/utils/logging"
)

// Handle logs the error with a message and returns it unchanged. Expected
// provisioning outcomes (already-exists, not-found) are logged as warnings;
// everything else indicates an unexpected condition and is logged as an
// error with its full goerr context.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	attrs := []any{"error", err.Error()}
	var ge *goerr.Error
	if errors.As(err, &ge) {
		attrs = append(attrs,
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	}

	if types.IsExpected(err) {
		logger.Warn(msg, attrs...)
	} else {
		logger.Error(msg, attrs...)
	}

	return err
}
