package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// SafeCloseWithLogging closes closer and logs a failure instead of returning it.
func SafeCloseWithLogging(closer io.Closer, logger *slog.Logger, operation string) {
	if closer == nil {
		return
	}

	if err := closer.Close(); err != nil {
		LogError(logger, "failed to close resource", err,
			slog.String("operation", operation),
			slog.String("component", "resource_management"))
	}
}

// HandleDeferredError runs deferredOp and, when it fails and *originalErr is still nil,
// stores the failure there. It is meant for closing bodies and files in a defer.
func HandleDeferredError(originalErr *error, deferredOp func() error, logger *slog.Logger, operation string) {
	if deferredOp == nil {
		return
	}

	if err := deferredOp(); err != nil {
		LogError(logger, "deferred operation failed", err,
			slog.String("operation", operation),
			slog.String("component", "deferred_cleanup"))

		if *originalErr == nil {
			*originalErr = fmt.Errorf("%s failed: %w", operation, err)
		}
	}
}

// RecoverToError converts a recovered panic value into an error. It is meant to be
// called from a deferred function with the result of recover().
func RecoverToError(recovered any, logger *slog.Logger, operation string) error {
	if recovered == nil {
		return nil
	}
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("%v", recovered)
	}
	LogError(logger, "recovered from panic", err,
		slog.String("operation", operation),
		slog.String("component", "panic_recovery"))
	return fmt.Errorf("panic in %s: %w", operation, err)
}
