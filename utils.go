package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gen2brain/beeep"
)

// NotificationManager handles system notifications
type NotificationManager struct {
	enabled     bool
	showSuccess bool
	showErrors  bool
	log         *LogManager
	notify      func(title, message, icon string) error
	alert       func(title, message, icon string) error
}

// NewNotificationManager creates a new notification manager
func NewNotificationManager(config *Config, log *LogManager) *NotificationManager {
	return &NotificationManager{
		enabled:     config.Notifications.Enabled,
		showSuccess: config.Notifications.ShowSuccess,
		showErrors:  config.Notifications.ShowErrors,
		log:         log,
		notify:      func(title, message, icon string) error { return beeep.Notify(title, message, icon) },
		alert:       func(title, message, icon string) error { return beeep.Alert(title, message, icon) },
	}
}

// NotifySuccess sends a success notification
func (nm *NotificationManager) NotifySuccess(message string) {
	if !nm.enabled || !nm.showSuccess {
		return
	}

	if err := nm.notify("Keystroker", message, ""); err != nil {
		nm.log.LogWarning("Failed to send success notification", "error", err.Error())
	}
}

// NotifyError sends an error notification
func (nm *NotificationManager) NotifyError(message string) {
	if !nm.enabled || !nm.showErrors {
		return
	}

	if err := nm.alert("Keystroker Error", message, ""); err != nil {
		nm.log.LogWarning("Failed to send error notification", "error", err.Error())
	}
}

// RetryManager handles retry logic with linear backoff
type RetryManager struct {
	maxAttempts int
	baseDelay   time.Duration
	log         *LogManager
}

// NewRetryManager creates a new retry manager
func NewRetryManager(maxAttempts int, baseDelay time.Duration, log *LogManager) *RetryManager {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryManager{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		log:         log,
	}
}

// Retry executes the given function until it succeeds, the attempts run out
// or ctx is done. The nth retry waits n times the base delay.
func (rm *RetryManager) Retry(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 1; attempt <= rm.maxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt < rm.maxAttempts {
			delay := time.Duration(attempt) * rm.baseDelay
			rm.log.LogDebug("Attempt failed, retrying",
				"attempt", fmt.Sprint(attempt), "error", err.Error(), "delay", delay.String())
			if err := sleepContext(ctx, delay); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("operation failed after %d attempts, last error: %w", rm.maxAttempts, lastErr)
}
