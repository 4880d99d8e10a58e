package authflow

import (
	"context"
	"fmt"
)

// Logout ends the current session. With showConfirmation set the confirm
// callback runs first and a declined confirmation is a complete no-op.
// Otherwise the flow enters cleanup, delegates to the provider, notifies
// the outcome, and always returns to idle.
func (c *Controller) Logout(ctx context.Context, showConfirmation bool) error {
	if showConfirmation && !c.confirm(ctx) {
		c.metrics.Inc(MetricLogoutDeclined)
		return nil
	}

	if err := c.acquire(); err != nil {
		return err
	}
	defer c.release()

	c.setStep(StepCleanup)

	err := c.provider.Logout(ctx)
	if err != nil {
		c.metrics.Inc(MetricLogoutFailure)
		c.emit(ctx, EventLogoutFailure, LevelError, "Logout failed. Please try again.")
	} else {
		c.metrics.Inc(MetricLogoutSuccess)
		c.emit(ctx, EventLogoutSuccess, LevelSuccess, "You have been signed out.")
	}

	c.setStep(StepIdle)

	if err != nil {
		return fmt.Errorf("%w: %v", ErrLogoutFailed, err)
	}
	return nil
}
