package authflow

import (
	"context"
	"errors"
	"fmt"
)

// Login runs the full login sequence for the supplied credentials. The
// call is synchronous; callers that want fire-and-forget semantics run
// it on their own goroutine and observe progress through State.
//
// Sequence: gate check, validating (the attempt is recorded before any
// remote work), pacing pause, authenticating, remember-me persistence,
// provider login, then either the landing redirect, the
// profile-completion redirect, or a classified failure back to idle.
func (c *Controller) Login(ctx context.Context, creds LoginCredentials) error {
	if err := c.acquire(); err != nil {
		return err
	}

	start := c.now()
	defer func() {
		c.release()
		c.metrics.Observe(MetricLoginLatency, c.now().Sub(start))
	}()

	if !c.gate.Allow() {
		msg := c.rateLimitMessage()
		c.setError(msg)
		c.metrics.Inc(MetricLoginBlocked)
		c.emit(ctx, EventLoginBlocked, LevelError, msg)
		return ErrLoginRateLimited
	}

	c.setStep(StepValidating)
	c.setError("")
	c.provider.ClearError()

	// Attempt accounting happens before the remote call so failed-fast
	// calls still count toward the cooldown window.
	c.gate.Record()
	c.syncGate()

	c.pause(ctx, c.cfg.Pacing.Validating)

	c.setStep(StepAuthenticating)

	c.persistPreference(ctx, creds)

	result, err := c.provider.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return c.finishLoginFailure(ctx, err)
	}
	if result != nil && result.NeedsProfileCompletion {
		return c.finishProfileIncomplete(ctx)
	}
	return c.finishLoginSuccess(ctx)
}

func (c *Controller) finishLoginSuccess(ctx context.Context) error {
	c.setStep(StepRedirecting)
	c.gate.Reset()
	c.syncGate()
	c.metrics.Inc(MetricLoginSuccess)
	c.emit(ctx, EventLoginSuccess, LevelSuccess, "Login successful. Welcome back!")

	c.pause(ctx, c.cfg.Pacing.Redirect)
	c.navigator.Navigate(ctx, c.cfg.Routes.Landing)
	return nil
}

// finishProfileIncomplete handles the soft-success path: the session
// exists but required profile data is missing. No error is set and the
// attempt counter stays as it is.
func (c *Controller) finishProfileIncomplete(ctx context.Context) error {
	c.setStep(StepRedirecting)
	c.metrics.Inc(MetricProfileRedirect)
	c.emit(ctx, EventProfileIncomplete, LevelSuccess, "Almost there! Please complete your profile.")
	c.navigator.Navigate(ctx, c.cfg.Routes.CompleteProfile)
	return nil
}

func (c *Controller) finishLoginFailure(ctx context.Context, cause error) error {
	kind := classifyError(cause)
	if kind == kindProfileIncomplete {
		// Providers without the tagged result signal the condition as an
		// error; normalize it onto the redirect path.
		return c.finishProfileIncomplete(ctx)
	}

	msg := kind.message()
	c.setError(msg)
	c.setStep(StepIdle)
	c.metrics.Inc(MetricLoginFailure)
	c.emit(ctx, EventLoginFailure, LevelError, msg)

	sentinel := kind.sentinel()
	if errors.Is(cause, sentinel) {
		return cause
	}
	return fmt.Errorf("%w: %v", sentinel, cause)
}

// persistPreference writes or clears the remember-me entry before the
// remote call. Best effort: a broken store must not abort the login.
func (c *Controller) persistPreference(ctx context.Context, creds LoginCredentials) {
	var err error
	if creds.RememberMe {
		err = c.store.Save(ctx, creds.Email)
	} else {
		err = c.store.Clear(ctx)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "persist remember-me preference", "err", err)
	}
}

func (c *Controller) rateLimitMessage() string {
	minutes := int(c.cfg.Gate.Cooldown.Minutes())
	if minutes <= 1 {
		return "Too many login attempts. Please wait a minute and try again."
	}
	return fmt.Sprintf("Too many login attempts. Please wait %d minutes and try again.", minutes)
}
