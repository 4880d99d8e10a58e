package authflow

// Step identifies the phase an auth flow is currently in. The zero value
// is StepIdle.
type Step uint8

const (
	StepIdle Step = iota
	StepValidating
	StepAuthenticating
	StepRedirecting
	StepCleanup
)

// String returns the lowercase name of the step.
func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepValidating:
		return "validating"
	case StepAuthenticating:
		return "authenticating"
	case StepRedirecting:
		return "redirecting"
	case StepCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

// LoadingMessage returns the user-facing status line for the step.
// LoadingMessage and Progress must both be extended when a new step is
// added.
func (s Step) LoadingMessage() string {
	switch s {
	case StepValidating:
		return "Validating credentials..."
	case StepAuthenticating:
		return "Signing you in..."
	case StepRedirecting:
		return "Success! Redirecting..."
	case StepCleanup:
		return "Signing you out..."
	default:
		return ""
	}
}

// Progress returns the completion percentage displayed for the step.
func (s Step) Progress() int {
	switch s {
	case StepValidating:
		return 25
	case StepAuthenticating:
		return 50
	case StepRedirecting:
		return 75
	case StepCleanup:
		return 90
	default:
		return 0
	}
}
