package out

import "context"

// Authorizer runs the external grant dialog for one capability. A call
// resolves exactly once; false with a nil error is a plain denial.
type Authorizer interface {
	RequestAuthorization(ctx context.Context) (bool, error)
}

// StatusReporter is implemented by authorizers that can report the current
// grant without prompting.
type StatusReporter interface {
	AuthorizationStatus(ctx context.Context) (bool, error)
}

type NotificationAuthorizer interface {
	RequestNotificationAuthorization(ctx context.Context) (bool, error)
}
