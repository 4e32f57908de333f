package out

import "context"

// StaticAuthorizer answers every request with the same result.
type StaticAuthorizer struct {
	Granted bool
	Err     error
}

func (s StaticAuthorizer) RequestAuthorization(context.Context) (bool, error) {
	return s.Granted, s.Err
}

func (s StaticAuthorizer) AuthorizationStatus(context.Context) (bool, error) {
	return s.Granted, s.Err
}

func (s StaticAuthorizer) RequestNotificationAuthorization(context.Context) (bool, error) {
	return s.Granted, s.Err
}
