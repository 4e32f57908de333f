package out

import "context"

// Random draws channel values for the simulated source.
type Random interface {
	Uniform(min, max float64) float64
}

// Sensor is the health/biometric provider.
type Sensor interface {
	RequestAuthorization(ctx context.Context, metrics []string) (bool, error)
	// AuthorizationStatus reports whether a previous grant still holds,
	// without showing a dialog.
	AuthorizationStatus(ctx context.Context) (bool, error)
	QueryLatest(ctx context.Context, metric string) (float64, error)
}
