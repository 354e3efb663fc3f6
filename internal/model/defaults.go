package model

import "time"

// Shared defaults used by the service, the API and the dashboard.
const (
	DefaultUpdateInterval = 2 * time.Second
	DefaultBounceInterval = 400 * time.Millisecond
	DefaultTheme          = "default"
)
