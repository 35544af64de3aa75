package service

// Service defines the lifecycle of a long-lived subsystem: audio device, metrics feed
//
// Lifecycle:
//  1. Construction
//  2. Init() - validate configuration, acquire nothing that needs cleanup on failure
//  3. Start() - open devices, launch goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must start before this one
	Dependencies() []string

	Init() error
	Start() error

	// Stop must be idempotent
	Stop() error
}
