package service

import "time"

// Latency holds the simulated delay of each store operation. The delays are
// fixed, bounded and not cancellable.
type Latency struct {
	List   time.Duration
	Get    time.Duration
	Create time.Duration
	Attach time.Duration
	Upload time.Duration
	Auth   time.Duration
}

// DefaultLatency returns the delays the web client was built against.
func DefaultLatency() Latency {
	return Latency{
		List:   500 * time.Millisecond,
		Get:    300 * time.Millisecond,
		Create: time.Second,
		Attach: time.Second,
		Upload: 1500 * time.Millisecond,
		Auth:   time.Second,
	}
}
