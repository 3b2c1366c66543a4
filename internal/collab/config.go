package collab

import "time"

// CallKind identifies which remote service a request targets.
type CallKind string

const (
	CallGeo      CallKind = "geo"
	CallWeather  CallKind = "weather"
	CallForecast CallKind = "forecast"
	CallPest     CallKind = "pest"
)

// Config holds HTTP settings shared by all collaborators.
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
	// Timeouts overrides Timeout per call kind when > 0.
	Timeouts map[CallKind]time.Duration
}

// DefaultConfig returns a Config with a 5s timeout per call.
func DefaultConfig() Config {
	return Config{
		Timeout:      5 * time.Second,
		UserAgent:    "AgroBot/1.0 (+https://github.com/alexanderramin/agrobot)",
		MaxBodyBytes: 2 << 20,
		Timeouts:     map[CallKind]time.Duration{},
	}
}

// CallTimeout returns the effective timeout for a call kind.
func (c Config) CallTimeout(kind CallKind) time.Duration {
	if d, ok := c.Timeouts[kind]; ok && d > 0 {
		return d
	}
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultConfig().Timeout
}
