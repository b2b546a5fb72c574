// Package config provides a YAML construction surface for strategy chains
package config

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jzx17/goresilience/pkg/circuitbreaker"
	"github.com/jzx17/goresilience/pkg/composite"
	"github.com/jzx17/goresilience/pkg/retry"
	"github.com/jzx17/goresilience/pkg/timeout"
	"github.com/jzx17/goresilience/pkg/types"
)

// Strategy names accepted in the order list
const (
	NameTimeout        = "timeout"
	NameRetry          = "retry"
	NameCircuitBreaker = "circuit_breaker"
)

// Duration wraps time.Duration with YAML unmarshalling from string forms
// like "100ms" or "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// RetryConfig configures the retry strategy
type RetryConfig struct {
	MaxAttempts   int      `yaml:"max_attempts"`
	InitialDelay  Duration `yaml:"initial_delay"`
	BackoffFactor float64  `yaml:"backoff_factor"`
	MaxDelay      Duration `yaml:"max_delay"`
}

// CircuitBreakerConfig configures the circuit breaker strategy
type CircuitBreakerConfig struct {
	FailureThreshold int      `yaml:"failure_threshold"`
	BreakDuration    Duration `yaml:"break_duration"`
}

// TimeoutConfig configures the timeout strategy
type TimeoutConfig struct {
	Duration Duration `yaml:"duration"`
}

// Config is the full construction surface. Order lists strategy names
// innermost-first, matching composite semantics.
type Config struct {
	Timeout        *TimeoutConfig        `yaml:"timeout"`
	Retry          *RetryConfig          `yaml:"retry"`
	CircuitBreaker *CircuitBreakerConfig `yaml:"circuit_breaker"`
	Order          []string              `yaml:"order"`
}

// Load reads and parses a YAML configuration
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	return Parse(data)
}

// Parse parses a YAML configuration
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return &cfg, nil
}

// BuildOption customizes the strategies a Config constructs
type BuildOption func(*builder)

type builder struct {
	clock        types.Clock
	logger       types.Logger
	retryHandler retry.EventHandler
	cbHandler    circuitbreaker.EventHandler
	toHandler    timeout.EventHandler
}

// WithClock sets the clock for every built strategy
func WithClock(clock types.Clock) BuildOption {
	return func(b *builder) {
		b.clock = clock
	}
}

// WithLogger sets the logger for every built strategy
func WithLogger(logger types.Logger) BuildOption {
	return func(b *builder) {
		b.logger = logger
	}
}

// WithEventHandlers wires event handlers into the built strategies. Any
// handler may be nil; a value implementing several interfaces (such as the
// metrics collector) can be passed for each.
func WithEventHandlers(rh retry.EventHandler, ch circuitbreaker.EventHandler, th timeout.EventHandler) BuildOption {
	return func(b *builder) {
		b.retryHandler = rh
		b.cbHandler = ch
		b.toHandler = th
	}
}

// Build constructs the strategies named in Order and composes them,
// innermost-first. A single named strategy is returned directly without a
// composite wrapper.
func (c *Config) Build(opts ...BuildOption) (types.Strategy, error) {
	b := &builder{
		clock:  types.NewRealClock(),
		logger: types.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if len(c.Order) == 0 {
		return nil, fmt.Errorf("config: order must name at least one strategy")
	}

	seen := make(map[string]bool, len(c.Order))
	strategies := make([]types.Strategy, 0, len(c.Order))
	for _, name := range c.Order {
		if seen[name] {
			return nil, fmt.Errorf("config: strategy %q listed twice in order", name)
		}
		seen[name] = true

		s, err := c.build(name, b)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}

	if len(strategies) == 1 {
		return strategies[0], nil
	}
	return composite.New(strategies...)
}

func (c *Config) build(name string, b *builder) (types.Strategy, error) {
	switch name {
	case NameTimeout:
		if c.Timeout == nil {
			return nil, fmt.Errorf("config: order names %q but no timeout section is present", name)
		}
		opts := []timeout.Option{
			timeout.WithClock(b.clock),
			timeout.WithLogger(b.logger),
		}
		if b.toHandler != nil {
			opts = append(opts, timeout.WithEventHandler(b.toHandler))
		}
		return timeout.New(c.Timeout.Duration.Std(), opts...)

	case NameRetry:
		if c.Retry == nil {
			return nil, fmt.Errorf("config: order names %q but no retry section is present", name)
		}
		opts := []retry.Option{
			retry.WithClock(b.clock),
			retry.WithLogger(b.logger),
		}
		// A zero value means the field was absent and the strategy default
		// applies; anything explicitly set is passed through so the
		// constructor's validation rejects bad values instead of masking
		// them
		if c.Retry.MaxAttempts != 0 {
			opts = append(opts, retry.WithMaxAttempts(c.Retry.MaxAttempts))
		}
		if c.Retry.InitialDelay != 0 {
			opts = append(opts, retry.WithInitialDelay(c.Retry.InitialDelay.Std()))
		}
		if c.Retry.BackoffFactor != 0 {
			opts = append(opts, retry.WithBackoffFactor(c.Retry.BackoffFactor))
		}
		if c.Retry.MaxDelay != 0 {
			opts = append(opts, retry.WithMaxDelay(c.Retry.MaxDelay.Std()))
		}
		if b.retryHandler != nil {
			opts = append(opts, retry.WithEventHandler(b.retryHandler))
		}
		return retry.New(opts...)

	case NameCircuitBreaker:
		if c.CircuitBreaker == nil {
			return nil, fmt.Errorf("config: order names %q but no circuit_breaker section is present", name)
		}
		opts := []circuitbreaker.Option{
			circuitbreaker.WithClock(b.clock),
			circuitbreaker.WithLogger(b.logger),
		}
		if c.CircuitBreaker.FailureThreshold != 0 {
			opts = append(opts, circuitbreaker.WithFailureThreshold(c.CircuitBreaker.FailureThreshold))
		}
		if c.CircuitBreaker.BreakDuration != 0 {
			opts = append(opts, circuitbreaker.WithBreakDuration(c.CircuitBreaker.BreakDuration.Std()))
		}
		if b.cbHandler != nil {
			opts = append(opts, circuitbreaker.WithEventHandler(b.cbHandler))
		}
		return circuitbreaker.New(opts...)

	default:
		return nil, fmt.Errorf("config: unknown strategy %q in order", name)
	}
}
