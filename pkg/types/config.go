package types

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds backend selection, storage parameters and pricing defaults.
type Config struct {
	Backend     string         `json:"backend" yaml:"backend"`
	DataDir     string         `json:"data_dir" yaml:"data_dir"`
	CatalogFile string         `json:"catalog_file,omitempty" yaml:"catalog_file,omitempty"`
	Pricing     PricingConfig  `json:"pricing" yaml:"pricing"`
	Checkout    CheckoutConfig `json:"checkout" yaml:"checkout"`
	Redis       RedisConfig    `json:"redis" yaml:"redis"`
	Badger      BadgerConfig   `json:"badger" yaml:"badger"`
}

// PricingConfig holds the cart's default tax parameters.
type PricingConfig struct {
	TaxRate    decimal.Decimal `json:"tax_rate" yaml:"tax_rate"`
	IncludeTax bool            `json:"include_tax" yaml:"include_tax"`
}

// CheckoutConfig configures the checkout surface and the simulated order
// gateway.
type CheckoutConfig struct {
	TaxRate     decimal.Decimal `json:"tax_rate" yaml:"tax_rate"`
	Shipping    decimal.Decimal `json:"shipping" yaml:"shipping"`
	FailureRate float64         `json:"failure_rate" yaml:"failure_rate"`
	MinDelay    time.Duration   `json:"min_delay" yaml:"min_delay"`
	MaxDelay    time.Duration   `json:"max_delay" yaml:"max_delay"`
}

// RedisConfig holds connection parameters for the redis backend.
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db" yaml:"db"`
	Prefix   string `json:"prefix" yaml:"prefix"`
}

// BadgerConfig holds options for the badger backend.
type BadgerConfig struct {
	InMemory   bool `json:"in_memory" yaml:"in_memory"`
	SyncWrites bool `json:"sync_writes" yaml:"sync_writes"`
}

// Supported backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Checkout defaults.
var (
	DefaultCheckoutTaxRate = decimal.RequireFromString("0.085")
	DefaultShipping        = decimal.RequireFromString("9.99")
)

// Simulated gateway defaults.
const (
	DefaultFailureRate = 0.1
	DefaultMinDelay    = 2 * time.Second
	DefaultMaxDelay    = 3 * time.Second
)

// Config validation errors.
var (
	ErrBackendEmpty       = errors.New("backend must not be empty")
	ErrBackendUnknown     = errors.New("unknown backend")
	ErrInvalidTaxRate     = errors.New("tax rate must be between 0 and 1")
	ErrInvalidShipping    = errors.New("shipping cost must not be negative")
	ErrInvalidFailureRate = errors.New("failure rate must be between 0 and 1")
	ErrInvalidDelay       = errors.New("min delay must not exceed max delay")
	ErrRedisAddrEmpty     = errors.New("redis address must not be empty")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendFile:   true,
	BackendSQLite: true,
	BackendBadger: true,
	BackendRedis:  true,
	BackendMemory: true,
}

// DefaultConfig returns a file-backed configuration with the demo pricing
// and checkout parameters.
func DefaultConfig() Config {
	return Config{
		Backend: BackendFile,
		Pricing: PricingConfig{
			TaxRate: DefaultTaxRate,
		},
		Checkout: CheckoutConfig{
			TaxRate:     DefaultCheckoutTaxRate,
			Shipping:    DefaultShipping,
			FailureRate: DefaultFailureRate,
			MinDelay:    DefaultMinDelay,
			MaxDelay:    DefaultMaxDelay,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "storefront:",
		},
		Badger: BadgerConfig{
			SyncWrites: true,
		},
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendRedis && c.Redis.Addr == "" {
		return ErrRedisAddrEmpty
	}
	if !validRate(c.Pricing.TaxRate) || !validRate(c.Checkout.TaxRate) {
		return ErrInvalidTaxRate
	}
	if c.Checkout.Shipping.IsNegative() {
		return ErrInvalidShipping
	}
	if c.Checkout.FailureRate < 0 || c.Checkout.FailureRate > 1 {
		return ErrInvalidFailureRate
	}
	if c.Checkout.MinDelay < 0 || c.Checkout.MinDelay > c.Checkout.MaxDelay {
		return ErrInvalidDelay
	}
	return nil
}

func validRate(r decimal.Decimal) bool {
	return !r.IsNegative() && r.LessThanOrEqual(decimal.NewFromInt(1))
}
