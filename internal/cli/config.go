package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/storefront/internal/paths"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
)

// Config keys in config.yaml.
const (
	cfgKeyBackend         = "backend"
	cfgKeyDataDir         = "data_dir"
	cfgKeyCatalogFile     = "catalog_file"
	cfgKeyTaxRate         = "tax_rate"
	cfgKeyIncludeTax      = "include_tax"
	cfgKeyCheckoutTaxRate = "checkout.tax_rate"
	cfgKeyShipping        = "checkout.shipping"
	cfgKeyFailureRate     = "checkout.failure_rate"
	cfgKeyMinDelay        = "checkout.min_delay"
	cfgKeyMaxDelay        = "checkout.max_delay"
	cfgKeyRedisAddr       = "redis.addr"
	cfgKeyRedisPassword   = "redis.password"
	cfgKeyRedisDB         = "redis.db"
	cfgKeyRedisPrefix     = "redis.prefix"
	cfgKeyBadgerSync      = "badger.sync_writes"
)

// loadConfig reads config.yaml from configDir using Viper, with defaults for
// every key. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	def := types.DefaultConfig()

	v := viper.New()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyTaxRate, def.Pricing.TaxRate.String())
	v.SetDefault(cfgKeyIncludeTax, def.Pricing.IncludeTax)
	v.SetDefault(cfgKeyCheckoutTaxRate, def.Checkout.TaxRate.String())
	v.SetDefault(cfgKeyShipping, def.Checkout.Shipping.String())
	v.SetDefault(cfgKeyFailureRate, def.Checkout.FailureRate)
	v.SetDefault(cfgKeyMinDelay, def.Checkout.MinDelay.String())
	v.SetDefault(cfgKeyMaxDelay, def.Checkout.MaxDelay.String())
	v.SetDefault(cfgKeyRedisAddr, def.Redis.Addr)
	v.SetDefault(cfgKeyRedisDB, def.Redis.DB)
	v.SetDefault(cfgKeyRedisPrefix, def.Redis.Prefix)
	v.SetDefault(cfgKeyBadgerSync, def.Badger.SyncWrites)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// config resolves directories, loads config.yaml and applies the global
// flags on top.
func (e *env) config() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(e.flags.configDir)
	if err != nil {
		return types.Config{}, systemError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, userError(err)
	}
	cfg, err := configFromViper(v)
	if err != nil {
		return types.Config{}, userError(err)
	}

	cfg.DataDir, err = paths.ResolveDataDir(e.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, systemError(fmt.Errorf("resolve data dir: %w", err))
	}
	if e.flags.backend != "" {
		cfg.Backend = e.flags.backend
	}
	if e.flags.ephemeral {
		cfg.Backend = types.BackendMemory
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, userError(err)
	}
	return cfg, nil
}

// configFromViper converts the loaded keys into a types.Config. DataDir is
// resolved separately.
func configFromViper(v *viper.Viper) (types.Config, error) {
	cfg := types.DefaultConfig()
	cfg.Backend = v.GetString(cfgKeyBackend)
	cfg.CatalogFile = v.GetString(cfgKeyCatalogFile)
	cfg.Pricing.IncludeTax = v.GetBool(cfgKeyIncludeTax)
	cfg.Checkout.FailureRate = v.GetFloat64(cfgKeyFailureRate)
	cfg.Redis = types.RedisConfig{
		Addr:     v.GetString(cfgKeyRedisAddr),
		Password: v.GetString(cfgKeyRedisPassword),
		DB:       v.GetInt(cfgKeyRedisDB),
		Prefix:   v.GetString(cfgKeyRedisPrefix),
	}
	cfg.Badger.SyncWrites = v.GetBool(cfgKeyBadgerSync)

	var err error
	if cfg.Pricing.TaxRate, err = decimalKey(v, cfgKeyTaxRate); err != nil {
		return types.Config{}, err
	}
	if cfg.Checkout.TaxRate, err = decimalKey(v, cfgKeyCheckoutTaxRate); err != nil {
		return types.Config{}, err
	}
	if cfg.Checkout.Shipping, err = decimalKey(v, cfgKeyShipping); err != nil {
		return types.Config{}, err
	}
	if cfg.Checkout.MinDelay, err = durationKey(v, cfgKeyMinDelay); err != nil {
		return types.Config{}, err
	}
	if cfg.Checkout.MaxDelay, err = durationKey(v, cfgKeyMaxDelay); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

func decimalKey(v *viper.Viper, key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.GetString(key))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("config %s: %w", key, err)
	}
	return d, nil
}

func durationKey(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", key, err)
	}
	return d, nil
}

// configFile is the structure written to config.yaml by init.
type configFile struct {
	Backend    string             `yaml:"backend"`
	DataDir    string             `yaml:"data_dir,omitempty"`
	TaxRate    string             `yaml:"tax_rate"`
	IncludeTax bool               `yaml:"include_tax"`
	Checkout   checkoutConfigFile `yaml:"checkout"`
}

type checkoutConfigFile struct {
	TaxRate     string  `yaml:"tax_rate"`
	Shipping    string  `yaml:"shipping"`
	FailureRate float64 `yaml:"failure_rate"`
	MinDelay    string  `yaml:"min_delay"`
	MaxDelay    string  `yaml:"max_delay"`
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. It reports whether a file was written.
func writeConfigIfMissing(path string, cfg types.Config, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	out := configFile{
		Backend:    cfg.Backend,
		DataDir:    dataDir,
		TaxRate:    cfg.Pricing.TaxRate.String(),
		IncludeTax: cfg.Pricing.IncludeTax,
		Checkout: checkoutConfigFile{
			TaxRate:     cfg.Checkout.TaxRate.String(),
			Shipping:    cfg.Checkout.Shipping.String(),
			FailureRate: cfg.Checkout.FailureRate,
			MinDelay:    cfg.Checkout.MinDelay.String(),
			MaxDelay:    cfg.Checkout.MaxDelay.String(),
		},
	}
	data, err := yaml.Marshal(&out)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
