// Package config loads duster settings from command-line flags, a YAML file and
// environment variables.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/duster/internal/domain"
	"github.com/vadiminshakov/duster/internal/sweeper"
	"gopkg.in/yaml.v3"
)

const (
	PlatformBitfinex = "bitfinex"
	PlatformBinance  = "binance"
	PlatformBybit    = "bybit"

	// DefaultPath config file written by the setup wizard when --config is not given.
	DefaultPath = "duster.yaml"

	defaultReadRetries       = 2
	defaultRequestsPerMinute = 60
)

type Config struct {
	Platform          string
	MaxValue          decimal.Decimal
	ValueCurrency     domain.Currency
	RouteThrough      domain.Currency
	Targets           []domain.Currency
	Ignored           []domain.Currency
	Intermediate      domain.Currency
	Final             domain.Currency
	DryRun            bool
	AssumeYes         bool
	Setup             bool
	Verbose           bool
	ReadRetries       int
	RequestsPerMinute int
	// BaseURL overrides the exchange endpoint, e.g. a testnet.
	BaseURL    string
	ConfigPath string
	APIKey     string
	APISecret  string
}

// ConfigTmp YAML representation of Config.
type ConfigTmp struct {
	Platform          string   `yaml:"platform"`
	MaxValue          string   `yaml:"max_value,omitempty"`
	ValueCurrency     string   `yaml:"value_currency,omitempty"`
	RouteThrough      string   `yaml:"through,omitempty"`
	Targets           []string `yaml:"targets,omitempty"`
	Ignored           []string `yaml:"ignored,omitempty"`
	Intermediate      string   `yaml:"intermediate,omitempty"`
	Final             string   `yaml:"final,omitempty"`
	ReadRetries       string   `yaml:"read_retries,omitempty"`
	RequestsPerMinute string   `yaml:"rate,omitempty"`
	BaseURL           string   `yaml:"base_url,omitempty"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	s := sweeper.DefaultSettings()
	return Config{
		Platform:          PlatformBitfinex,
		MaxValue:          s.MaxValue,
		ValueCurrency:     s.ValueCurrency,
		RouteThrough:      s.RouteThrough,
		Targets:           s.TargetCurrencies,
		Ignored:           s.IgnoredCurrencies,
		Intermediate:      s.IntermediateCurrency,
		Final:             s.FinalCurrency,
		ReadRetries:       defaultReadRetries,
		RequestsPerMinute: defaultRequestsPerMinute,
	}
}

// Get builds the configuration from command-line arguments, the YAML file they point to and the environment.
func Get() (Config, error) {
	return Parse(os.Args[1:], os.Getenv)
}

// Parse builds the configuration from args, an optional YAML file and getenv.
// Flags override YAML values, YAML values override defaults.
func Parse(args []string, getenv func(string) string) (Config, error) {
	fs, values := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	conf := Default()
	if values.setup {
		conf.Setup = true
		conf.ConfigPath = values.config
		if conf.ConfigPath == "" {
			conf.ConfigPath = DefaultPath
		}
		return conf, nil
	}

	if values.config != "" {
		var err error
		conf, err = getYaml(values.config)
		if err != nil {
			return Config{}, err
		}
		conf.ConfigPath = values.config
	}

	if err := values.apply(fs, &conf); err != nil {
		return Config{}, err
	}

	if err := conf.Validate(); err != nil {
		return Config{}, err
	}

	// dry runs still read live wallets, which needs signed requests
	conf.APIKey, conf.APISecret = credentials(conf.Platform, getenv)
	if conf.APIKey == "" || conf.APISecret == "" {
		key, secret := credentialEnv(conf.Platform)
		return Config{}, errors.Errorf("%s and %s environment variables must be set", key, secret)
	}

	return conf, nil
}

// Validate checks the configuration is complete.
func (c Config) Validate() error {
	switch c.Platform {
	case PlatformBitfinex, PlatformBinance, PlatformBybit:
	default:
		return errors.Errorf("unsupported platform %q", c.Platform)
	}
	if c.ReadRetries < 0 {
		return errors.Errorf("read retries must not be negative, got %d", c.ReadRetries)
	}
	if c.RequestsPerMinute < 0 {
		return errors.Errorf("rate must not be negative, got %d", c.RequestsPerMinute)
	}
	return errors.Wrap(c.Settings().Validate(), "invalid sweep settings")
}

// Settings converts the configuration into sweep settings.
func (c Config) Settings() sweeper.Settings {
	return sweeper.Settings{
		MaxValue:             c.MaxValue,
		ValueCurrency:        c.ValueCurrency,
		RouteThrough:         c.RouteThrough,
		TargetCurrencies:     c.Targets,
		IgnoredCurrencies:    c.Ignored,
		IntermediateCurrency: c.Intermediate,
		FinalCurrency:        c.Final,
	}
}

// Tmp converts the configuration into its YAML representation.
func (c Config) Tmp() ConfigTmp {
	return ConfigTmp{
		Platform:          c.Platform,
		MaxValue:          c.MaxValue.String(),
		ValueCurrency:     c.ValueCurrency.String(),
		RouteThrough:      c.RouteThrough.String(),
		Targets:           currencyStrings(c.Targets),
		Ignored:           currencyStrings(c.Ignored),
		Intermediate:      c.Intermediate.String(),
		Final:             c.Final.String(),
		ReadRetries:       strconv.Itoa(c.ReadRetries),
		RequestsPerMinute: strconv.Itoa(c.RequestsPerMinute),
		BaseURL:           c.BaseURL,
	}
}

// Save writes the configuration as YAML.
func Save(path string, c Config) error {
	out, err := yaml.Marshal(c.Tmp())
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}

	var tmp ConfigTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}

	return fromTmp(tmp)
}

func fromTmp(tmp ConfigTmp) (Config, error) {
	conf := Default()

	if tmp.Platform != "" {
		conf.Platform = strings.ToLower(strings.TrimSpace(tmp.Platform))
	}
	if tmp.MaxValue != "" {
		maxValue, err := decimal.NewFromString(tmp.MaxValue)
		if err != nil {
			return Config{}, errors.Wrapf(err, "incorrect 'max_value' param in yaml config (must be a decimal)")
		}
		conf.MaxValue = maxValue
	}
	if tmp.ValueCurrency != "" {
		conf.ValueCurrency = domain.NewCurrency(tmp.ValueCurrency)
	}
	if tmp.RouteThrough != "" {
		conf.RouteThrough = domain.NewCurrency(tmp.RouteThrough)
	}
	if len(tmp.Targets) > 0 {
		conf.Targets = domain.NewCurrencies(tmp.Targets...)
	}
	if tmp.Ignored != nil {
		conf.Ignored = domain.NewCurrencies(tmp.Ignored...)
	}
	if tmp.Intermediate != "" {
		conf.Intermediate = domain.NewCurrency(tmp.Intermediate)
	}
	if tmp.Final != "" {
		conf.Final = domain.NewCurrency(tmp.Final)
	}
	if tmp.ReadRetries != "" {
		n, err := strconv.Atoi(tmp.ReadRetries)
		if err != nil {
			return Config{}, errors.Wrapf(err, "incorrect 'read_retries' param in yaml config (must be an integer)")
		}
		conf.ReadRetries = n
	}
	if tmp.RequestsPerMinute != "" {
		n, err := strconv.Atoi(tmp.RequestsPerMinute)
		if err != nil {
			return Config{}, errors.Wrapf(err, "incorrect 'rate' param in yaml config (must be an integer)")
		}
		conf.RequestsPerMinute = n
	}
	conf.BaseURL = strings.TrimSpace(tmp.BaseURL)

	return conf, nil
}

func credentialEnv(platform string) (key, secret string) {
	switch platform {
	case PlatformBinance:
		return "BINANCE_API_KEY", "BINANCE_API_SECRET"
	case PlatformBybit:
		return "BYBIT_API_KEY", "BYBIT_API_SECRET"
	default:
		return "BF_API_KEY", "BF_API_SECRET"
	}
}

func credentials(platform string, getenv func(string) string) (key, secret string) {
	keyEnv, secretEnv := credentialEnv(platform)
	return strings.TrimSpace(getenv(keyEnv)), strings.TrimSpace(getenv(secretEnv))
}

func currencyStrings(currencies []domain.Currency) []string {
	out := make([]string, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, c.String())
	}
	return out
}
