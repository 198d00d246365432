package config

import (
	"flag"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/duster/internal/domain"
)

type flagValues struct {
	config        string
	platform      string
	maxValue      string
	valueCurrency string
	through       string
	targets       string
	ignored       string
	intermediate  string
	final         string
	dryRun        bool
	yes           bool
	setup         bool
	verbose       bool
	readRetries   int
	rate          int
}

func newFlagSet() (*flag.FlagSet, *flagValues) {
	d := Default()
	v := &flagValues{}

	fs := flag.NewFlagSet("duster", flag.ContinueOnError)
	fs.StringVar(&v.config, "config", "", "path to yaml config")
	fs.StringVar(&v.platform, "platform", d.Platform, "exchange: bitfinex, binance or bybit")
	fs.StringVar(&v.maxValue, "max-value", d.MaxValue.String(), "skip wallets worth more than this, 0 converts everything")
	fs.StringVar(&v.valueCurrency, "value-currency", d.ValueCurrency.String(), "currency of --max-value")
	fs.StringVar(&v.through, "through", d.RouteThrough.String(), "currency used to value wallets without a direct market")
	fs.StringVar(&v.targets, "targets", joinCurrencies(d.Targets), "comma separated conversion targets in priority order")
	fs.StringVar(&v.ignored, "ignored", joinCurrencies(d.Ignored), "comma separated currencies never converted")
	fs.StringVar(&v.intermediate, "intermediate", d.Intermediate.String(), "currency converted again at the end, empty disables")
	fs.StringVar(&v.final, "final", d.Final.String(), "destination of the final conversion")
	fs.BoolVar(&v.dryRun, "dry-run", false, "read live balances and simulate transfers and orders without sending them")
	fs.BoolVar(&v.yes, "yes", false, "do not ask for order approval")
	fs.BoolVar(&v.setup, "setup", false, "run the interactive setup and write --config")
	fs.BoolVar(&v.verbose, "verbose", false, "debug logging")
	fs.IntVar(&v.readRetries, "read-retries", d.ReadRetries, "retries of failed read requests")
	fs.IntVar(&v.rate, "rate", d.RequestsPerMinute, "max requests per minute")

	return fs, v
}

// apply copies explicitly set flags into conf.
func (v *flagValues) apply(fs *flag.FlagSet, conf *Config) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "platform":
			conf.Platform = strings.ToLower(strings.TrimSpace(v.platform))
		case "max-value":
			var maxValue decimal.Decimal
			maxValue, err = decimal.NewFromString(v.maxValue)
			if err != nil {
				err = errors.Errorf("invalid --max-value provided, --max-value=%s", v.maxValue)
				return
			}
			conf.MaxValue = maxValue
		case "value-currency":
			conf.ValueCurrency = domain.NewCurrency(v.valueCurrency)
		case "through":
			conf.RouteThrough = domain.NewCurrency(v.through)
		case "targets":
			conf.Targets = splitCurrencies(v.targets)
		case "ignored":
			conf.Ignored = splitCurrencies(v.ignored)
		case "intermediate":
			conf.Intermediate = domain.NewCurrency(v.intermediate)
		case "final":
			conf.Final = domain.NewCurrency(v.final)
		case "dry-run":
			conf.DryRun = v.dryRun
		case "yes":
			conf.AssumeYes = v.yes
		case "verbose":
			conf.Verbose = v.verbose
		case "read-retries":
			conf.ReadRetries = v.readRetries
		case "rate":
			conf.RequestsPerMinute = v.rate
		}
	})
	return err
}

func splitCurrencies(list string) []domain.Currency {
	return domain.NewCurrencies(strings.Split(list, ",")...)
}

func joinCurrencies(currencies []domain.Currency) string {
	return strings.Join(currencyStrings(currencies), ",")
}
