// Package setup holds the interactive terminal flows: the configuration wizard
// and the order confirmation prompt.
package setup

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/duster/config"
	"github.com/vadiminshakov/duster/internal/domain"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

const wizardTitle = "DUSTER CONFIG WIZARD"

// ErrCancelled returned when the user declines to save the configuration.
var ErrCancelled = errors.New("setup cancelled by user")

func screen(step string) {
	fmt.Print("\033[H\033[2J") // clear screen
	fmt.Println(headerStyle.Render(wizardTitle))
	fmt.Println(stepStyle.Render(step))
}

// answers raw wizard input, kept as strings until the final step.
type answers struct {
	platform      string
	targets       string
	ignored       string
	maxValue      string
	valueCurrency string
	routeThrough  string
	intermediate  string
	final         string
}

func defaultAnswers() answers {
	d := config.Default()
	return answers{
		platform:      d.Platform,
		targets:       joinCurrencies(d.Targets),
		ignored:       joinCurrencies(d.Ignored),
		maxValue:      d.MaxValue.String(),
		valueCurrency: d.ValueCurrency.String(),
		routeThrough:  d.RouteThrough.String(),
		intermediate:  d.Intermediate.String(),
		final:         d.Final.String(),
	}
}

// config converts the answers into a validated configuration.
func (a answers) config() (config.Config, error) {
	conf := config.Default()
	conf.Platform = a.platform
	conf.Targets = splitCurrencies(a.targets)
	conf.Ignored = splitCurrencies(a.ignored)
	conf.ValueCurrency = domain.NewCurrency(a.valueCurrency)
	conf.RouteThrough = domain.NewCurrency(a.routeThrough)
	conf.Intermediate = domain.NewCurrency(a.intermediate)
	conf.Final = domain.NewCurrency(a.final)

	maxValue, err := decimal.NewFromString(strings.TrimSpace(a.maxValue))
	if err != nil {
		return config.Config{}, errors.Wrap(err, "parse max value")
	}
	conf.MaxValue = maxValue

	if err := conf.Validate(); err != nil {
		return config.Config{}, err
	}
	return conf, nil
}

// RunTUI launches the terminal configuration wizard and writes the result to path.
func RunTUI(path string) error {
	a := defaultAnswers()
	var confirm bool

	// step 1: welcome
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render(wizardTitle))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Let's sweep the dust off your wallets.\n"))

	fmt.Println(stepStyle.Render("STEP 1: PLATFORM"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Exchange Platform").
				Options(
					huh.NewOption("Bitfinex", config.PlatformBitfinex),
					huh.NewOption("Binance", config.PlatformBinance),
					huh.NewOption("Bybit", config.PlatformBybit),
				).
				Value(&a.platform),
		),
	).Run()
	if err != nil {
		return err
	}

	screen("STEP 2: CURRENCIES")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Target currencies").
				Description("Comma separated, in order of preference (e.g. btc,usd)").
				Value(&a.targets).
				Validate(validateTargets),
			huh.NewInput().
				Title("Ignored currencies").
				Description("Comma separated, never converted").
				Value(&a.ignored),
		),
	).Run()
	if err != nil {
		return err
	}

	screen("STEP 3: DUST THRESHOLD")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Max value").
				Description("Balances worth more than this are left alone, 0 disables the cap").
				Value(&a.maxValue).
				Validate(validateMaxValue),
			huh.NewInput().
				Title("Value currency").
				Description("Currency the max value is expressed in").
				Value(&a.valueCurrency).
				Validate(validateCurrency),
			huh.NewInput().
				Title("Route through").
				Description("Currency used to price balances without a direct market").
				Value(&a.routeThrough),
		),
	).Run()
	if err != nil {
		return err
	}

	screen("STEP 4: FINAL CONVERSION")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Intermediate currency").
				Description("Converted into the final currency after dust is swept, empty to skip").
				Value(&a.intermediate),
			huh.NewInput().
				Title("Final currency").
				Value(&a.final),
		),
	).Run()
	if err != nil {
		return err
	}

	conf, err := a.config()
	if err != nil {
		return err
	}

	// confirmation
	screen("FINAL CONFIRMATION")
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary(conf)))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		return ErrCancelled
	}

	if err := config.Save(path, conf); err != nil {
		return err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s", path)))
	time.Sleep(time.Second) // small pause to read success message
	return nil
}

func summary(c config.Config) string {
	final := "skipped"
	if c.Intermediate != "" {
		final = fmt.Sprintf("%s -> %s", c.Intermediate, c.Final)
	}
	return fmt.Sprintf(
		"Platform: %s\nTargets: %s\nIgnored: %s\nMax value: %s %s\nRoute through: %s\nFinal: %s\n",
		c.Platform, joinCurrencies(c.Targets), joinCurrencies(c.Ignored),
		c.MaxValue.String(), c.ValueCurrency, c.RouteThrough, final,
	)
}

func validateTargets(s string) error {
	if len(splitCurrencies(s)) == 0 {
		return errors.New("at least one target currency is required")
	}
	return nil
}

func validateMaxValue(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("must be a valid number")
	}
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

func validateCurrency(s string) error {
	if domain.NewCurrency(s) == "" {
		return errors.New("currency cannot be empty")
	}
	return nil
}

func splitCurrencies(s string) []domain.Currency {
	return domain.NewCurrencies(strings.Split(s, ",")...)
}

func joinCurrencies(list []domain.Currency) string {
	parts := make([]string, len(list))
	for i, c := range list {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}
