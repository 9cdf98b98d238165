package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "KEYFLARE_"

type envField struct {
	name string
	set  func(c *Config, v string) error
}

func intField(dst func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func boolField(dst func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}
}

func stringField(dst func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

var envFields = []envField{
	{"DEBUG", boolField(func(c *Config) *bool { return &c.Debug })},
	{"ALPHABET", stringField(func(c *Config) *string { return &c.Alphabet })},
	{"MIN_AREA", intField(func(c *Config) *int { return &c.MinArea })},
	{"MARGIN", intField(func(c *Config) *int { return &c.Margin })},
	{"DOMINANCE_SLACK", intField(func(c *Config) *int { return &c.DominanceSlack })},
	{"EXTRACTOR", stringField(func(c *Config) *string { return &c.Extractor })},
	{"DILATION_WIDTH", intField(func(c *Config) *int { return &c.DilationWidth })},
	{"ADAPTIVE_DILATION", boolField(func(c *Config) *bool { return &c.AdaptiveDilation })},
	{"CLICK_INSET", intField(func(c *Config) *int { return &c.ClickInset })},
	{"CLICK_DELAY_MS", intField(func(c *Config) *int { return &c.ClickDelayMs })},
	{"STEP_TIMEOUT_SECONDS", intField(func(c *Config) *int { return &c.StepTimeoutSeconds })},
	{"BADGE_COLOR", stringField(func(c *Config) *string { return &c.BadgeColor })},
	{"BADGE_SIZE", intField(func(c *Config) *int { return &c.BadgeSize })},
	{"DARK_THEME", boolField(func(c *Config) *bool { return &c.DarkTheme })},
	{"STATUS_WINDOW", boolField(func(c *Config) *bool { return &c.StatusWindow })},
	{"MOUSE_CHORD", boolField(func(c *Config) *bool { return &c.MouseChord })},
}

// ApplyEnv overrides fields from KEYFLARE_* variables using lookup (os.LookupEnv
// when nil). Unparseable values are skipped and reported.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var bad []string
	for _, f := range envFields {
		v, ok := lookup(EnvPrefix + f.name)
		if !ok {
			continue
		}
		if err := f.set(c, strings.TrimSpace(v)); err != nil {
			bad = append(bad, EnvPrefix+f.name)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("invalid environment values: %s", strings.Join(bad, ", "))
	}
	return nil
}
