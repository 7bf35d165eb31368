// =============================================================================
// Order Billing Report - Configuration Module
// =============================================================================
//
// This module is responsible for loading the run configuration: where the
// order export lives, which fulfillment window to bill, the tariff rates and
// the non-billable name patterns.
//
// CONFIGURATION SOURCES (lowest to highest priority):
//   1. Built-in defaults
//   2. YAML config file (config.yaml by default, optional)
//   3. Environment variables with the BILLING_ prefix (a .env file in the
//      working directory is loaded first if present)
//   4. Command line flags (applied by the cmd package)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/order-billing-report/internal/types"
)

// DateLayout is the date format accepted from users (DD.MM.YYYY).
const DateLayout = "02.01.2006"

// isoDateLayout is accepted as well, mostly for config files.
const isoDateLayout = "2006-01-02"

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "BILLING_"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// INPUT / OUTPUT
	// =========================================================================

	// InputFile is the order export to process (.csv or .xlsx).
	// Default: "orders_export.csv"
	InputFile string `yaml:"input_file" validate:"required"`

	// XLSXSheet selects the sheet when InputFile is a workbook.
	// Empty means the first sheet.
	XLSXSheet string `yaml:"xlsx_sheet"`

	// OutputDir is the directory the report is written to.
	// Default: "."
	OutputDir string `yaml:"output_dir" validate:"required"`

	// OutputFileFormat defines the report file name.
	// Placeholders:
	//   {date}      - Current date (YYYY-MM-DD)
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - A random UUID
	// Default: "processed_orders_{date}.xlsx"
	OutputFileFormat string `yaml:"output_file_format" validate:"required"`

	// CSVSettings contains settings for parsing the input CSV file.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// =========================================================================
	// BILLING PERIOD AND TARIFFS
	// =========================================================================

	// StartDate and EndDate bound the fulfillment window, inclusive,
	// in DD.MM.YYYY (or YYYY-MM-DD).
	StartDate string `yaml:"start_date" validate:"required"`
	EndDate   string `yaml:"end_date" validate:"required"`

	Tariffs TariffSettings `yaml:"tariffs"`

	// ExclusionPatterns marks line items as non-billable when the line
	// name contains any of them (case-sensitive).
	// Default: ["Package protection", "Shipping Protection"]
	ExclusionPatterns []string `yaml:"exclusion_patterns"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat is "console" or "json".
	// Default: "console"
	LogFormat string `yaml:"log_format" validate:"oneof=console json"`

	// LogFile is an optional log destination. Empty means stderr.
	LogFile string `yaml:"log_file"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), ";" (semicolon), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of the CSV file.
	// Supported: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding" validate:"oneof=UTF-8 ISO-8859-1 Windows-1252"`
}

// TariffSettings holds the tariff rates as written in the config file.
type TariffSettings struct {
	FirstSKU float64 `yaml:"first_sku" validate:"gte=0"`
	NextSKU  float64 `yaml:"next_sku" validate:"gte=0"`
	PerPiece float64 `yaml:"per_piece" validate:"gte=0"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load loads the configuration from a YAML file, then applies environment
// overrides. A missing file is not an error: defaults and overrides are
// enough to run.
//
// The result is not validated; call Validate after flags are applied.
func Load(configPath string) (*Config, error) {
	var config Config

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults only.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyDefaults(&config)

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(&config); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	return &config, nil
}

// loadDotEnv loads a .env file into the environment. A missing file is
// fine; an unreadable or malformed one is not.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.InputFile == "" {
		config.InputFile = "orders_export.csv"
	}
	if config.OutputDir == "" {
		config.OutputDir = "."
	}
	if config.OutputFileFormat == "" {
		config.OutputFileFormat = "processed_orders_{date}.xlsx"
	}
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
	if config.CSVSettings.Encoding == "" {
		config.CSVSettings.Encoding = "UTF-8"
	}
	if config.ExclusionPatterns == nil {
		config.ExclusionPatterns = []string{"Package protection", "Shipping Protection"}
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
}

// applyEnvOverrides reads BILLING_* variables over the file values.
func applyEnvOverrides(config *Config) error {
	strs := map[string]*string{
		"INPUT_FILE": &config.InputFile,
		"OUTPUT_DIR": &config.OutputDir,
		"START_DATE": &config.StartDate,
		"END_DATE":   &config.EndDate,
		"LOG_LEVEL":  &config.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	floats := map[string]*float64{
		"FIRST_SKU": &config.Tariffs.FirstSKU,
		"NEXT_SKU":  &config.Tariffs.NextSKU,
		"PER_PIECE": &config.Tariffs.PerPiece,
	}
	for key, dst := range floats {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok || v == "" {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = f
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks struct constraints, then the billing window.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	start, err := ParseDate(c.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := ParseDate(c.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end_date: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end_date %s is before start_date %s", c.EndDate, c.StartDate)
	}

	return nil
}

// Window returns the parsed start and end dates. Validate must have passed.
func (c *Config) Window() (time.Time, time.Time, error) {
	start, err := ParseDate(c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate(c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// BillingTariffs converts the configured rates to fixed-point decimals.
func (c *Config) BillingTariffs() types.Tariffs {
	return types.Tariffs{
		FirstSKU: decimal.NewFromFloat(c.Tariffs.FirstSKU),
		NextSKU:  decimal.NewFromFloat(c.Tariffs.NextSKU),
		PerPiece: decimal.NewFromFloat(c.Tariffs.PerPiece),
	}
}

// ParseDate parses a DD.MM.YYYY or YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{DateLayout, isoDateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a date in DD.MM.YYYY format", value)
}
