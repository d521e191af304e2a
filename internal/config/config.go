// =============================================================================
// Packing Slip Generator - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Main Config (config.yaml): optional; missing file means "all defaults"
//   2. Environment: PACKSLIP_* variables (see the envconfig tags below)
//   3. Defaults: applied to anything still unset
//
// The merged configuration is validated before it is returned.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. PACKSLIP_OUTPUT_DIR.
const EnvPrefix = "PACKSLIP"

// Renderer backends.
const (
	RendererFPDF      = "fpdf"
	RendererGotenberg = "gotenberg"
)

// DefaultCompanyName is printed on the first line of every slip.
const DefaultCompanyName = "Kingsbury Court PTY LTD (KENZZI)"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for order workbooks when no files are given.
	// Default: "./input"
	InputDir string `yaml:"input_dir" envconfig:"INPUT_DIR" validate:"required"`

	// OutputDir receives the generated packing slips.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`

	// InputArchiveDir receives processed workbooks when ArchiveInputs is set.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir" envconfig:"INPUT_ARCHIVE_DIR"`

	// ArchiveInputs moves a workbook to InputArchiveDir once all of its
	// slips were written.
	ArchiveInputs bool `yaml:"archive_inputs" envconfig:"ARCHIVE_INPUTS"`

	// ArchiveTimestampSubdirs files archived workbooks under YYYY/MM/DD
	// subdirectories of InputArchiveDir.
	ArchiveTimestampSubdirs bool `yaml:"archive_timestamp_subdirs" envconfig:"ARCHIVE_TIMESTAMP_SUBDIRS"`

	// =========================================================================
	// SOURCE SETTINGS
	// =========================================================================

	// SheetName is the worksheet holding the order lines.
	// Default: "Sheet1"
	SheetName string `yaml:"sheet_name" envconfig:"SHEET_NAME" validate:"required"`

	// CSV configures the reader used for .csv exports.
	CSV CSVSettings `yaml:"csv" envconfig:"CSV"`

	// =========================================================================
	// RENDERING SETTINGS
	// =========================================================================

	// CompanyName is the first header line of each slip.
	CompanyName string `yaml:"company_name" envconfig:"COMPANY_NAME" validate:"required"`

	// Renderer selects the PDF backend: "fpdf" (in-process) or "gotenberg".
	// Default: "fpdf"
	Renderer string `yaml:"renderer" envconfig:"RENDERER" validate:"oneof=fpdf gotenberg"`

	// GotenbergURL is the base URL of the Gotenberg service.
	GotenbergURL string `yaml:"gotenberg_url" envconfig:"GOTENBERG_URL" validate:"required_if=Renderer gotenberg,omitempty,url"`

	// GotenbergTimeout bounds one render request.
	// Default: 30s
	GotenbergTimeout time.Duration `yaml:"gotenberg_timeout" envconfig:"GOTENBERG_TIMEOUT"`

	// StrictGroups turns differing shipping fields inside one order into a
	// fatal error for the file instead of a warning.
	StrictGroups bool `yaml:"strict_groups" envconfig:"STRICT_GROUPS"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files converted at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" validate:"gte=1"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// CSVSettings contains settings for parsing CSV exports.
type CSVSettings struct {
	// Delimiter separates fields. Accepts a single character or one of
	// "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadMainConfig loads the main configuration.
//
// PARAMETERS:
//   - configPath: The path to the YAML file. A missing file is not an error.
//
// RETURNS:
//   - A pointer to the validated MainConfig.
//   - An error if the file cannot be parsed or the result is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Defaults and environment only.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// Validate checks field constraints.
func (c *MainConfig) Validate() error {
	return validate.Struct(c)
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.SheetName == "" {
		config.SheetName = "Sheet1"
	}
	if config.CompanyName == "" {
		config.CompanyName = DefaultCompanyName
	}
	if config.Renderer == "" {
		config.Renderer = RendererFPDF
	}
	if config.GotenbergTimeout == 0 {
		config.GotenbergTimeout = 30 * time.Second
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.CSV.Delimiter == "" {
		config.CSV.Delimiter = ","
	}
}
