package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/docureco/config"
	ConfigFileName    = "docureco.yml"
)

// Config holds all Docureco configuration settings
type Config struct {
	// LLMModel is the model identifier used for all LLM calls
	LLMModel string `yaml:"llm_model" json:"llm_model"`

	// LLMMaxTokens is the maximum number of output tokens per LLM call
	LLMMaxTokens int `yaml:"llm_max_tokens" json:"llm_max_tokens"`

	// LLMMaxRetries is the number of retries for failed LLM calls
	LLMMaxRetries int `yaml:"llm_max_retries" json:"llm_max_retries"`

	// LLMRequestTimeout is the per-call timeout in seconds
	LLMRequestTimeout int `yaml:"llm_request_timeout" json:"llm_request_timeout"`

	// LLMTemperature is the sampling temperature for LLM calls
	LLMTemperature float64 `yaml:"llm_temperature" json:"llm_temperature"`

	// MaxConcurrentOperations bounds the number of in-flight LLM calls
	MaxConcurrentOperations int `yaml:"max_concurrent_operations" json:"max_concurrent_operations"`

	// SDDPatterns are glob patterns identifying design documents
	SDDPatterns []string `yaml:"sdd_patterns" json:"sdd_patterns"`

	// SRSPatterns are glob patterns identifying requirements documents
	SRSPatterns []string `yaml:"srs_patterns" json:"srs_patterns"`

	// CodePatterns are glob patterns identifying source code files
	CodePatterns []string `yaml:"code_patterns" json:"code_patterns"`

	// GitHubAppID is the GitHub App id, when App authentication is used
	GitHubAppID int64 `yaml:"github_app_id" json:"github_app_id"`

	// GitHubInstallationID is the App installation to mint tokens for
	GitHubInstallationID int64 `yaml:"github_installation_id" json:"github_installation_id"`

	// BindAddress is the address the API server listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the port the API server listens on
	Port int `yaml:"port" json:"port"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		LLMModel:                "claude-sonnet-4-5",
		LLMMaxTokens:            8192,
		LLMMaxRetries:           3,
		LLMRequestTimeout:       300,
		LLMTemperature:          0.1,
		MaxConcurrentOperations: 5,
		SDDPatterns:             []string{"**/sdd*.md", "**/design*.md", "docs/design/**/*.md"},
		SRSPatterns:             []string{"**/srs*.md", "**/requirements*.md", "docs/requirements/**/*.md"},
		CodePatterns:            []string{"**/*.go", "**/*.py", "**/*.ts", "**/*.js", "**/*.java"},
		BindAddress:             "0.0.0.0",
		Port:                    8080,
		sources:                 make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*Config, error) {
	config := newDefault()

	// Initialize all sources as "default"
	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	// Determine config file path
	configPath := os.Getenv("DOCURECO_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	// Try to load from config file
	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	// Override with environment variables
	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"llm_model", "llm_max_tokens", "llm_max_retries",
		"llm_request_timeout", "llm_temperature",
		"max_concurrent_operations", "sdd_patterns", "srs_patterns",
		"code_patterns", "github_app_id", "github_installation_id",
		"bind_address", "port",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.LLMModel != "" {
		c.LLMModel = file.LLMModel
		c.sources["llm_model"] = "file"
	}
	if file.LLMMaxTokens != 0 {
		c.LLMMaxTokens = file.LLMMaxTokens
		c.sources["llm_max_tokens"] = "file"
	}
	if file.LLMMaxRetries != 0 {
		c.LLMMaxRetries = file.LLMMaxRetries
		c.sources["llm_max_retries"] = "file"
	}
	if file.LLMRequestTimeout != 0 {
		c.LLMRequestTimeout = file.LLMRequestTimeout
		c.sources["llm_request_timeout"] = "file"
	}
	if file.LLMTemperature != 0 {
		c.LLMTemperature = file.LLMTemperature
		c.sources["llm_temperature"] = "file"
	}
	if file.MaxConcurrentOperations != 0 {
		c.MaxConcurrentOperations = file.MaxConcurrentOperations
		c.sources["max_concurrent_operations"] = "file"
	}
	if len(file.SDDPatterns) > 0 {
		c.SDDPatterns = file.SDDPatterns
		c.sources["sdd_patterns"] = "file"
	}
	if len(file.SRSPatterns) > 0 {
		c.SRSPatterns = file.SRSPatterns
		c.sources["srs_patterns"] = "file"
	}
	if len(file.CodePatterns) > 0 {
		c.CodePatterns = file.CodePatterns
		c.sources["code_patterns"] = "file"
	}
	if file.GitHubAppID != 0 {
		c.GitHubAppID = file.GitHubAppID
		c.sources["github_app_id"] = "file"
	}
	if file.GitHubInstallationID != 0 {
		c.GitHubInstallationID = file.GitHubInstallationID
		c.sources["github_installation_id"] = "file"
	}
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("DOCURECO_LLM_MODEL"); val != "" {
		c.LLMModel = val
		c.sources["llm_model"] = "environment"
	}
	if val := os.Getenv("DOCURECO_LLM_MAX_TOKENS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.LLMMaxTokens = i
			c.sources["llm_max_tokens"] = "environment"
		}
	}
	if val := os.Getenv("DOCURECO_LLM_MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.LLMMaxRetries = i
			c.sources["llm_max_retries"] = "environment"
		}
	}
	if val := os.Getenv("DOCURECO_LLM_REQUEST_TIMEOUT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.LLMRequestTimeout = i
			c.sources["llm_request_timeout"] = "environment"
		}
	}
	if val := os.Getenv("DOCURECO_LLM_TEMPERATURE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.LLMTemperature = f
			c.sources["llm_temperature"] = "environment"
		}
	}
	if val := os.Getenv("DOCURECO_MAX_CONCURRENT_OPERATIONS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.MaxConcurrentOperations = i
			c.sources["max_concurrent_operations"] = "environment"
		}
	}
	if val := os.Getenv("DOCURECO_SDD_PATTERNS"); val != "" {
		c.SDDPatterns = splitAndTrim(val)
		c.sources["sdd_patterns"] = "environment"
	}
	if val := os.Getenv("DOCURECO_SRS_PATTERNS"); val != "" {
		c.SRSPatterns = splitAndTrim(val)
		c.sources["srs_patterns"] = "environment"
	}
	if val := os.Getenv("DOCURECO_CODE_PATTERNS"); val != "" {
		c.CodePatterns = splitAndTrim(val)
		c.sources["code_patterns"] = "environment"
	}
	if val := os.Getenv("DOCURECO_GITHUB_APP_ID"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.GitHubAppID = i
			c.sources["github_app_id"] = "environment"
		}
	}
	if val := os.Getenv("DOCURECO_GITHUB_INSTALLATION_ID"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.GitHubInstallationID = i
			c.sources["github_installation_id"] = "environment"
		}
	}
	if val := os.Getenv("DOCURECO_BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("DOCURECO_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// RequestTimeout returns the LLM request timeout as a duration
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.LLMRequestTimeout) * time.Second
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.MaxConcurrentOperations < 1 {
		return fmt.Errorf("max_concurrent_operations must be at least 1, got %d", c.MaxConcurrentOperations)
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 1 {
		return fmt.Errorf("llm_temperature must be between 0 and 1, got %g", c.LLMTemperature)
	}
	if c.LLMMaxTokens < 1 {
		return fmt.Errorf("llm_max_tokens must be positive, got %d", c.LLMMaxTokens)
	}
	if len(c.SDDPatterns) == 0 || len(c.SRSPatterns) == 0 {
		return fmt.Errorf("sdd_patterns and srs_patterns must not be empty")
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "llm_model", Value: c.LLMModel, Source: c.Source("llm_model")},
		{Name: "llm_max_tokens", Value: strconv.Itoa(c.LLMMaxTokens), Source: c.Source("llm_max_tokens")},
		{Name: "llm_max_retries", Value: strconv.Itoa(c.LLMMaxRetries), Source: c.Source("llm_max_retries")},
		{Name: "llm_request_timeout", Value: strconv.Itoa(c.LLMRequestTimeout), Source: c.Source("llm_request_timeout")},
		{Name: "llm_temperature", Value: strconv.FormatFloat(c.LLMTemperature, 'g', -1, 64), Source: c.Source("llm_temperature")},
		{Name: "max_concurrent_operations", Value: strconv.Itoa(c.MaxConcurrentOperations), Source: c.Source("max_concurrent_operations")},
		{Name: "sdd_patterns", Value: strings.Join(c.SDDPatterns, ","), Source: c.Source("sdd_patterns")},
		{Name: "srs_patterns", Value: strings.Join(c.SRSPatterns, ","), Source: c.Source("srs_patterns")},
		{Name: "code_patterns", Value: strings.Join(c.CodePatterns, ","), Source: c.Source("code_patterns")},
		{Name: "github_app_id", Value: strconv.FormatInt(c.GitHubAppID, 10), Source: c.Source("github_app_id")},
		{Name: "github_installation_id", Value: strconv.FormatInt(c.GitHubInstallationID, 10), Source: c.Source("github_installation_id")},
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-50s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-50s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" || value == "0" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-50s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
