package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/carpool-organizer/pkg/core/assign"
	"github.com/jakechorley/carpool-organizer/pkg/core/constraints"
	"github.com/jakechorley/carpool-organizer/pkg/core/model"
)

// FieldConfig describes one column of the people sheet
type FieldConfig struct {
	Key     string   `yaml:"key" validate:"required"`
	Label   string   `yaml:"label" validate:"required"`
	Type    string   `yaml:"type" validate:"required,oneof=text number select checkbox"`
	Multi   bool     `yaml:"multi,omitempty"`
	Options []string `yaml:"options,omitempty"`
}

// SizeCapConfig controls where group capacity comes from
type SizeCapConfig struct {
	Enabled bool   `yaml:"enabled"`
	Source  string `yaml:"source,omitempty" validate:"omitempty,oneof=leader group"`
	Field   string `yaml:"field,omitempty"`
	Default *int   `yaml:"default,omitempty" validate:"omitempty,min=0"`
}

// OverlapRuleConfig configures a schedule overlap check
type OverlapRuleConfig struct {
	LeaderKey   string `yaml:"leaderKey" validate:"required"`
	RequiredKey string `yaml:"requiredKey" validate:"required"`
	BackupKey   string `yaml:"backupKey,omitempty"`
	Label       string `yaml:"label,omitempty"`
}

// ClassificationRuleConfig configures a classification match check
type ClassificationRuleConfig struct {
	Key      string `yaml:"key" validate:"required"`
	Sentinel string `yaml:"sentinel,omitempty"`
	Label    string `yaml:"label,omitempty"`
}

// RulesConfig lists the constraint rules checked for every member
type RulesConfig struct {
	Overlap        []OverlapRuleConfig        `yaml:"overlap,omitempty" validate:"dive"`
	Classification []ClassificationRuleConfig `yaml:"classification,omitempty" validate:"dive"`
}

// SmartAssignFilter names an attribute smart assign keeps compatible
type SmartAssignFilter struct {
	Key    string   `yaml:"key" validate:"required"`
	Domain []string `yaml:"domain,omitempty"`
}

// Config represents the application configuration
type Config struct {
	RosterSheetID string `yaml:"rosterSheetID" validate:"required"`
	PeopleTab     string `yaml:"peopleTab" validate:"required"`
	ExportTab     string `yaml:"exportTab" validate:"required"`
	DatabaseURL   string `yaml:"databaseURL" validate:"required"`

	// MemberLabel is the plural noun used in capacity warnings
	MemberLabel string `yaml:"memberLabel,omitempty"`

	Fields        []FieldConfig `yaml:"fields" validate:"required,min=1,dive"`
	IdentityField string        `yaml:"identityField" validate:"required"`
	NameField     string        `yaml:"nameField" validate:"required"`
	LeaderField   string        `yaml:"leaderField" validate:"required"`
	SizeCap       SizeCapConfig `yaml:"sizeCap"`

	Rules              RulesConfig         `yaml:"rules,omitempty"`
	SmartAssignFilters []SmartAssignFilter `yaml:"smartAssignFilters,omitempty" validate:"dive"`
}

// fieldRef is a config setting that must name a configured field
type fieldRef struct {
	name string
	key  string
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from organizer_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix
// For example, env="test" will look for "organizer_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	if err := loadDotEnv(env); err != nil {
		return nil, err
	}

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and the references between fields
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	fields := make(map[string]FieldConfig, len(cfg.Fields))
	for i, f := range cfg.Fields {
		if _, dup := fields[f.Key]; dup {
			return fmt.Errorf("duplicate field key in fields[%d]: %s", i, f.Key)
		}
		if f.Type == string(model.FieldSelect) && len(f.Options) == 0 {
			return fmt.Errorf("select field %s needs options", f.Key)
		}
		fields[f.Key] = f
	}

	refs := []fieldRef{
		{"identityField", cfg.IdentityField},
		{"nameField", cfg.NameField},
		{"leaderField", cfg.LeaderField},
	}
	for i, r := range cfg.Rules.Overlap {
		refs = append(refs,
			fieldRef{fmt.Sprintf("rules.overlap[%d].leaderKey", i), r.LeaderKey},
			fieldRef{fmt.Sprintf("rules.overlap[%d].requiredKey", i), r.RequiredKey},
		)
		if r.BackupKey != "" {
			refs = append(refs, fieldRef{fmt.Sprintf("rules.overlap[%d].backupKey", i), r.BackupKey})
		}
	}
	for i, r := range cfg.Rules.Classification {
		refs = append(refs, fieldRef{fmt.Sprintf("rules.classification[%d].key", i), r.Key})
	}
	for i, f := range cfg.SmartAssignFilters {
		refs = append(refs, fieldRef{fmt.Sprintf("smartAssignFilters[%d].key", i), f.Key})
	}

	for _, r := range refs {
		if _, ok := fields[r.key]; !ok {
			return fmt.Errorf("%s refers to unknown field: %s", r.name, r.key)
		}
	}

	if leader := fields[cfg.LeaderField]; leader.Type != string(model.FieldCheckbox) {
		return fmt.Errorf("leaderField %s must be a checkbox field", cfg.LeaderField)
	}

	if cfg.SizeCap.Enabled {
		if cfg.SizeCap.Source == "" {
			return fmt.Errorf("sizeCap.source is required when sizeCap is enabled")
		}
		if cfg.SizeCap.Source == string(model.SizeFromLeader) {
			f, ok := fields[cfg.SizeCap.Field]
			if !ok {
				return fmt.Errorf("sizeCap.field must name a field when source is leader")
			}
			if f.Type != string(model.FieldNumber) {
				return fmt.Errorf("sizeCap.field %s must be a number field", f.Key)
			}
		}
	}

	return nil
}

// Schema converts the field settings into the model schema
func (c *Config) Schema() model.Schema {
	fields := make([]model.Field, len(c.Fields))
	for i, f := range c.Fields {
		fields[i] = model.Field{
			Key:     f.Key,
			Label:   f.Label,
			Type:    model.FieldType(f.Type),
			Multi:   f.Multi,
			Options: f.Options,
		}
	}

	return model.Schema{
		Fields:        fields,
		IdentityField: c.IdentityField,
		NameField:     c.NameField,
		LeaderField:   c.LeaderField,
		SizeCap: model.SizeCap{
			Enabled: c.SizeCap.Enabled,
			Source:  model.SizeSource(c.SizeCap.Source),
			Field:   c.SizeCap.Field,
			Default: c.SizeCap.Default,
		},
	}
}

// Evaluator builds the constraint evaluator for the configured rules
func (c *Config) Evaluator() *constraints.Evaluator {
	var rules []constraints.Rule
	for _, r := range c.Rules.Overlap {
		rules = append(rules, constraints.OverlapRule{
			LeaderKey:   r.LeaderKey,
			RequiredKey: r.RequiredKey,
			BackupKey:   r.BackupKey,
			Label:       r.Label,
		})
	}
	for _, r := range c.Rules.Classification {
		rules = append(rules, constraints.ClassificationRule{
			Key:      r.Key,
			Sentinel: r.Sentinel,
			Label:    r.Label,
		})
	}
	return constraints.NewEvaluator(c.MemberLabel, rules...)
}

// Filters returns the smart assign filters. A filter without a domain falls
// back to the options of its select field.
func (c *Config) Filters() []assign.Filter {
	schema := c.Schema()
	filters := make([]assign.Filter, len(c.SmartAssignFilters))
	for i, f := range c.SmartAssignFilters {
		domain := f.Domain
		if len(domain) == 0 {
			if field, ok := schema.Field(f.Key); ok {
				domain = field.Options
			}
		}
		filters[i] = assign.Filter{Key: f.Key, Domain: domain}
	}
	return filters
}

// findConfigFile searches for organizer_config.yaml in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "organizer_config.test.yaml")
func findConfigFile(env string) (string, error) {
	name := "organizer_config.yaml"
	if env = strings.TrimSpace(env); env != "" {
		name = "organizer_config." + env + ".yaml"
	}
	return findInCwdOrHome(name)
}
