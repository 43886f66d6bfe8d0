// Package policy loads the fee-waiver policy document.
package policy

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/skillsdesk/skillsdesk/configs"
)

// Points holds the configurable score weights.
type Points struct {
	TenurePerYear         int `yaml:"tenure_per_year" json:"tenure_per_year"`
	CleanHistory12m       int `yaml:"clean_history_12m" json:"clean_history_12m"`
	PreviousWaiverPenalty int `yaml:"previous_waiver_penalty" json:"previous_waiver_penalty"`
	HardshipValid         int `yaml:"hardship_valid" json:"hardship_valid"`
	HardshipInvalid       int `yaml:"hardship_invalid" json:"hardship_invalid"`
}

// Thresholds are inclusive lower bounds of the waiver tiers.
type Thresholds struct {
	FullWaiverMinScore    int `yaml:"full_waiver_min_score" json:"full_waiver_min_score"`
	PartialWaiverMinScore int `yaml:"partial_waiver_min_score" json:"partial_waiver_min_score"`
}

// Caps bounds a single waiver transaction.
type Caps struct {
	MaxWaiverAmount decimal.Decimal `yaml:"max_waiver_amount" json:"max_waiver_amount"`
}

// Policy is the read-only waiver policy. It is never mutated after Parse.
type Policy struct {
	Version        string     `yaml:"version" json:"version"`
	Points         Points     `yaml:"points" json:"points"`
	Thresholds     Thresholds `yaml:"thresholds" json:"thresholds"`
	Caps           Caps       `yaml:"caps" json:"caps"`
	ValidReasons   []string   `yaml:"valid_reasons" json:"valid_reasons"`
	InvalidReasons []string   `yaml:"invalid_reasons" json:"invalid_reasons"`
}

// ErrThresholdOrder is returned when the full threshold sits below the partial one.
var ErrThresholdOrder = errors.New("policy: full_waiver_min_score must be >= partial_waiver_min_score")

// Validate asserts the invariants the scorer and processor rely on.
func (p *Policy) Validate() error {
	if p == nil {
		return errors.New("policy: nil")
	}
	if p.Thresholds.FullWaiverMinScore < p.Thresholds.PartialWaiverMinScore {
		return ErrThresholdOrder
	}
	if !p.Caps.MaxWaiverAmount.IsPositive() {
		return errors.New("policy: max_waiver_amount must be positive")
	}
	return nil
}

// Parse decodes and validates a YAML (or JSON) policy document.
func Parse(raw []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("policy: decode: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads the policy document from dir, falling back to the embedded default.
func Load(dir string) (*Policy, error) {
	raw, err := configs.Read(dir, configs.WaiverPolicyFile)
	if err != nil {
		return nil, fmt.Errorf("policy: read: %w", err)
	}
	return Parse(raw)
}
