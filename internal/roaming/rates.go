// Package roaming implements international roaming eligibility, rate lookup
// and activation.
package roaming

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/skillsdesk/skillsdesk/configs"
	"github.com/skillsdesk/skillsdesk/internal/shared"
)

// DefaultPackage is used when the caller names none.
const DefaultPackage = "weekly_pass"

const unknownNetwork = "3G/4G"

var unknownMultiplier = decimal.RequireFromString("1.5")

// Package is a purchasable roaming bundle.
type Package struct {
	Name         string          `yaml:"name" json:"name"`
	BasePrice    decimal.Decimal `yaml:"base_price" json:"base_price"`
	DurationDays int             `yaml:"duration_days" json:"duration_days"`
	DataGB       int             `yaml:"data_gb" json:"data_gb"`
}

// CountryRate adjusts package prices for a destination.
type CountryRate struct {
	Name            string          `yaml:"name" json:"name"`
	PriceMultiplier decimal.Decimal `yaml:"price_multiplier" json:"price_multiplier"`
	NetworkQuality  string          `yaml:"network_quality" json:"network_quality"`
}

// Quote is a priced package for a destination.
type Quote struct {
	Destination    string          `json:"destination"`
	CountryCode    string          `json:"country_code"`
	PackageType    string          `json:"package_type"`
	Package        string          `json:"package"`
	DurationDays   int             `json:"duration_days"`
	DataGB         int             `json:"data_gb"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	NetworkQuality string          `json:"network_quality"`
}

// RestrictedError reports a destination where roaming is unavailable.
type RestrictedError struct {
	Destination string
}

func (e *RestrictedError) Error() string {
	return fmt.Sprintf("Roaming is not available in %s.", e.Destination)
}

// Unwrap lets errors.Is match shared.ErrPolicyViolation.
func (e *RestrictedError) Unwrap() error { return shared.ErrPolicyViolation }

// RateTable is the immutable roaming price document.
type RateTable struct {
	Packages     map[string]Package     `yaml:"roaming_packages"`
	Countries    map[string]CountryRate `yaml:"country_rates"`
	Restricted   []string               `yaml:"restricted_countries"`
	CountryCodes map[string]string      `yaml:"country_codes"`
}

// ParseRates decodes the roaming rates document.
func ParseRates(raw []byte) (*RateTable, error) {
	var t RateTable
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("roaming: decode rates: %w", err)
	}
	if len(t.Packages) == 0 {
		return nil, fmt.Errorf("roaming: rates document has no packages")
	}
	for key, p := range t.Packages {
		if p.BasePrice.IsNegative() {
			return nil, fmt.Errorf("roaming: package %s has negative price", key)
		}
	}
	return &t, nil
}

// LoadRates reads the rates document from dir or the embedded default.
func LoadRates(dir string) (*RateTable, error) {
	raw, err := configs.Read(dir, configs.RoamingRatesFile)
	if err != nil {
		return nil, fmt.Errorf("roaming: read rates: %w", err)
	}
	return ParseRates(raw)
}

// PackageTypes lists the package keys in sorted order.
func (t *RateTable) PackageTypes() []string {
	keys := make([]string, 0, len(t.Packages))
	for k := range t.Packages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// countryCode accepts an ISO code or a full country name.
func (t *RateTable) countryCode(destination string) string {
	code := strings.ToUpper(destination)
	if len(code) > 2 {
		if mapped, ok := t.CountryCodes[destination]; ok {
			return mapped
		}
		for name, mapped := range t.CountryCodes {
			if strings.EqualFold(name, destination) {
				return mapped
			}
		}
	}
	return code
}

// Quote prices a package for a destination. Unknown countries get a
// surcharge multiplier instead of an error.
func (t *RateTable) Quote(destination, packageType string) (Quote, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return Quote{}, shared.NewValidation("destination", "is required")
	}
	if packageType == "" {
		packageType = DefaultPackage
	}
	code := t.countryCode(destination)
	if slices.Contains(t.Restricted, code) {
		return Quote{}, &RestrictedError{Destination: destination}
	}
	country, ok := t.Countries[code]
	if !ok {
		country = CountryRate{Name: destination, PriceMultiplier: unknownMultiplier, NetworkQuality: unknownNetwork}
	}
	pkg, ok := t.Packages[packageType]
	if !ok {
		return Quote{}, shared.NewValidation("package_type",
			fmt.Sprintf("unknown package %q, options: %s", packageType, strings.Join(t.PackageTypes(), ", ")))
	}
	return Quote{
		Destination:    country.Name,
		CountryCode:    code,
		PackageType:    packageType,
		Package:        pkg.Name,
		DurationDays:   pkg.DurationDays,
		DataGB:         pkg.DataGB,
		TotalPrice:     pkg.BasePrice.Mul(country.PriceMultiplier).Round(2),
		NetworkQuality: country.NetworkQuality,
	}, nil
}
