// Package configs embeds the default skill documents loaded at startup.
package configs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Documents embeds the default YAML documents.
//
//go:embed *.yaml
var Documents embed.FS

// Document file names.
const (
	WaiverPolicyFile     = "waiver_policy.yaml"
	AppointmentSlotsFile = "appointment_slots.yaml"
	ServiceAreasFile     = "service_areas.yaml"
	RoamingRatesFile     = "roaming_rates.yaml"
	CustomersFile        = "customers.yaml"
)

// Read returns the named document from dir when present there, otherwise the
// embedded default.
func Read(dir, name string) ([]byte, error) {
	if dir != "" {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return Documents.ReadFile(name)
}
