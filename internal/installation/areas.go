package installation

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skillsdesk/skillsdesk/configs"
)

// Area is a named coverage zone.
type Area struct {
	Name         string   `yaml:"name" json:"name"`
	ZipCodes     []string `yaml:"zip_codes" json:"zip_codes"`
	Technologies []string `yaml:"technologies" json:"technologies"`
}

// Availability is the coverage answer for an address.
type Availability struct {
	Address      string   `json:"address"`
	ZipCode      string   `json:"zip_code"`
	AreaType     string   `json:"area_type,omitempty"`
	Technologies []string `json:"available_technologies,omitempty"`
	Available    bool     `json:"service_available"`
	Message      string   `json:"message,omitempty"`
}

// Coverage holds the ordered service areas.
type Coverage struct {
	areas []Area
}

type areasDocument struct {
	ServiceAreas []Area `yaml:"service_areas"`
}

// ParseCoverage decodes the service areas document.
func ParseCoverage(raw []byte) (*Coverage, error) {
	var doc areasDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("installation: decode areas: %w", err)
	}
	return &Coverage{areas: doc.ServiceAreas}, nil
}

// LoadCoverage reads the service areas from dir or the embedded default.
func LoadCoverage(dir string) (*Coverage, error) {
	raw, err := configs.Read(dir, configs.ServiceAreasFile)
	if err != nil {
		return nil, fmt.Errorf("installation: read areas: %w", err)
	}
	return ParseCoverage(raw)
}

// Check reports the first area listing zip.
func (c *Coverage) Check(address, zip string) Availability {
	zip = strings.TrimSpace(zip)
	for _, area := range c.areas {
		if slices.Contains(area.ZipCodes, zip) {
			return Availability{
				Address:      address,
				ZipCode:      zip,
				AreaType:     area.Name,
				Technologies: append([]string(nil), area.Technologies...),
				Available:    true,
			}
		}
	}
	return Availability{
		Address: address,
		ZipCode: zip,
		Message: "Sorry, we do not cover this area yet.",
	}
}
