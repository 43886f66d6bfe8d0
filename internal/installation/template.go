// Package installation implements broadband installation booking: service
// availability, open slot listing and the appointment lifecycle.
package installation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/skillsdesk/skillsdesk/configs"
	"github.com/skillsdesk/skillsdesk/internal/shared"
)

// Plan is a service plan with its installation fee.
type Plan struct {
	Name       string          `yaml:"name" json:"name"`
	InstallFee decimal.Decimal `yaml:"install_fee" json:"install_fee"`
}

// Catalog is the ordered plan list. Document order drives fuzzy resolution.
type Catalog struct {
	plans []Plan
}

// NewCatalog validates plans and keeps their order.
func NewCatalog(plans []Plan) (*Catalog, error) {
	seen := make(map[string]struct{}, len(plans))
	for _, p := range plans {
		if strings.TrimSpace(p.Name) == "" {
			return nil, errors.New("installation: plan name required")
		}
		if p.InstallFee.IsNegative() {
			return nil, fmt.Errorf("installation: plan %s has negative install fee", p.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("installation: duplicate plan %s", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	out := make([]Plan, len(plans))
	copy(out, plans)
	return &Catalog{plans: out}, nil
}

// Plans returns the catalog in document order.
func (c *Catalog) Plans() []Plan {
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// Resolve finds a plan by exact name, then by the first case-insensitive
// substring match in catalog order.
func (c *Catalog) Resolve(name string) (Plan, error) {
	for _, p := range c.plans {
		if p.Name == name {
			return p, nil
		}
	}
	needle := strings.TrimSpace(name)
	if needle != "" {
		fold := cases.Fold()
		needle = fold.String(needle)
		for _, p := range c.plans {
			if strings.Contains(fold.String(p.Name), needle) {
				return p, nil
			}
		}
	}
	return Plan{}, &shared.PlanNotFoundError{Plan: name}
}

// Template maps English weekday names to ordered window labels.
type Template struct {
	windows map[string][]string
}

// NewTemplate validates weekday keys.
func NewTemplate(windows map[string][]string) (*Template, error) {
	known := make(map[string]struct{}, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		known[d.String()] = struct{}{}
	}
	out := make(map[string][]string, len(windows))
	for day, labels := range windows {
		if _, ok := known[day]; !ok {
			return nil, fmt.Errorf("installation: unknown weekday %q in slot template", day)
		}
		out[day] = append([]string(nil), labels...)
	}
	return &Template{windows: out}, nil
}

// Windows returns the labels for a weekday, nil when the day has none.
func (t *Template) Windows(day time.Weekday) []string {
	return t.windows[day.String()]
}

type slotsDocument struct {
	AvailableSlots map[string][]string `yaml:"available_slots"`
	ServicePlans   []Plan              `yaml:"service_plans"`
}

// ParseSchedule decodes the appointment slots document.
func ParseSchedule(raw []byte) (*Template, *Catalog, error) {
	var doc slotsDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("installation: decode slots: %w", err)
	}
	tmpl, err := NewTemplate(doc.AvailableSlots)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := NewCatalog(doc.ServicePlans)
	if err != nil {
		return nil, nil, err
	}
	return tmpl, catalog, nil
}

// LoadSchedule reads the slots document from dir or the embedded default.
func LoadSchedule(dir string) (*Template, *Catalog, error) {
	raw, err := configs.Read(dir, configs.AppointmentSlotsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("installation: read slots: %w", err)
	}
	return ParseSchedule(raw)
}
