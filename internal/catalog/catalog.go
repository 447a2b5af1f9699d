// Package catalog holds the bookable services and their static fallback
// prices. The catalog is embedded at build time; it changes with releases,
// not at runtime.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed services.yaml
var embeddedCatalog []byte

// Kind groups services for the selection rules.
type Kind string

const (
	KindPackage    Kind = "package"
	KindIndividual Kind = "individual"
	KindAppraisal  Kind = "appraisal"
)

// AppraisalID is the service that unlocks the appraisal details step.
const AppraisalID = "appraisal"

// Service is one bookable offering.
type Service struct {
	ID          string             `yaml:"id" json:"id"`
	Name        string             `yaml:"name" json:"name"`
	Kind        Kind               `yaml:"kind" json:"kind"`
	Description string             `yaml:"description" json:"description"`
	Prices      map[string]float64 `yaml:"prices" json:"-"`
}

type catalogFile struct {
	Services []Service `yaml:"services"`
}

// Catalog is an immutable, ordered set of services.
type Catalog struct {
	services []Service
	byID     map[string]Service
}

// Default parses the embedded catalog. It panics on a malformed file since
// that can only be a build defect.
func Default() *Catalog {
	c, err := Parse(embeddedCatalog)
	if err != nil {
		panic("catalog: " + err.Error())
	}
	return c
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]Service, len(file.Services))}
	for _, svc := range file.Services {
		svc.ID = strings.TrimSpace(svc.ID)
		if svc.ID == "" {
			return nil, fmt.Errorf("service without id")
		}
		if _, dup := c.byID[svc.ID]; dup {
			return nil, fmt.Errorf("duplicate service id %q", svc.ID)
		}
		switch svc.Kind {
		case KindPackage, KindIndividual, KindAppraisal:
		default:
			return nil, fmt.Errorf("service %q: unknown kind %q", svc.ID, svc.Kind)
		}
		c.services = append(c.services, svc)
		c.byID[svc.ID] = svc
	}
	return c, nil
}

// All returns the services in catalog order.
func (c *Catalog) All() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

// Get returns the service with the given id.
func (c *Catalog) Get(id string) (Service, bool) {
	svc, ok := c.byID[id]
	return svc, ok
}

// Has reports whether id is a known service.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// KindOf returns the kind of id, or "" when unknown.
func (c *Catalog) KindOf(id string) Kind {
	return c.byID[id].Kind
}

// Name returns the display name of id, falling back to the id itself.
func (c *Catalog) Name(id string) string {
	if svc, ok := c.byID[id]; ok && svc.Name != "" {
		return svc.Name
	}
	return id
}

// StaticPrice returns the fallback price of a service in a tier.
func (c *Catalog) StaticPrice(id, tier string) (float64, bool) {
	svc, ok := c.byID[id]
	if !ok {
		return 0, false
	}
	price, ok := svc.Prices[tier]
	return price, ok
}
