package constraint

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

type tenantFile struct {
	Tenants map[string][]struct {
		Code       string                 `yaml:"code"`
		Enabled    *bool                  `yaml:"enabled"`
		Weight     *int                   `yaml:"weight"`
		Parameters map[string]interface{} `yaml:"parameters"`
	} `yaml:"tenants"`
}

// LoadTenantConfigs reads tenant constraint bindings from a YAML file of the
// form:
//
//	tenants:
//	  grand-hotel:
//	    - code: VIEW_PREFERENCE
//	      weight: 20
//	    - code: QUIET_LOCATION
//	      parameters: {max_noisy_floor: 3}
//
// Omitted enabled flags default to true.
func LoadTenantConfigs(path string) ([]*store.TenantConstraintConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tenant constraints: %w", err)
	}
	var f tenantFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tenant constraints: %w", err)
	}

	tenants := make([]string, 0, len(f.Tenants))
	for t := range f.Tenants {
		tenants = append(tenants, t)
	}
	sort.Strings(tenants)

	var out []*store.TenantConstraintConfig
	for _, tenant := range tenants {
		for _, b := range f.Tenants[tenant] {
			if b.Code == "" {
				return nil, fmt.Errorf("tenant %s: constraint code required", tenant)
			}
			enabled := true
			if b.Enabled != nil {
				enabled = *b.Enabled
			}
			out = append(out, &store.TenantConstraintConfig{
				TenantID:     tenant,
				TemplateCode: b.Code,
				Enabled:      enabled,
				Weight:       b.Weight,
				Parameters:   b.Parameters,
			})
		}
	}
	return out, nil
}
