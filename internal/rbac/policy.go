package rbac

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var defaultPolicyYAML []byte

type Policy struct {
	Inherits []struct {
		Role   string `yaml:"role"`
		Parent string `yaml:"parent"`
	} `yaml:"inherits"`
	Permissions map[string][]string `yaml:"permissions"`
}

func DefaultPolicy() (Policy, error) {
	return ParsePolicy(defaultPolicyYAML)
}

func ParsePolicy(data []byte) (Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parse rbac policy: %w", err)
	}
	return p, nil
}

// Rows flattens the policy into table rows in a stable order.
func (p Policy) Rows() ([]RolePermission, []RoleInheritance, error) {
	roles := make([]string, 0, len(p.Permissions))
	for role := range p.Permissions {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	var perms []RolePermission
	for _, role := range roles {
		for _, entry := range p.Permissions[role] {
			resource, action, ok := strings.Cut(entry, ":")
			if !ok || resource == "" || action == "" {
				return nil, nil, fmt.Errorf("invalid permission %q for role %s", entry, role)
			}
			perms = append(perms, RolePermission{Role: role, Resource: resource, Action: action})
		}
	}

	inherits := make([]RoleInheritance, 0, len(p.Inherits))
	for _, in := range p.Inherits {
		inherits = append(inherits, RoleInheritance{Role: in.Role, Parent: in.Parent})
	}
	return perms, inherits, nil
}
