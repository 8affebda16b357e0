package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store persists rules as a YAML file inside a client workspace.
type Store struct {
	path string
}

// NewStore creates a rule store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads all rules. A missing file is an empty rule set, not an
// error.
func (s *Store) Load() ([]Rule, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}
	return rules, nil
}

// Save writes the full rule set back to disk.
func (s *Store) Save(rules []Rule) error {
	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}
	return nil
}

// Add appends a rule unless an identical pattern/coding combination
// already exists. Returns true when the rule was added.
func (s *Store) Add(rule Rule) (bool, error) {
	rules, err := s.Load()
	if err != nil {
		return false, err
	}
	for _, existing := range rules {
		if existing.Pattern == rule.Pattern &&
			existing.Nominal == rule.Nominal &&
			existing.TaxCode == rule.TaxCode {
			return false, nil
		}
	}
	rules = append(rules, rule)
	if err := s.Save(rules); err != nil {
		return false, err
	}
	return true, nil
}
