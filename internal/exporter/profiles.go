package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Column maps a resolvable field name to the header it is rendered
// under.
type Column struct {
	Field  string `yaml:"field" json:"field"`
	Header string `yaml:"header" json:"header"`
}

// Profile is a named, ordered column layout for an export file.
type Profile struct {
	Name    string   `yaml:"name" json:"name"`
	Columns []Column `yaml:"columns" json:"columns"`
}

// DefaultProfile returns the standard Sage import layout.
func DefaultProfile() Profile {
	return Profile{
		Name: "default",
		Columns: []Column{
			{Field: "transaction_id", Header: "Reference"},
			{Field: "date", Header: "Date"},
			{Field: "description", Header: "Details"},
			{Field: "nominal_code", Header: "Nominal Code"},
			{Field: "tax_code", Header: "Tax Code"},
			{Field: "net_amount", Header: "Net Amount"},
		},
	}
}

// ProfileStore persists export profiles as YAML files in a directory.
type ProfileStore struct {
	dir string
}

// NewProfileStore creates a store rooted at dir.
func NewProfileStore(dir string) *ProfileStore {
	return &ProfileStore{dir: dir}
}

// Load reads a profile by name. A missing "default" profile is created
// on first access; any other missing name is an error.
func (s *ProfileStore) Load(name string) (Profile, error) {
	path := filepath.Join(s.dir, name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && name == DefaultProfile().Name {
			profile := DefaultProfile()
			if err := s.Save(profile); err != nil {
				return Profile{}, err
			}
			return profile, nil
		}
		return Profile{}, fmt.Errorf("failed to read profile %s: %w", name, err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile %s: %w", name, err)
	}
	return profile, nil
}

// Save writes a profile to disk under its name.
func (s *ProfileStore) Save(profile Profile) error {
	data, err := yaml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	path := filepath.Join(s.dir, profile.Name+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// List returns every profile in the store, seeding the default when the
// directory is empty.
func (s *ProfileStore) List() ([]Profile, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.yaml"))
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0, len(matches))
	for _, match := range matches {
		data, err := os.ReadFile(match)
		if err != nil {
			return nil, err
		}
		var profile Profile
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("failed to parse profile %s: %w", match, err)
		}
		profiles = append(profiles, profile)
	}

	if len(profiles) == 0 {
		profile, err := s.Load(DefaultProfile().Name)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}
