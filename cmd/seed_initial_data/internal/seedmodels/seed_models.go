package seedmodels

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedAdmin is the bootstrap administrator login.
type SeedAdmin struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// SeedClass defines a class owned by the enclosing teacher.
type SeedClass struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// SeedTeacher defines a teacher account in the YAML seed file.
type SeedTeacher struct {
	Name    string      `yaml:"name"`
	Email   string      `yaml:"email"`
	Phone   string      `yaml:"phone"`
	Classes []SeedClass `yaml:"classes"`
}

// SeedData is the root of the YAML seed file.
type SeedData struct {
	Admin    *SeedAdmin    `yaml:"admin"`
	Teachers []SeedTeacher `yaml:"teachers"`
}

// Load reads and checks a seed file.
func Load(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}
	return &data, nil
}

// Validate reports the first entry missing a required field.
func (d *SeedData) Validate() error {
	if d.Admin != nil && (d.Admin.Username == "" || d.Admin.Password == "") {
		return fmt.Errorf("admin needs a username and a password")
	}
	for i, t := range d.Teachers {
		if t.Name == "" || t.Email == "" {
			return fmt.Errorf("teacher %d needs a name and an email", i)
		}
		for j, c := range t.Classes {
			if c.Name == "" {
				return fmt.Errorf("class %d of teacher %s needs a name", j, t.Email)
			}
		}
	}
	return nil
}
