package directory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a directory seed file:
//
//	departments:
//	  - name: Engineering
//	    skills: [Go, SQL]
//	    managers:
//	      - {id: m1, name: Alice Johnson}
type File struct {
	Departments []Entry `yaml:"departments"`
}

// LoadFile loads a directory seed file from the given path.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Static provider.
func Parse(data []byte) (*Static, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse directory YAML: %w", err)
	}
	if len(f.Departments) == 0 {
		return nil, fmt.Errorf("directory file lists no departments")
	}

	return NewStatic(f.Departments)
}

// Marshal serializes entries to YAML.
func Marshal(entries []Entry) ([]byte, error) {
	return yaml.Marshal(File{Departments: entries})
}

// WriteFile writes entries to the given path.
func WriteFile(entries []Entry, path string) error {
	data, err := Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write directory file %s: %w", path, err)
	}

	return nil
}
