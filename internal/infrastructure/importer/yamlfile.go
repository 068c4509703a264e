// Package importer reads historical week logs from YAML files.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chronicle-it/chronicle/internal/application/weeklog/dto"
)

type weekFile struct {
	Weeks []dto.ImportWeek `yaml:"weeks"`
}

// Decode reads a document of the form `weeks: [...]`. Unknown keys are
// rejected so that typos do not silently drop data.
func Decode(r io.Reader) ([]dto.ImportWeek, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f weekFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse week log file: %w", err)
	}
	return f.Weeks, nil
}

func DecodeFile(path string) ([]dto.ImportWeek, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
