package resume

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/types"
)

// LoadContentFile reads and validates resume content from a JSON file
func LoadContentFile(path string) (*types.ResumeContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}

	content, err := ValidateContent(data)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("invalid resume content in %s", path),
			Cause:   err,
		}
	}
	return content, nil
}

// LoadDisplayFile reads a display configuration from a JSON file. An empty path yields
// the defaults.
func LoadDisplayFile(path string) (types.DisplayConfig, error) {
	if path == "" {
		return DefaultDisplayConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.DisplayConfig{}, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}
	return ValidateDisplayConfig(data), nil
}
