package githubauth

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

const (
	environmentFileReadErrorTemplateConstant = "unable to read environment file %s: %w"
)

// LoadEnvironmentFile parses a dotenv file into a key/value map.
// An empty path or a file that does not exist yields an empty map.
func LoadEnvironmentFile(path string) (map[string]string, error) {
	trimmedPath := strings.TrimSpace(path)
	if len(trimmedPath) == 0 {
		return map[string]string{}, nil
	}

	environment, readError := godotenv.Read(trimmedPath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf(environmentFileReadErrorTemplateConstant, trimmedPath, readError)
	}

	return environment, nil
}
