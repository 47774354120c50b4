package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; the first one found is loaded
var envFiles = []string{".env", "../.env", "../../.env"}

// LoadEnv loads the first .env file found in the current or a parent
// directory. Variables already set in the environment are left alone. A
// missing file is not an error.
func LoadEnv() (string, error) {
	for _, path := range envFiles {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return "", fmt.Errorf("config: loading %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}
