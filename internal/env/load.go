// Package env loads KEY=VALUE files into the process environment and reads the
// viewer's SYMWORLD_* overrides.
package env

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Prefix namespaces the viewer's variables.
const Prefix = "SYMWORLD_"

// Load reads the given file (e.g. ".env") and sets a variable for each KEY=VALUE
// line that is not already set in the environment. Blank lines, # comments and an
// "export " prefix are allowed. A missing file is not an error.
func Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		key, value, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("%s:%d: %w", path, n, err)
		}
	}
	return scanner.Err()
}

func parseLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")
	key, value, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		if q := value[0]; (q == '"' || q == '\'') && value[len(value)-1] == q {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, true
}

// Get returns SYMWORLD_<name> when it is set and not empty.
func Get(name string) (string, bool) {
	v, ok := os.LookupEnv(Prefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
