package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadAndParseYaml loads the YAML file into environment variables and then
// fills cfg from `env`/`default` struct tags.
func LoadAndParseYaml(filepath string, cfg any) error {
	if err := LoadYamlFile(filepath); err != nil {
		return err
	}
	return ParseEnv(cfg)
}

// LoadYamlFile reads a flat-ish YAML file and exports its values as environment
// variables. Nested sections become underscore-joined upper-case prefixes, so
//
//	database:
//	  host: localhost
//
// becomes DATABASE_HOST=localhost. Values of the form ${VAR:-default} are
// substituted from the environment. Variables already set are not overridden.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	prefixStack := []string{}
	previousIndent := 0

	for scanner.Scan() {
		line := scanner.Text()

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		indent := 0
		for _, ch := range line {
			if ch != ' ' {
				break
			}
			indent++
		}

		if indent < previousIndent {
			levelsToPop := (previousIndent - indent) / 2
			for i := 0; i < levelsToPop && len(prefixStack) > 0; i++ {
				prefixStack = prefixStack[:len(prefixStack)-1]
			}
		}
		previousIndent = indent

		// Section header: "database:" with no value after the colon.
		if strings.HasSuffix(trimmed, ":") && !strings.Contains(trimmed, ": ") {
			prefixStack = append(prefixStack, strings.TrimSuffix(trimmed, ":"))
			continue
		}

		parts := strings.SplitN(trimmed, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if value == "" {
			continue
		}
		value = strings.Trim(value, `"'`)
		value = substituteEnv(value)

		fullKey := strings.ToUpper(key)
		if len(prefixStack) > 0 {
			fullKey = strings.ToUpper(strings.Join(append(prefixStack, key), "_"))
		}

		if os.Getenv(fullKey) == "" {
			if err := os.Setenv(fullKey, value); err != nil {
				return fmt.Errorf("could not set env var %s: %w", fullKey, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading YAML file: %w", err)
	}

	return nil
}

// substituteEnv resolves ${VAR:-default} syntax against the environment.
func substituteEnv(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	inner := value[2 : len(value)-1]
	name, def, found := strings.Cut(inner, ":-")
	if !found {
		if env := os.Getenv(strings.TrimSpace(inner)); env != "" {
			return env
		}
		return value
	}

	if env := os.Getenv(strings.TrimSpace(name)); env != "" {
		return env
	}
	return strings.TrimSpace(def)
}
