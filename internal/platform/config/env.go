package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is shared by every variable the binaries read.
const EnvPrefix = "DEPENDENT_"

// ParseEnv fills target from the DEPENDENT_* variables of the process.
func ParseEnv(target any) error {
	return parseEnviron(target, os.Environ())
}

// variables outside EnvPrefix are never visible to target, even when tagged
func parseEnviron(target any, environ []string) error {
	vars := make(map[string]string)
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, EnvPrefix) {
			vars[k] = v
		}
	}

	if err := env.ParseWithOptions(target, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}
