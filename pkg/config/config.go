// Package config reads typed values from the process environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// CSV splits a comma separated list, dropping blanks.
func CSV(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// lookup returns def when key is unset, empty or fails to parse.
func lookup[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func EnvDefault(key, def string) string {
	return lookup(key, def, func(s string) (string, error) { return s, nil })
}

func EnvIntDefault(key string, def int) int {
	return lookup(key, def, strconv.Atoi)
}

func EnvFloatDefault(key string, def float64) float64 {
	return lookup(key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

func EnvBoolDefault(key string, def bool) bool {
	return lookup(key, def, strconv.ParseBool)
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	return lookup(key, def, time.ParseDuration)
}
