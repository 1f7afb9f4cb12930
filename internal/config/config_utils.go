package config

import (
	"fmt"
	"os"
	"strings"
)

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyAuthFallbacks()
	c.applyObservabilityDefaults()
}

// applyAuthFallbacks resolves the identity token from its file when no
// literal token was configured
func (c *Config) applyAuthFallbacks() {
	if c.Auth.Token == "" && c.Auth.TokenFile != "" {
		if data, err := os.ReadFile(c.Auth.TokenFile); err == nil {
			c.Auth.Token = strings.TrimSpace(string(data))
		}
	}
}

func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}

	// Debug runs get console output unless explicitly configured
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}
