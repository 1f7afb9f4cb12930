package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// API Configuration - Global defaults
	v.SetDefault("api.baseURL", "")
	v.SetDefault("api.timeout", 60*time.Second)
	v.SetDefault("api.apiKey", "")

	// API Configuration - Upload operation defaults
	v.SetDefault("api.upload.timeout", 120*time.Second) // PDF parsing is the slowest call

	// API Configuration - Generate operation defaults
	v.SetDefault("api.generate.timeout", 90*time.Second)

	// API Configuration - Rewrite operation defaults
	v.SetDefault("api.rewrite.timeout", 60*time.Second)

	// API Configuration - History operation defaults
	v.SetDefault("api.history.timeout", 30*time.Second)

	// API Configuration - Career-prep operation defaults
	v.SetDefault("api.prep.timeout", 90*time.Second)

	// Circuit Breaker Configuration defaults for all operations
	for _, op := range []string{"upload", "generate", "rewrite", "history", "prep"} {
		v.SetDefault("api."+op+".maxRetries", 2)
		v.SetDefault("api."+op+".circuitBreaker.enabled", true)
		v.SetDefault("api."+op+".circuitBreaker.maxRequests", 3)
		v.SetDefault("api."+op+".circuitBreaker.interval", 60*time.Second)
		v.SetDefault("api."+op+".circuitBreaker.timeout", 60*time.Second)
		v.SetDefault("api."+op+".circuitBreaker.minRequests", 3)
		v.SetDefault("api."+op+".circuitBreaker.failureThreshold", 0.6)
	}

	// Rate limiting defaults (client-side pacing of rewrite bursts)
	v.SetDefault("api.rateLimit.enabled", true)
	v.SetDefault("api.rateLimit.requestsPerMin", 30)
	v.SetDefault("api.rateLimit.burstCapacity", 10)
	v.SetDefault("api.rateLimit.window", time.Minute)

	// Auth Configuration
	v.SetDefault("auth.token", "")
	v.SetDefault("auth.tokenFile", "")
	v.SetDefault("auth.userID", "")
	v.SetDefault("auth.watch.enabled", false)
	v.SetDefault("auth.watch.debounceDelay", time.Second)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "text")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxUploadSize", 10*1024*1024) // 10 MiB, matching the service limit

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKey", "")
	v.SetDefault("vault.secrets.identityToken", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "cyrus")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	// Tracing Configuration
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	// Metrics Configuration
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	// Custom Metrics Configuration
	v.SetDefault("observability.customMetrics.apiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.apiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.businessMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackSuccessRates", true)

	// Console Configuration
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", false)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	// OTLP Configuration
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}
