package config

import (
	"fmt"
	"os"
	"strings"

	"cyrus/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds HashiCorp Vault configuration
type VaultConfig struct {
	Enabled   bool         `mapstructure:"enabled"`
	Address   string       `mapstructure:"address"`
	Token     string       `mapstructure:"token"`
	TokenFile string       `mapstructure:"tokenFile"`
	Namespace string       `mapstructure:"namespace"`
	Secrets   VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets holds the KV v2 paths for secrets the client consumes
type VaultSecrets struct {
	APIKey        string `mapstructure:"apiKey"`        // Path to the service API key
	IdentityToken string `mapstructure:"identityToken"` // Path to the provider-issued identity token
}

// VaultClient wraps the Vault API client with application configuration
type VaultClient struct {
	client *api.Client
	config VaultConfig
	logger *errors.Logger
}

// NewVaultClient creates a new Vault client from the provided configuration
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !config.Enabled {
		return nil, nil
	}

	if config.Address == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Vault address is required when Vault is enabled", nil)
	}

	apiConfig := api.DefaultConfig()
	apiConfig.Address = config.Address

	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Failed to create Vault client", err)
	}

	token, err := resolveVaultToken(config)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	logger.Debug("Vault client initialized", "address", config.Address, "namespace", config.Namespace)

	return &VaultClient{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// resolveVaultToken resolves the Vault token from config, file, or environment
func resolveVaultToken(config VaultConfig) (string, error) {
	if config.Token != "" {
		return config.Token, nil
	}

	if config.TokenFile != "" {
		data, err := os.ReadFile(config.TokenFile)
		if err != nil {
			return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("Failed to read Vault token file: %s", config.TokenFile), err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if token := os.Getenv("VAULT_TOKEN"); token != "" {
		return token, nil
	}

	return "", errors.NewConfigError(errors.ErrCodeMissingToken,
		"No Vault token available (set vault.token, vault.tokenFile, or VAULT_TOKEN)", nil)
}

// GetStringSecret reads a single string value from a KV v2 secret path
func (vc *VaultClient) GetStringSecret(path, key string) (string, error) {
	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Failed to read Vault secret at %s", path), err)
	}

	if secret == nil || secret.Data == nil {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("No secret found at Vault path %s", path), nil)
	}

	// KV v2 wraps the payload in a "data" map
	data := secret.Data
	if nested, ok := secret.Data["data"].(map[string]any); ok {
		data = nested
	}

	value, ok := data[key].(string)
	if !ok || value == "" {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Key %q not found in Vault secret at %s", key, path), nil)
	}

	return value, nil
}

// ApplyVaultSecrets loads secrets from Vault and applies them to the config.
// Vault values take precedence over file and environment values.
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	if !config.Vault.Enabled {
		return nil
	}

	client, err := NewVaultClient(config.Vault, logger)
	if err != nil {
		return err
	}

	if path := config.Vault.Secrets.APIKey; path != "" {
		key, err := client.GetStringSecret(path, "apiKey")
		if err != nil {
			return err
		}
		config.API.APIKey = key
		logger.Info("Loaded service API key from Vault", "path", path)
	}

	if path := config.Vault.Secrets.IdentityToken; path != "" {
		token, err := client.GetStringSecret(path, "token")
		if err != nil {
			return err
		}
		config.Auth.Token = token
		logger.Info("Loaded identity token from Vault", "path", path)
	}

	return nil
}
