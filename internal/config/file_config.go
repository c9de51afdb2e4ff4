package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// fileValues mirrors the fiscalflow.toml layout.
type fileValues struct {
	AppName string `toml:"app_name"`
	API     struct {
		URL            string `toml:"url"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
		OIDCIssuer     string `toml:"oidc_issuer"`
		OIDCClientID   string `toml:"oidc_client_id"`
	} `toml:"api"`
	Storage struct {
		CredentialsFile string `toml:"credentials_file"`
	} `toml:"storage"`
}

// fileConfig layers values from a TOML file under the environment:
// a set environment variable always wins over the file.
type fileConfig struct {
	EnvVars
	values fileValues
}

var _ Config = fileConfig{}

// LoadFile reads a fiscalflow.toml and returns a Config that prefers
// environment variables over file values.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "[LoadFile] read config file")
	}
	var values fileValues
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(err, "[LoadFile] parse config file")
	}
	return fileConfig{values: values}, nil
}

func (fc fileConfig) GetAppName() string {
	if v := os.Getenv(appNameEnvVar); v != "" {
		return v
	}
	if fc.values.AppName != "" {
		return fc.values.AppName
	}
	return fc.EnvVars.GetAppName()
}

func (fc fileConfig) GetAPIBaseURL() string {
	if v := os.Getenv(apiURLEnvVar); v != "" {
		return v
	}
	if fc.values.API.URL != "" {
		return fc.values.API.URL
	}
	return fc.EnvVars.GetAPIBaseURL()
}

func (fc fileConfig) GetHTTPTimeoutSeconds() int {
	if v := os.Getenv(httpTimeoutEnvVar); v != "" {
		return fc.EnvVars.GetHTTPTimeoutSeconds()
	}
	if fc.values.API.TimeoutSeconds > 0 {
		return fc.values.API.TimeoutSeconds
	}
	return fc.EnvVars.GetHTTPTimeoutSeconds()
}

func (fc fileConfig) GetOIDCIssuer() string {
	if v := os.Getenv(oidcIssuerEnvVar); v != "" {
		return v
	}
	if fc.values.API.OIDCIssuer != "" {
		return fc.values.API.OIDCIssuer
	}
	return ""
}

func (fc fileConfig) GetOIDCClientID() string {
	if v := os.Getenv(oidcClientEnvVar); v != "" {
		return v
	}
	if fc.values.API.OIDCClientID != "" {
		return fc.values.API.OIDCClientID
	}
	return ""
}

func (fc fileConfig) GetCredentialsFile() string {
	if v := os.Getenv(credsFileEnvVar); v != "" {
		return v
	}
	if fc.values.Storage.CredentialsFile != "" {
		return fc.values.Storage.CredentialsFile
	}
	return fc.EnvVars.GetCredentialsFile()
}
