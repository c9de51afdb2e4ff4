package config

import (
	"os"
	"path/filepath"
	"strconv"
)

const (
	apiURLEnvVar      = "FISCALFLOW_API_URL"
	appNameEnvVar     = "FISCALFLOW_APP_NAME"
	credsFileEnvVar   = "FISCALFLOW_CREDENTIALS_FILE"
	credsKeyEnvVar    = "FISCALFLOW_CREDENTIALS_KEY"
	httpTimeoutEnvVar = "FISCALFLOW_HTTP_TIMEOUT"
	oidcIssuerEnvVar  = "FISCALFLOW_OIDC_ISSUER"
	oidcClientEnvVar  = "FISCALFLOW_OIDC_CLIENT_ID"
)

type EnvVars struct{}

var _ Config = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameEnvVar, "FiscalFlow")
}

func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiURLEnvVar, "https://api.fiscalflow.app/api")
}

func (EnvVars) GetHTTPTimeoutSeconds() int {
	timeout := GetEnv(httpTimeoutEnvVar, "15")
	seconds, err := strconv.Atoi(timeout)
	if err != nil || seconds <= 0 {
		return 15
	}
	return seconds
}

// GetOIDCIssuer returns the issuer URL used to verify ID tokens when the
// backend includes one in its token responses. Empty disables verification.
func (EnvVars) GetOIDCIssuer() string {
	return GetEnv(oidcIssuerEnvVar, "")
}

func (EnvVars) GetOIDCClientID() string {
	return GetEnv(oidcClientEnvVar, "")
}

func (EnvVars) GetCredentialsFile() string {
	if file := os.Getenv(credsFileEnvVar); file != "" {
		return file
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "credentials.enc"
	}
	return filepath.Join(home, ".fiscalflow", "credentials.enc")
}

func (EnvVars) GetCredentialsKey() string {
	return GetEnv(credsKeyEnvVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
