package config

type Config interface {
	ClientConfig
	StorageConfig
}

type ClientConfig interface {
	GetAppName() string
	GetAPIBaseURL() string
	GetHTTPTimeoutSeconds() int
	GetOIDCIssuer() string
	GetOIDCClientID() string
}

type StorageConfig interface {
	GetCredentialsFile() string
	GetCredentialsKey() string
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
