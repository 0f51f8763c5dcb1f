package config

const (
	// EnvPrefix scopes every environment variable read by Load.
	EnvPrefix = "FARMDIRECT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "FARMDIRECT_DB_DSN"
	EnvDBHost = "FARMDIRECT_DB_HOST"
	EnvDBUser = "FARMDIRECT_DB_USER"
	EnvDBName = "FARMDIRECT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
