// Package config loads the broker's configuration from the environment.
//
// Load first reads dotenv files with godotenv, then decodes each package's
// Config struct with envconfig using the struct tags declared next to it, so
// a package's settings are documented where they are used.
//
// The package also produces the secret-free views of the configuration: a
// [SET]/[NOT SET] presence log written at startup and server.Diagnostics
// for the health endpoint. Secret values never leave this package.
package config
