// Package config loads SDK configuration from the environment or from a
// YAML file.
//
// Environment loading parses variables into tagged structs, reading a .env
// file first when one exists:
//
//	type Settings struct {
//	    Host    string        `env:"LUMENO_HOST" envDefault:"https://app.lumeno.dev"`
//	    APIKey  string        `env:"LUMENO_API_KEY,required"`
//	    Timeout time.Duration `env:"LUMENO_TIMEOUT" envDefault:"10s"`
//	}
//
//	var s Settings
//	if err := config.Load(&s); err != nil {
//	    return err
//	}
//
// File loading parses a YAML document into yaml-tagged structs for
// deployments that configure the SDK alongside the application:
//
//	var s Settings
//	if err := config.LoadFile("lumeno.yaml", &s); err != nil {
//	    return err
//	}
package config
