// Package config loads environment-backed configuration structs for the
// notification pipeline.
//
// Configuration structs declare their variables with `env` tags; a .env file
// in the working directory is loaded once, transparently, before the first
// parse.
//
// # Usage
//
//	type Config struct {
//	    RedisURL string `env:"NOTIFY_REDIS_URL,required"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
package config
