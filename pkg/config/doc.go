// Package config loads typed configuration from the environment.
//
// Load parses environment variables into a struct using caarlos0/env tags,
// after reading a .env file once per process with godotenv (a missing file is
// not an error). Structs may also carry go-playground/validator tags, which are
// checked after parsing:
//
//	type Config struct {
//		Addr        string `env:"HTTP_ADDR" envDefault:":8080"`
//		DatabaseURL string `env:"DATABASE_URL,required" validate:"url"`
//		VendorKey   string `env:"VENDOR_API_KEY,required" validate:"min=16"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Each struct type is parsed once; later calls return the cached copy.
// Reset clears the cache, which is mainly useful in tests.
package config
