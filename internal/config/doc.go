// Package config loads, normalizes, and validates relpub's TOML
// configuration. Defaults are enumerated as named constants; deprecated
// forms are accepted only through a compatibility shim at load time.
package config
