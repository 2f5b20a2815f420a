// Package config loads runtime configuration for the LandChain CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the LandChain server
//	-t duration   per-request timeout
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "timeout": "10s"
//	}
package config
