// Package config loads runtime configuration for the couplespace CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file (see parseFile) selected via -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-db string      path of the local journal database
//	-out string     directory exports are written to
//	-z string       timezone of exported timestamps
//	-l string       label locale (zh|en)
//	-a string       address:port of a remote export server
//	-token string   access token for the remote server
//	-timeout int    remote call timeout (seconds)
//	-v string       log level
//
// # File schema
//
//	{
//	  "database_path": "couplespace.db",
//	  "output_dir": "exports",
//	  "timezone": "Asia/Shanghai",
//	  "request_timeout": "30s"
//	}
//
// Note: This package does not read environment variables directly; use the
// file or flags to configure values.
package config
