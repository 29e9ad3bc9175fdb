// Package config provides the configuration model of picgc: database
// connection parameters, the storage directory and files table to reconcile,
// and logging switches. It also locates and loads configuration files and
// applies environment overrides.
package config
