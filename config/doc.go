// Package config loads YAML configuration for the outer surfaces (HTTP
// server, examples). The pipeline core takes explicit options; config only
// exists so deployments can tune them without recompiling.
package config
