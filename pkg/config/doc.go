// Package config defines the configuration of a tabula ingestion session.
//
// The configuration is organized into logical sections:
//
// - Source: path, format, delimiter and header handling
// - Loading: whole-file, chunked or auto loading, chunk size, reader backend
// - Output: default destination, format and compression used by the CLI
// - Observability: log level and encoding, metrics, tracing
//
// # Usage
//
//	cfg, err := config.LoadConfig("tabula.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Programmatic creation starts from Default():
//
//	cfg := config.Default()
//	cfg.Source = "data.csv"
//	cfg.ChunkSize = 1 << 20
//
// ## Environment Variable Substitution
//
//	# tabula.yaml
//	source: ${DATA_DIR}/orders.csv
//	output:
//	  path: ${OUT_DIR}/orders.json.zst
//
// Load substitutes ${VAR_NAME} before parsing. The CLI additionally binds
// TABULA_* environment variables and command-line flags through viper.
package config
