// Package config loads cmd/peg's CLI defaults from built-in defaults, a
// .pego.yaml file, and PEGO_* environment variables, in that order of
// increasing precedence, the way Sumatoshi-tech/codefang's
// internal/config package layers viper.
package config

// Config holds every setting cmd/peg's subcommands read instead of
// re-deriving from flags every time.
type Config struct {
	Color       bool   `mapstructure:"color"`
	StartRule   string `mapstructure:"start_rule"`
	MetricsAddr string `mapstructure:"metrics_addr"`
	HistoryFile string `mapstructure:"history_file"`
}
