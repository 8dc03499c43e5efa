// config.go - pmmonitor settings loaded via viper
package main

import (
	"time"

	"github.com/spf13/viper"
)

// settings holds everything pmmonitor needs to pick a data source and
// refresh cadence. Values come from (in increasing priority) built-in
// defaults, a pmmonitor.yaml in the working directory or in
// $HOME/.config/pmmonitor, and
// PMMONITOR_-prefixed environment variables.
type settings struct {
	Device       string
	Baud         int
	PollInterval time.Duration
	NoColor      bool
}

func loadSettings() (settings, error) {
	v := viper.New()
	v.SetDefault("device", "")
	v.SetDefault("baud", 115200)
	v.SetDefault("poll_interval_ms", 500)
	v.SetDefault("no_color", false)

	v.SetConfigName("pmmonitor")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/pmmonitor")
	v.SetEnvPrefix("PMMONITOR")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return settings{}, err
		}
	}

	return settings{
		Device:       v.GetString("device"),
		Baud:         v.GetInt("baud"),
		PollInterval: time.Duration(v.GetInt("poll_interval_ms")) * time.Millisecond,
		NoColor:      v.GetBool("no_color"),
	}, nil
}
