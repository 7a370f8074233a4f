// Package logging builds the hclog loggers handed to every component.
package logging

import (
	"io"

	"github.com/hashicorp/go-hclog"
)

// New returns a logger named "datasnap" writing to w at the given level.
// Unknown levels fall back to info.
func New(level string, w io.Writer) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:              "datasnap",
		Level:             lvl,
		Output:            w,
		DisableTime:       true,
		IndependentLevels: true,
	})
}
