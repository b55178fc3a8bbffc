// Package logging provides the leveled logger shared by the surface
// pipeline and the external tool adapters.
package logging

import (
	"io"
	"os"

	"github.com/labstack/gommon/log"
)

// Logger is the subset of a leveled logger used by this module.
// *log.Logger from labstack/gommon satisfies it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// New returns a gommon logger writing to w at INFO, or DEBUG when verbose.
func New(prefix string, w io.Writer, verbose bool) *log.Logger {
	l := log.New(prefix)
	l.SetOutput(w)
	l.SetHeader("${time_rfc3339} ${level} ${prefix}")
	if verbose {
		l.SetLevel(log.DEBUG)
	} else {
		l.SetLevel(log.INFO)
	}
	return l
}

// Default returns the logger used when a component is given none.
func Default() Logger {
	return New("molsurf", os.Stderr, false)
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	l := log.New("")
	l.SetOutput(io.Discard)
	l.SetLevel(log.OFF)
	return l
}
