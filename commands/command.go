package commands

import (
	"flag"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/uhppoted/uhppoted-app-sheetview/config"
	"github.com/uhppoted/uhppoted-app-sheetview/logging"
)

const APP = "uhppoted-app-sheetview"

const VERSION = "v0.8.11"

const (
	SHEETS = "https://www.googleapis.com/auth/spreadsheets"
	DRIVE  = "https://www.googleapis.com/auth/drive"
)

type Options struct {
	Debug bool
}

type command struct {
	env   string
	debug bool
}

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.env, "env", c.env, "Environment file with the sheetview configuration")

	return flagset
}

// configure loads the configuration and replaces the global logger with one built from it.
func (c *command) configure(options *Options) (*config.Config, *zap.Logger, error) {
	c.debug = options.Debug

	conf, err := config.Load(c.env)
	if err != nil {
		return nil, nil, fmt.Errorf("could not load configuration (%w)", err)
	}

	logger, err := logging.New(logging.Options{
		Level: conf.Log.Level,
		File:  conf.Log.File,
		Debug: c.debug,
	})
	if err != nil {
		return nil, nil, err
	}

	zap.ReplaceGlobals(logger)

	return conf, logger, nil
}

// spreadsheetID extracts the spreadsheet ID from a Google Sheets URL. Anything that is not a
// URL is assumed to be the ID.
func spreadsheetID(v string) string {
	s := strings.TrimSpace(v)
	if match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(s); len(match) > 1 {
		return match[1]
	}

	return s
}

func helpOptions(flagset *flag.FlagSet) {
	count := 0
	flagset.VisitAll(func(f *flag.Flag) {
		count++
	})

	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})

	if count > 0 {
		fmt.Println()
	}

	fmt.Println("  Options:")
	flag.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})
}

func debugf(format string, args ...any) {
	zap.S().Debugf(format, args...)
}

func infof(format string, args ...any) {
	zap.S().Infof(format, args...)
}

func warnf(format string, args ...any) {
	zap.S().Warnf(format, args...)
}
