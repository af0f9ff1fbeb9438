// Package config loads the sheetview configuration from the environment, optionally seeded
// from a dotenv file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SecretKey          = "secret-key"
	Credentials        = "gsheets.credentials"
	Scopes             = "gsheets.scopes"
	Tokens             = "gsheets.tokens"
	WorkbookEasy       = "gsheets.workbooks.easy"
	WorkbookMedium     = "gsheets.workbooks.medium"
	WorkbookHard       = "gsheets.workbooks.hard"
	HTTPBind           = "http.bind"
	HTTPMaxConnections = "http.max-connections"
	LogLevel           = "log.level"
	LogFile            = "log.file"
)

const DefaultScope = "https://www.googleapis.com/auth/spreadsheets.readonly"

var env = map[string]string{
	SecretKey:          "SECRET_KEY",
	Credentials:        "GSHEETS_CREDENTIALS",
	Scopes:             "GSHEETS_SCOPES",
	Tokens:             "GSHEETS_TOKENS",
	WorkbookEasy:       "GSHEETS_WORKBOOK_ID_EASY",
	WorkbookMedium:     "GSHEETS_WORKBOOK_ID_MEDIUM",
	WorkbookHard:       "GSHEETS_WORKBOOK_ID_HARD",
	HTTPBind:           "HTTP_BIND",
	HTTPMaxConnections: "HTTP_MAX_CONNECTIONS",
	LogLevel:           "LOG_LEVEL",
	LogFile:            "LOG_FILE",
}

type Config struct {
	SecretKey   string
	Credentials string
	Scopes      []string
	Tokens      string

	Workbooks struct {
		Easy   string
		Medium string
		Hard   string
	}

	HTTP struct {
		Bind           string
		MaxConnections int
	}

	Log struct {
		Level string
		File  string
	}
}

// Load reads the configuration from the environment after loading the dotenv file (if any)
// into it. A missing dotenv file is not an error and variables already set in the environment
// take precedence over the file.
func Load(file string) (*Config, error) {
	if file != "" {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %v (%w)", file, err)
		}
	}

	v := viper.New()

	v.SetDefault(Scopes, DefaultScope)
	v.SetDefault(HTTPBind, "0.0.0.0:8080")
	v.SetDefault(HTTPMaxConnections, 0)
	v.SetDefault(LogLevel, "info")
	v.SetDefault(LogFile, "")

	for key, variable := range env {
		if err := v.BindEnv(key, variable); err != nil {
			return nil, err
		}
	}

	c := Config{
		SecretKey:   v.GetString(SecretKey),
		Credentials: strings.TrimSpace(v.GetString(Credentials)),
		Scopes:      split(v.GetString(Scopes)),
		Tokens:      strings.TrimSpace(v.GetString(Tokens)),
	}

	c.Workbooks.Easy = v.GetString(WorkbookEasy)
	c.Workbooks.Medium = v.GetString(WorkbookMedium)
	c.Workbooks.Hard = v.GetString(WorkbookHard)

	c.HTTP.Bind = v.GetString(HTTPBind)
	c.HTTP.MaxConnections = v.GetInt(HTTPMaxConnections)

	c.Log.Level = v.GetString(LogLevel)
	c.Log.File = v.GetString(LogFile)

	return &c, nil
}

// Validate returns an error listing every missing required setting.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		key   string
		value string
	}{
		{SecretKey, c.SecretKey},
		{Credentials, c.Credentials},
		{WorkbookEasy, c.Workbooks.Easy},
		{WorkbookMedium, c.Workbooks.Medium},
		{WorkbookHard, c.Workbooks.Hard},
	}

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%v (%v) is not set", r.key, env[r.key]))
		}
	}

	if len(c.Scopes) == 0 {
		errs = append(errs, fmt.Errorf("%v (%v) is empty", Scopes, env[Scopes]))
	}

	if c.HTTP.MaxConnections < 0 {
		errs = append(errs, fmt.Errorf("%v (%v) must not be negative", HTTPMaxConnections, env[HTTPMaxConnections]))
	}

	return errors.Join(errs...)
}

// WorkbookIDs returns the configured workbook IDs in easy, medium, hard order. The IDs are
// returned as configured i.e. untrimmed.
func (c *Config) WorkbookIDs() []string {
	return []string{
		c.Workbooks.Easy,
		c.Workbooks.Medium,
		c.Workbooks.Hard,
	}
}

func split(s string) []string {
	list := []string{}
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}

	return list
}
