// Package config resolves the service endpoint and API key from flags, the
// environment and an optional YAML file.
package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/nojima/tinycache-go/exchange"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const (
	EnvAPIKey = "TINYCACHE_API_KEY"
	EnvURL    = "TINYCACHE_URL"
)

// File is the content of config.yml.
type File struct {
	APIKey string `yaml:"api_key"`
	URL    string `yaml:"url"`
}

// Overrides are values given on the command line. They win over everything
// else.
type Overrides struct {
	APIKey string
	URL    string
}

// DefaultPath returns $XDG_CONFIG_HOME/tinycache/config.yml, falling back to
// ~/.config. It returns "" when no home directory is known.
func DefaultPath(getenv func(string) string) string {
	dir := getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home := getenv("HOME")
		if home == "" {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "tinycache", "config.yml")
}

// Load reads the config file at path. A missing file yields an empty File
// unless mustExist is set.
func Load(path string, mustExist bool) (*File, error) {
	f := &File{}
	if path == "" {
		return f, nil
	}
	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) && !mustExist {
		logrus.WithField("path", path).Debug("no config file")
		return f, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file '%s'", path)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, errors.Wrapf(err, "parsing config file '%s'", path)
	}
	logrus.WithField("path", path).Debug("loaded config file")
	return f, nil
}

// Resolve merges the sources. Precedence: overrides, environment, file, then
// the default endpoint.
func Resolve(overrides Overrides, getenv func(string) string, file *File) *exchange.Config {
	if file == nil {
		file = &File{}
	}
	c := &exchange.Config{
		APIKey:  firstNonEmpty("api key", overrides.APIKey, getenv(EnvAPIKey), file.APIKey),
		BaseURL: firstNonEmpty("url", overrides.URL, getenv(EnvURL), file.URL),
	}
	if c.BaseURL == "" {
		c.BaseURL = exchange.DefaultBaseURL
	}
	return c
}

var sourceNames = []string{"flag", "environment", "config file"}

func firstNonEmpty(name string, values ...string) string {
	for i, v := range values {
		if v != "" {
			logrus.WithField("source", sourceNames[i]).Debugf("%s resolved", name)
			return v
		}
	}
	return ""
}
