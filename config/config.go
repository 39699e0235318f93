package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is shared by the trail, the propagators and the command line tool.
type Config struct {
	// Logger receives debug traces of conflicts and prunings.
	Logger logrus.FieldLogger `yaml:"-"`
	// Debug lowers the log level of the default logger to debug.
	Debug bool `yaml:"debug"`
	// CheckInvariants makes propagators verify after every successful call
	// that no propagation is left, panicking otherwise. Slow.
	CheckInvariants bool `yaml:"checkInvariants"`
	// Metrics enables the Prometheus counters.
	Metrics bool `yaml:"metrics"`
}

// File is the layout of a configuration file.
type File struct {
	Propagation Config `yaml:"propagation"`
}

// New returns the default configuration, logging to stderr at info level.
func New() *Config {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	return &Config{
		Logger: logger,
	}
}

// Load reads a configuration file. Environment variables in path are
// expanded.
func Load(path string) (*Config, error) {
	d, err := os.ReadFile(os.ExpandEnv(path))
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	var f File
	if err := yaml.Unmarshal(d, &f); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	c := New()
	c.Debug = f.Propagation.Debug
	c.CheckInvariants = f.Propagation.CheckInvariants
	c.Metrics = f.Propagation.Metrics

	if c.Debug {
		c.Logger.(*logrus.Logger).SetLevel(logrus.DebugLevel)
	}
	return c, nil
}

// Quiet returns a configuration whose logger discards everything, for tests
// and benchmarks.
func Quiet() *Config {
	c := New()
	c.Logger.(*logrus.Logger).SetLevel(logrus.PanicLevel)

	return c
}
