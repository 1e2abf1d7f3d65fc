package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

// Save writes the configuration to path as TOML. The write holds an
// exclusive lock on path+".lock" and replaces the file atomically.
func Save(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return errors.Wrap(err, "refusing to save invalid config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", filepath.Dir(path))
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return errors.Wrapf(err, "failed to lock %s", path)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary config file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "failed to write config")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to write config")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "failed to replace %s", path)
	}
	return nil
}

// ReadFile decodes a TOML config file without consulting viper or the
// environment. Missing fields keep their defaults.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	config := Default()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return config, nil
}
