package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file leaves fields empty.
const (
	DefaultPrefix   = "lernapp:"
	DefaultCapacity = 5 * 1024 * 1024 // mirrors a browser storage quota
)

type Config struct {
	Storage struct {
		RedisAddr     string `yaml:"redisAddr"`
		RedisPassword string `yaml:"redisPassword"`
		RedisDB       int    `yaml:"redisDb"`
		Prefix        string `yaml:"prefix"`
		CapacityBytes int64  `yaml:"capacityBytes"`
	} `yaml:"storage"`
	Content struct {
		Dir         string `yaml:"dir"`
		PostgresURL string `yaml:"postgresUrl"`
	} `yaml:"content"`
	User struct {
		Specialization string `yaml:"specialization"`
	} `yaml:"user"`
}

// Load reads YAML config from path. A missing file yields the zero
// config without error so the app can run on defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg.withDefaults(), nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	if c.Storage.Prefix == "" {
		c.Storage.Prefix = DefaultPrefix
	}
	if c.Storage.CapacityBytes == 0 {
		c.Storage.CapacityBytes = DefaultCapacity
	}
	return c
}
