package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/uploader"
	"github.com/dmitrymomot/uploader/internal/httpapi"
	"github.com/dmitrymomot/uploader/internal/relay"
	"github.com/dmitrymomot/uploader/internal/tracker"
	"github.com/dmitrymomot/uploader/pkg/logger"
	"github.com/dmitrymomot/uploader/pkg/storage"
)

// Storage drivers.
const (
	DriverS3     = "s3"
	DriverMemory = "memory"
)

var errUnknownDriver = errors.New("unknown storage driver")

// Config is the full command configuration. Values come from the defaults
// below, then the YAML file, then the environment.
type Config struct {
	Upload  uploader.Options     `yaml:"upload"`
	Storage StorageConfig        `yaml:"storage"`
	HTTP    httpapi.ServerConfig `yaml:"http"`
	Redis   relay.Config         `yaml:"redis"`
	Tracker tracker.Config       `yaml:"tracker"`
	Log     logger.Config        `yaml:"log"`
}

// StorageConfig selects and configures the storage driver.
type StorageConfig struct {
	// Driver is s3 or memory.
	Driver string `env:"STORAGE_DRIVER" yaml:"driver"`

	// Prefix is prepended to every object key.
	Prefix string `env:"STORAGE_PREFIX" yaml:"prefix"`

	// MemoryURL is the base of URLs returned by the memory driver.
	MemoryURL string `env:"STORAGE_MEMORY_URL" yaml:"memory_url"`

	// MemoryMaxObjects and MemoryTTL bound the memory driver.
	MemoryMaxObjects int           `env:"STORAGE_MEMORY_MAX_OBJECTS" yaml:"memory_max_objects"`
	MemoryTTL        time.Duration `env:"STORAGE_MEMORY_TTL" yaml:"memory_ttl"`

	storage.Config `yaml:",inline"`
}

func defaultConfig() Config {
	return Config{
		Upload: uploader.DefaultOptions(),
		Storage: StorageConfig{
			Driver:           DriverMemory,
			Prefix:           "uploads",
			MemoryURL:        "http://localhost:8080/files",
			MemoryMaxObjects: storage.DefaultMemoryObjects,
			MemoryTTL:        storage.DefaultMemoryTTL,
			Config: storage.Config{
				Region:     storage.DefaultRegion,
				DefaultACL: storage.ACLPublicRead,
			},
		},
		HTTP: httpapi.DefaultServerConfig(),
		Redis: relay.Config{
			Prefix: relay.DefaultPrefix,
		},
		Log: logger.Config{
			Level:  "info",
			Format: "json",
		},
	}
}

// loadConfig layers path (optional) and the environment over the defaults.
// A nil environ reads the process environment.
func loadConfig(path string, environ map[string]string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	switch cfg.Storage.Driver {
	case DriverS3, DriverMemory:
	default:
		return cfg, fmt.Errorf("%w: %q", errUnknownDriver, cfg.Storage.Driver)
	}

	return cfg, nil
}

// openStorage builds the configured storage driver.
func openStorage(cfg StorageConfig) (storage.Storage, error) {
	if cfg.Driver == DriverMemory {
		return storage.NewMemory(cfg.MemoryURL, cfg.DefaultACL,
			storage.WithMaxObjects(cfg.MemoryMaxObjects),
			storage.WithTTL(cfg.MemoryTTL),
		), nil
	}
	s, err := storage.New(cfg.Config)
	if err != nil {
		return nil, fmt.Errorf("open s3 storage: %w", err)
	}
	return s, nil
}

// filesPath is the URL path the memory driver's links are served under.
func (c StorageConfig) filesPath() string {
	u, err := url.Parse(c.MemoryURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

// newUploader opens the configured storage and builds an Uploader on it.
func newUploader(cfg Config, opts ...uploader.Option) (*uploader.Uploader, error) {
	store, err := openStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}
	return uploaderFor(cfg, store, opts...)
}

// uploaderFor wires store into an Uploader built from cfg.Upload.
func uploaderFor(cfg Config, store storage.Storage, opts ...uploader.Option) (*uploader.Uploader, error) {
	var putOpts []storage.Option
	if cfg.Storage.Prefix != "" {
		putOpts = append(putOpts, storage.WithPrefix(cfg.Storage.Prefix))
	}

	opts = append([]uploader.Option{uploader.WithUploadOptions(cfg.Upload)}, opts...)
	return uploader.New(uploader.NewStorageBackend(store, putOpts...), opts...)
}
