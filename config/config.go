package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/imdario/mergo"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	E "itemfreq/estimator"
)

var configFilePath = flag.String("config_filepath", "../config/config.json", "")
var initiated bool = false

const (
	DEVELOPMENT = "development"
	PRODUCTION  = "production"

	EnvPrefix = "ITEMFREQ"

	StorageDisk = "disk"
	StorageGCS  = "gcs"
	StorageS3   = "s3"
)

var ErrUnknownDataset = errors.New("unknown dataset")

type RedisConf struct {
	Host string `json:"host" yaml:"host" envconfig:"HOST"`
	Port int    `json:"port" yaml:"port" envconfig:"PORT"`
	// zero disables the exact-result cache.
	ExpirySecs float64 `json:"expiry_secs" yaml:"expiry_secs" envconfig:"EXPIRY_SECS"`
}

type StorageConf struct {
	// disk, gcs or s3.
	Backend string `json:"backend" yaml:"backend" envconfig:"BACKEND"`
	BaseDir string `json:"base_dir" yaml:"base_dir" envconfig:"BASE_DIR"`
	Bucket  string `json:"bucket" yaml:"bucket" envconfig:"BUCKET"`
	Region  string `json:"region" yaml:"region" envconfig:"REGION"`
}

// DatasetConf names one input file. Path is relative to the storage base dir
// or bucket unless Source is disk and Path is absolute.
type DatasetConf struct {
	Name      string `json:"name" yaml:"name"`
	Path      string `json:"path" yaml:"path"`
	ItemCount int    `json:"item_count" yaml:"item_count"`
	// overrides storage.backend for this dataset.
	Source string `json:"source" yaml:"source"`
}

type ExperimentConf struct {
	Params     E.Params `json:"params" yaml:"params"`
	Trials     int      `json:"trials" yaml:"trials"`
	Seed       int64    `json:"seed" yaml:"seed"`
	Algorithms []string `json:"algorithms" yaml:"algorithms"`
}

type Configuration struct {
	Env              string         `json:"env" yaml:"env" envconfig:"ENV"`
	Storage          StorageConf    `json:"storage" yaml:"storage" envconfig:"STORAGE"`
	Redis            RedisConf      `json:"redis" yaml:"redis" envconfig:"REDIS"`
	RunStorePath     string         `json:"run_store_path" yaml:"run_store_path" envconfig:"RUN_STORE_PATH"`
	ReportDir        string         `json:"report_dir" yaml:"report_dir" envconfig:"REPORT_DIR"`
	DatasetCacheSize int            `json:"dataset_cache_size" yaml:"dataset_cache_size" envconfig:"DATASET_CACHE_SIZE"`
	Experiment       ExperimentConf `json:"experiment" yaml:"experiment" ignored:"true"`
	Datasets         []DatasetConf  `json:"datasets" yaml:"datasets" ignored:"true"`
}

var configuration *Configuration = nil
var redisPool *redis.Pool = nil

func DefaultConfiguration() Configuration {
	return Configuration{
		Env:              DEVELOPMENT,
		Storage:          StorageConf{Backend: StorageDisk, BaseDir: "/tmp/itemfreq"},
		Redis:            RedisConf{Port: 6379, ExpirySecs: 24 * 60 * 60},
		RunStorePath:     "/tmp/itemfreq/runs.db",
		ReportDir:        "reports",
		DatasetCacheSize: 4,
		Experiment: ExperimentConf{
			Params: E.Params{K: 10, SampleInc: 1000, Epsilon: 0.05, Delta: 0.0001},
			Trials: 1,
			Seed:   1,
			Algorithms: []string{"exact", "new-bound", "RU-bound", "progressive",
				"RU-progressive"},
		},
	}
}

// ParseConfig decodes raw as YAML when fileName ends in .yaml or .yml and
// as JSON otherwise. Unset fields take their defaults and ITEMFREQ_*
// environment variables win over both.
func ParseConfig(fileName string, raw []byte) (*Configuration, error) {
	parsed := Configuration{}
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(raw, &parsed); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal yaml")
		}
	} else {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal json")
		}
	}

	if err := mergo.Merge(&parsed, DefaultConfiguration()); err != nil {
		return nil, errors.Wrap(err, "failed to merge defaults")
	}
	if err := envconfig.Process(EnvPrefix, &parsed); err != nil {
		return nil, errors.Wrap(err, "failed to read environment overrides")
	}
	if err := parsed.validate(); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (c *Configuration) validate() error {
	switch c.Storage.Backend {
	case StorageDisk, StorageGCS, StorageS3:
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}
	names := make(map[string]bool)
	for _, d := range c.Datasets {
		if d.Name == "" || d.Path == "" {
			return fmt.Errorf("dataset needs a name and a path: %+v", d)
		}
		if names[d.Name] {
			return fmt.Errorf("duplicate dataset %q", d.Name)
		}
		names[d.Name] = true
	}
	return nil
}

// GetDataset looks a dataset up by name.
func (c *Configuration) GetDataset(name string) (DatasetConf, error) {
	for _, d := range c.Datasets {
		if d.Name == name {
			if d.Source == "" {
				d.Source = c.Storage.Backend
			}
			return d, nil
		}
	}
	return DatasetConf{}, errors.Wrapf(ErrUnknownDataset, "%s", name)
}

func (c *Configuration) DatasetNames() []string {
	names := make([]string, 0, len(c.Datasets))
	for _, d := range c.Datasets {
		names = append(names, d.Name)
	}
	return names
}

func initFlags() {
	if !flag.Parsed() {
		flag.Parse()
	}
}

func initLogging() {
	if IsDevelopment() {
		log.SetLevel(log.DebugLevel)
		return
	}
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})
}

func initConfigFromFile() error {
	configFileAbsPath, _ := filepath.Abs(*configFilePath)

	logCtx := log.WithFields(log.Fields{
		"file": configFileAbsPath,
	})

	raw, err := ioutil.ReadFile(configFileAbsPath)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load config")
		return err
	}

	configuration, err = ParseConfig(configFileAbsPath, raw)
	if err != nil {
		logCtx.WithError(err).Error("Failed to parse config")
		return err
	}
	logCtx.WithFields(log.Fields{"config": configuration}).Info("Config File Loaded")
	return nil
}

// InitRedis builds the cache connection pool. An empty host leaves the
// cache disabled.
func InitRedis(host string, port int) {
	if host == "" {
		log.Info("Redis host not configured. Exact result cache disabled.")
		return
	}
	addr := fmt.Sprintf("%s:%d", host, port)
	redisPool = &redis.Pool{
		MaxIdle:     10,
		MaxActive:   50,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr)
		},
	}
	log.WithField("addr", addr).Info("Redis pool initialized")
}

func Init() error {
	if initiated {
		return fmt.Errorf("Config already initialized")
	}
	initFlags()
	err := initConfigFromFile()
	if err != nil {
		return err
	}
	initLogging()
	InitRedis(configuration.Redis.Host, configuration.Redis.Port)

	initiated = true
	return nil
}

// InitWithConfig installs an already parsed configuration, for tests and
// embedding callers.
func InitWithConfig(c *Configuration) {
	configuration = c
	initLogging()
	InitRedis(c.Redis.Host, c.Redis.Port)
	initiated = true
}

func GetConfig() *Configuration {
	return configuration
}

func IsDevelopment() bool {
	return configuration == nil || strings.Compare(configuration.Env, DEVELOPMENT) == 0
}

func IsRedisEnabled() bool {
	return redisPool != nil
}

// GetCacheRedisConnection returns a pooled connection. Callers close it.
func GetCacheRedisConnection() redis.Conn {
	return redisPool.Get()
}
