package config

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonConfig = `{
	"env": "production",
	"storage": {"backend": "disk", "base_dir": "/data"},
	"experiment": {"params": {"k": 5, "epsilon": 0.1}, "trials": 3},
	"datasets": [
		{"name": "retail", "path": "retail.dat", "item_count": 16470},
		{"name": "kosarak", "path": "kosarak.dat", "item_count": 41270, "source": "gcs"}
	]
}`

const yamlConfig = `
env: development
storage:
  backend: s3
  bucket: itemsets
  region: us-east-1
redis:
  host: localhost
datasets:
  - name: chess
    path: chess.dat
    item_count: 75
`

func TestParseConfig(t *testing.T) {
	type check func(t *testing.T, c *Configuration)
	tests := []struct {
		name     string
		fileName string
		raw      string
		check    check
	}{
		{"json", "config.json", jsonConfig, func(t *testing.T, c *Configuration) {
			assert.Equal(t, PRODUCTION, c.Env)
			assert.Equal(t, "/data", c.Storage.BaseDir)
			assert.Equal(t, 5, c.Experiment.Params.K)
			assert.Equal(t, 0.1, c.Experiment.Params.Epsilon)
			// unset fields fall back to defaults.
			assert.Equal(t, 0.0001, c.Experiment.Params.Delta)
			assert.Equal(t, 1000, c.Experiment.Params.SampleInc)
			assert.Equal(t, 3, c.Experiment.Trials)
			assert.Len(t, c.Experiment.Algorithms, 5)
			assert.Equal(t, []string{"retail", "kosarak"}, c.DatasetNames())
		}},
		{"yaml", "config.yml", yamlConfig, func(t *testing.T, c *Configuration) {
			assert.Equal(t, DEVELOPMENT, c.Env)
			assert.Equal(t, StorageS3, c.Storage.Backend)
			assert.Equal(t, "itemsets", c.Storage.Bucket)
			assert.Equal(t, "localhost", c.Redis.Host)
			assert.Equal(t, 6379, c.Redis.Port)
			assert.Equal(t, 4, c.DatasetCacheSize)
			d, err := c.GetDataset("chess")
			require.Nil(t, err)
			assert.Equal(t, 75, d.ItemCount)
			assert.Equal(t, StorageS3, d.Source)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseConfig(tt.fileName, []byte(tt.raw))
			require.Nil(t, err)
			tt.check(t, c)
		})
	}
}

func TestGetDataset(t *testing.T) {
	c, err := ParseConfig("config.json", []byte(jsonConfig))
	require.Nil(t, err)

	d, err := c.GetDataset("kosarak")
	require.Nil(t, err)
	assert.Equal(t, StorageGCS, d.Source)

	d, err = c.GetDataset("retail")
	require.Nil(t, err)
	assert.Equal(t, StorageDisk, d.Source)

	_, err = c.GetDataset("mushroom")
	assert.Equal(t, ErrUnknownDataset, errors.Cause(err))
}

func TestParseConfigEnvOverrides(t *testing.T) {
	t.Setenv("ITEMFREQ_ENV", "staging")
	t.Setenv("ITEMFREQ_REDIS_PORT", "6380")
	t.Setenv("ITEMFREQ_STORAGE_BASE_DIR", "/override")

	c, err := ParseConfig("config.json", []byte(jsonConfig))
	require.Nil(t, err)
	assert.Equal(t, "staging", c.Env)
	assert.Equal(t, 6380, c.Redis.Port)
	assert.Equal(t, "/override", c.Storage.BaseDir)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		raw      string
	}{
		{"bad json", "config.json", `{"env": `},
		{"bad yaml", "config.yaml", "env: [unterminated"},
		{"bad backend", "config.json", `{"storage": {"backend": "ftp"}}`},
		{"duplicate dataset", "config.json",
			`{"datasets": [{"name": "a", "path": "a"}, {"name": "a", "path": "b"}]}`},
		{"dataset without path", "config.json", `{"datasets": [{"name": "a"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(tt.fileName, []byte(tt.raw))
			assert.NotNil(t, err)
		})
	}
}

func TestInitWithConfig(t *testing.T) {
	c := DefaultConfiguration()
	InitWithConfig(&c)
	assert.Equal(t, &c, GetConfig())
	assert.True(t, IsDevelopment())
	assert.False(t, IsRedisEnabled())
}
