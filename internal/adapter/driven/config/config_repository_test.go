package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "TOML",
			file: "dashboard.toml",
			content: `dataset = "s3://energy/electricity_bill_dataset.csv"
rate = 0.25
appliance = "AirConditioner"
usage = 6.0
start_month = 2
end_month = 9
report_type = ["csv", "pdf"]

[mqtt]
broker = "localhost:1883"
topic_prefix = "home/electricity"

[aws]
profile = "analytics"
region = "ap-south-1"
`,
		},
		{
			name: "YAML",
			file: "dashboard.yaml",
			content: `dataset: s3://energy/electricity_bill_dataset.csv
rate: 0.25
appliance: AirConditioner
usage: 6
start_month: 2
end_month: 9
report_type: [csv, pdf]
mqtt:
  broker: localhost:1883
  topic_prefix: home/electricity
aws:
  profile: analytics
  region: ap-south-1
`,
		},
		{
			name: "JSON",
			file: "dashboard.json",
			content: `{
  "dataset": "s3://energy/electricity_bill_dataset.csv",
  "rate": 0.25,
  "appliance": "AirConditioner",
  "usage": 6,
  "start_month": 2,
  "end_month": 9,
  "report_type": ["csv", "pdf"],
  "mqtt": {"broker": "localhost:1883", "topic_prefix": "home/electricity"},
  "aws": {"profile": "analytics", "region": "ap-south-1"}
}`,
		},
	}

	repo := NewConfigRepository()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := repo.LoadConfigFile(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.Equal(t, "s3://energy/electricity_bill_dataset.csv", cfg.Dataset)
			require.NotNil(t, cfg.Rate)
			assert.Equal(t, 0.25, *cfg.Rate)
			assert.Equal(t, "AirConditioner", cfg.Appliance)
			require.NotNil(t, cfg.Usage)
			assert.Equal(t, 6.0, *cfg.Usage)
			require.NotNil(t, cfg.StartMonth)
			assert.Equal(t, 2, *cfg.StartMonth)
			require.NotNil(t, cfg.EndMonth)
			assert.Equal(t, 9, *cfg.EndMonth)
			assert.Equal(t, []string{"csv", "pdf"}, cfg.ReportType)
			assert.Equal(t, "localhost:1883", cfg.MQTT.Broker)
			assert.Equal(t, "home/electricity", cfg.MQTT.TopicPrefix)
			assert.Equal(t, "analytics", cfg.AWS.Profile)
			assert.Equal(t, "ap-south-1", cfg.AWS.Region)
		})
	}
}

func TestLoadConfigFileTOMLIntegerFloats(t *testing.T) {
	cfg, err := NewConfigRepository().LoadConfigFile(writeFile(t, "integers.toml", "rate = 1\nusage = 4\nstart_month = 3\n"))
	require.NoError(t, err)

	require.NotNil(t, cfg.Rate)
	assert.Equal(t, 1.0, *cfg.Rate)
	require.NotNil(t, cfg.Usage)
	assert.Equal(t, 4.0, *cfg.Usage)
	require.NotNil(t, cfg.StartMonth)
	assert.Equal(t, 3, *cfg.StartMonth)
}

func TestLoadConfigFileOmittedFieldsStayNil(t *testing.T) {
	cfg, err := NewConfigRepository().LoadConfigFile(writeFile(t, "minimal.yml", "dataset: data.csv\n"))
	require.NoError(t, err)
	assert.Equal(t, "data.csv", cfg.Dataset)
	assert.Nil(t, cfg.Rate)
	assert.Nil(t, cfg.Usage)
	assert.Nil(t, cfg.StartMonth)
}

func TestLoadConfigFileErrors(t *testing.T) {
	repo := NewConfigRepository()

	_, err := repo.LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "error accessing config file")

	_, err = repo.LoadConfigFile(t.TempDir())
	assert.ErrorContains(t, err, "is a directory")

	_, err = repo.LoadConfigFile(writeFile(t, "config.ini", "rate=1"))
	assert.ErrorContains(t, err, "unsupported config file format")

	_, err = repo.LoadConfigFile(writeFile(t, "broken.json", "{"))
	assert.ErrorContains(t, err, "error parsing JSON file")

	_, err = repo.LoadConfigFile(writeFile(t, "bad.yaml", "appliance: Heater\n"))
	assert.ErrorContains(t, err, "unknown appliance")
}
