package cli

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/electricity-dashboard-go/internal/application/usecase"
	"github.com/diillson/electricity-dashboard-go/internal/domain/service"
	"github.com/diillson/electricity-dashboard-go/internal/shared/types"
	"github.com/diillson/electricity-dashboard-go/pkg/console"
)

type stubConfigRepo struct {
	cfg *types.Config
}

func (r stubConfigRepo) LoadConfigFile(path string) (*types.Config, error) {
	return r.cfg, nil
}

// parsedCommand localiza o subcomando e faz o parse das flags como o cobra faria.
func parsedCommand(t *testing.T, name string, flags ...string) *cobra.Command {
	t.Helper()
	app := NewCLIApp("0.0.0-dev")
	cmd, _, err := app.rootCmd.Find([]string{name})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags(flags))
	return cmd
}

func TestParseArgsDefaults(t *testing.T) {
	args := parseArgs(parsedCommand(t, "evaluate"))

	assert.Equal(t, DefaultDataset, args.Dataset)
	assert.Equal(t, DefaultAppliance, args.Appliance)
	assert.Equal(t, DefaultRate, args.Rate)
	assert.Equal(t, 0.0, args.Usage)
	assert.Equal(t, []string{"csv"}, args.ReportType)
	assert.Nil(t, args.StartMonth)
	assert.Nil(t, args.EndMonth)
	assert.False(t, args.Publish)
}

func TestParseArgsEvaluateFlags(t *testing.T) {
	cmd := parsedCommand(t, "evaluate",
		"-f", "s3://bucket/data.csv", "--aws-profile", "dev",
		"-a", "monitor", "-u", "6", "-r", "0.25",
		"--start-month", "2", "--end-month", "9",
		"--publish", "--mqtt-broker", "broker:1883",
		"-n", "bill", "-y", "json,pdf",
	)
	args := parseArgs(cmd)

	assert.Equal(t, "s3://bucket/data.csv", args.Dataset)
	assert.Equal(t, "dev", args.AWS.Profile)
	assert.Equal(t, "monitor", args.Appliance)
	assert.Equal(t, 6.0, args.Usage)
	assert.Equal(t, 0.25, args.Rate)
	require.NotNil(t, args.StartMonth)
	require.NotNil(t, args.EndMonth)
	assert.Equal(t, 2, *args.StartMonth)
	assert.Equal(t, 9, *args.EndMonth)
	assert.True(t, args.Publish)
	assert.Equal(t, "broker:1883", args.MQTT.Broker)
	assert.Equal(t, "bill", args.ReportName)
	assert.Equal(t, []string{"json", "pdf"}, args.ReportType)
}

func TestParseArgsExploreFlags(t *testing.T) {
	args := parseArgs(parsedCommand(t, "explore", "--raw", "--limit", "25"))

	assert.True(t, args.ShowRaw)
	assert.False(t, args.ShowSummary)
	assert.False(t, args.ShowVisualizations)
	assert.Equal(t, 25, args.RawLimit)
	assert.Equal(t, DefaultRate, args.Rate)
}

func TestMergeConfigFillsUnsetFlags(t *testing.T) {
	rate, usage, start := 0.2, 4.0, 3
	cfg := &types.Config{
		Dataset:    "from-config.csv",
		Rate:       &rate,
		Appliance:  "Television",
		Usage:      &usage,
		StartMonth: &start,
		ReportName: "config-report",
		ReportType: []string{"sqlite"},
		MQTT:       types.MQTTConfig{Broker: "config-broker:1883", TopicPrefix: "home"},
		AWS:        types.AWSConfig{Region: "ap-south-1"},
	}

	cmd := parsedCommand(t, "evaluate", "-r", "0.3", "-n", "cli-report")
	args := parseArgs(cmd)
	mergeConfig(cmd, args, cfg)

	assert.Equal(t, "from-config.csv", args.Dataset)
	assert.Equal(t, 0.3, args.Rate, "explicit flag wins")
	assert.Equal(t, "Television", args.Appliance)
	assert.Equal(t, 4.0, args.Usage)
	require.NotNil(t, args.StartMonth)
	assert.Equal(t, 3, *args.StartMonth)
	assert.Nil(t, args.EndMonth)
	assert.Equal(t, "cli-report", args.ReportName)
	assert.Equal(t, []string{"sqlite"}, args.ReportType)
	assert.Equal(t, types.MQTTConfig{Broker: "config-broker:1883", TopicPrefix: "home"}, args.MQTT)
	assert.Equal(t, "ap-south-1", args.AWS.Region)
}

func TestMergeConfigBrokerFlagOverridesFile(t *testing.T) {
	cfg := &types.Config{MQTT: types.MQTTConfig{Broker: "config-broker:1883", TopicPrefix: "home"}}

	cmd := parsedCommand(t, "evaluate", "--mqtt-broker", "cli-broker:1883")
	args := parseArgs(cmd)
	mergeConfig(cmd, args, cfg)

	assert.Equal(t, "cli-broker:1883", args.MQTT.Broker)
	assert.Equal(t, "home", args.MQTT.TopicPrefix)
}

func TestResolveDir(t *testing.T) {
	dir, err := resolveDir("")
	require.NoError(t, err)
	assert.NotEmpty(t, dir)

	dir, err = resolveDir("reports")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
	assert.Equal(t, "reports", filepath.Base(dir))
}

func TestEstimateCommand(t *testing.T) {
	rate := 0.5
	app := NewCLIApp("0.0.0-dev")
	app.SetDashboardUseCase(usecase.NewDashboardUseCase(nil, nil, stubConfigRepo{cfg: &types.Config{Rate: &rate}}, nil, console.NewConsole()))

	app.rootCmd.SetArgs([]string{"estimate", "--fan", "5", "--refrigerator", "10", "--television", "3", "--air-conditioner", "8", "--monitor", "2"})
	assert.NoError(t, app.Execute())

	app = NewCLIApp("0.0.0-dev")
	app.SetDashboardUseCase(usecase.NewDashboardUseCase(nil, nil, stubConfigRepo{cfg: &types.Config{}}, nil, console.NewConsole()))
	app.rootCmd.SetArgs([]string{"estimate", "--fan", "-1"})
	assert.ErrorIs(t, app.Execute(), service.ErrInvalidInput)

	app = NewCLIApp("0.0.0-dev")
	app.SetDashboardUseCase(usecase.NewDashboardUseCase(nil, nil, stubConfigRepo{cfg: &types.Config{Rate: &rate}}, nil, console.NewConsole()))
	app.rootCmd.SetArgs([]string{"estimate", "--config-file", "dashboard.toml", "--fan", "2", "--rate", "-0.1"})
	assert.ErrorIs(t, app.Execute(), service.ErrInvalidInput)
}
