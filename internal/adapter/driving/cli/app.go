package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/diillson/electricity-dashboard-go/internal/application/usecase"
	"github.com/diillson/electricity-dashboard-go/internal/domain/entity"
	"github.com/diillson/electricity-dashboard-go/internal/shared/types"
	"github.com/diillson/electricity-dashboard-go/pkg/version"
)

// Valores padrão aplicados quando nem a flag nem o arquivo de configuração definem o campo.
const (
	DefaultDataset   = "electricity_bill_dataset.csv"
	DefaultRate      = 0.1
	DefaultAppliance = string(entity.Fan)
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd          *cobra.Command
	dashboardUseCase *usecase.DashboardUseCase
	version          string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	// Obtem a versão formatada
	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:           "electricity-dashboard",
		Short:         "Household electricity usage dashboard and bill estimator",
		Version:       formattedVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{printf "Electricity Dashboard version: %s\n" .Version}}`)

	// Adiciona flags de linha de comando
	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("dataset", "f", DefaultDataset, "Dataset CSV path or s3://bucket/key URI")
	rootCmd.PersistentFlags().Bool("debug", false, "Print debug messages")
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf, sqlite")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	rootCmd.PersistentFlags().String("aws-profile", "", "AWS profile used to read s3:// datasets")
	rootCmd.PersistentFlags().String("aws-region", "", "AWS region used to read s3:// datasets")

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore the dataset: raw data, summary statistics and visualizations",
		Args:  cobra.NoArgs,
		RunE:  app.runExplore,
	}
	exploreCmd.Flags().Bool("raw", false, "Show the raw data table")
	exploreCmd.Flags().Bool("summary", false, "Show summary statistics and missing values")
	exploreCmd.Flags().Bool("visualizations", false, "Show the charts")
	exploreCmd.Flags().Int("limit", usecase.DefaultRawLimit, "Number of rows shown by --raw")

	evaluateCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run the bill calculator and the electricity bill over time",
		Args:  cobra.NoArgs,
		RunE:  app.runEvaluate,
	}
	evaluateCmd.Flags().StringP("appliance", "a", DefaultAppliance, "Appliance whose usage is set: Fan, Refrigerator, Television, AirConditioner, Monitor")
	evaluateCmd.Flags().Float64P("usage", "u", 0, "Hours of usage applied to the appliance (0-24)")
	evaluateCmd.Flags().Float64P("rate", "r", DefaultRate, "Tariff rate per appliance-hour")
	evaluateCmd.Flags().Int("start-month", 0, "First month of the bill over time chart (default: first month in the dataset)")
	evaluateCmd.Flags().Int("end-month", 0, "Last month of the bill over time chart (default: last month in the dataset)")
	evaluateCmd.Flags().Bool("publish", false, "Publish the estimates to the configured MQTT broker")
	evaluateCmd.Flags().String("mqtt-broker", "", "MQTT broker address (host:port)")

	estimateCmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate a bill from appliance hours",
		Args:  cobra.NoArgs,
		RunE:  app.runEstimate,
	}
	for _, a := range entity.Appliances {
		estimateCmd.Flags().Float64(applianceFlags[a], 0, fmt.Sprintf("Hours of %s usage", a))
	}
	estimateCmd.Flags().Float64P("rate", "r", DefaultRate, "Tariff rate per appliance-hour")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("Electricity Dashboard version: %s\n", version.FormatVersion())
		},
	}

	rootCmd.AddCommand(exploreCmd, evaluateCmd, estimateCmd, versionCmd)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// SetDashboardUseCase sets the dashboard use case for the CLI app.
func (app *CLIApp) SetDashboardUseCase(useCase *usecase.DashboardUseCase) {
	app.dashboardUseCase = useCase
}

func (app *CLIApp) runExplore(cmd *cobra.Command, _ []string) error {
	cliArgs, err := app.start(cmd)
	if err != nil {
		return err
	}
	return app.dashboardUseCase.RunExplore(cmd.Context(), cliArgs)
}

func (app *CLIApp) runEvaluate(cmd *cobra.Command, _ []string) error {
	cliArgs, err := app.start(cmd)
	if err != nil {
		return err
	}
	return app.dashboardUseCase.RunEvaluate(cmd.Context(), cliArgs)
}

func (app *CLIApp) runEstimate(cmd *cobra.Command, _ []string) error {
	cliArgs, err := app.start(cmd)
	if err != nil {
		return err
	}

	usage := entity.UsageRecord{}
	for _, a := range entity.Appliances {
		hours, _ := cmd.Flags().GetFloat64(applianceFlags[a])
		usage[a] = hours
	}
	_, err = app.dashboardUseCase.RunEstimate(usage, entity.TariffRate(cliArgs.Rate))
	return err
}

// start exibe o banner e monta os argumentos a partir das flags e do arquivo de configuração.
func (app *CLIApp) start(cmd *cobra.Command) (*types.CLIArgs, error) {
	displayWelcomeBanner()

	// Verifica a versão mais recente disponível
	go version.CheckLatestVersion(app.version)

	cliArgs := parseArgs(cmd)
	if cliArgs.Debug {
		pterm.EnableDebugMessages()
	}
	if cliArgs.ConfigFile != "" {
		cfg, err := app.dashboardUseCase.LoadConfig(cliArgs.ConfigFile)
		if err != nil {
			return nil, err
		}
		mergeConfig(cmd, cliArgs, cfg)
	}

	dir, err := resolveDir(cliArgs.Dir)
	if err != nil {
		return nil, err
	}
	cliArgs.Dir = dir
	return cliArgs, nil
}

// parseArgs lê as flags do comando; flags inexistentes no comando ficam com o valor zero.
func parseArgs(cmd *cobra.Command) *types.CLIArgs {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config-file")
	dataset, _ := flags.GetString("dataset")
	debug, _ := flags.GetBool("debug")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")
	awsProfile, _ := flags.GetString("aws-profile")
	awsRegion, _ := flags.GetString("aws-region")

	showRaw, _ := flags.GetBool("raw")
	showSummary, _ := flags.GetBool("summary")
	showVisualizations, _ := flags.GetBool("visualizations")
	limit, _ := flags.GetInt("limit")

	appliance, _ := flags.GetString("appliance")
	usage, _ := flags.GetFloat64("usage")
	rate, err := flags.GetFloat64("rate")
	if err != nil {
		rate = DefaultRate
	}
	publish, _ := flags.GetBool("publish")
	broker, _ := flags.GetString("mqtt-broker")

	args := &types.CLIArgs{
		ConfigFile:         configFile,
		Dataset:            dataset,
		Debug:              debug,
		ReportName:         reportName,
		ReportType:         reportType,
		Dir:                dir,
		ShowRaw:            showRaw,
		ShowSummary:        showSummary,
		ShowVisualizations: showVisualizations,
		RawLimit:           limit,
		Appliance:          appliance,
		Usage:              usage,
		Rate:               rate,
		Publish:            publish,
		MQTT:               types.MQTTConfig{Broker: broker},
		AWS:                types.AWSConfig{Profile: awsProfile, Region: awsRegion},
	}

	if flags.Changed("start-month") {
		month, _ := flags.GetInt("start-month")
		args.StartMonth = &month
	}
	if flags.Changed("end-month") {
		month, _ := flags.GetInt("end-month")
		args.EndMonth = &month
	}

	return args
}

// mergeConfig aplica os valores do arquivo de configuração que não foram passados explicitamente por flag.
func mergeConfig(cmd *cobra.Command, args *types.CLIArgs, cfg *types.Config) {
	flags := cmd.Flags()

	if cfg.Dataset != "" && !flags.Changed("dataset") {
		args.Dataset = cfg.Dataset
	}
	if cfg.ReportName != "" && !flags.Changed("report-name") {
		args.ReportName = cfg.ReportName
	}
	if len(cfg.ReportType) > 0 && !flags.Changed("report-type") {
		args.ReportType = cfg.ReportType
	}
	if cfg.Dir != "" && !flags.Changed("dir") {
		args.Dir = cfg.Dir
	}
	if cfg.Rate != nil && !flags.Changed("rate") {
		args.Rate = *cfg.Rate
	}
	if cfg.Appliance != "" && !flags.Changed("appliance") {
		args.Appliance = cfg.Appliance
	}
	if cfg.Usage != nil && !flags.Changed("usage") {
		args.Usage = *cfg.Usage
	}
	if cfg.StartMonth != nil && !flags.Changed("start-month") {
		args.StartMonth = cfg.StartMonth
	}
	if cfg.EndMonth != nil && !flags.Changed("end-month") {
		args.EndMonth = cfg.EndMonth
	}

	broker := args.MQTT.Broker
	args.MQTT = cfg.MQTT
	if flags.Changed("mqtt-broker") || args.MQTT.Broker == "" {
		args.MQTT.Broker = broker
	}

	if cfg.AWS.Profile != "" && !flags.Changed("aws-profile") {
		args.AWS.Profile = cfg.AWS.Profile
	}
	if cfg.AWS.Region != "" && !flags.Changed("aws-region") {
		args.AWS.Region = cfg.AWS.Region
	}
}

// resolveDir usa o diretório atual quando vazio e converte para caminho absoluto.
func resolveDir(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	return filepath.Abs(dir)
}

// applianceFlags mapeia cada aparelho para a flag do comando estimate.
var applianceFlags = map[entity.Appliance]string{
	entity.Fan:            "fan",
	entity.Refrigerator:   "refrigerator",
	entity.Television:     "television",
	entity.AirConditioner: "air-conditioner",
	entity.Monitor:        "monitor",
}
