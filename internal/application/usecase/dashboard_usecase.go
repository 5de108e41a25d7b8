package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/diillson/electricity-dashboard-go/internal/domain/entity"
	"github.com/diillson/electricity-dashboard-go/internal/domain/repository"
	"github.com/diillson/electricity-dashboard-go/internal/domain/service"
	"github.com/diillson/electricity-dashboard-go/internal/shared/types"
)

// DefaultRawLimit is the number of rows shown by the raw data table.
const DefaultRawLimit = 10

// DatasetRepositoryFactory builds a dataset repository for the given AWS settings.
type DatasetRepositoryFactory func(cfg types.AWSConfig) repository.DatasetRepository

// PublisherFactory connects a publisher for the given broker settings.
type PublisherFactory func(cfg types.MQTTConfig) (repository.EstimatePublisher, error)

// DashboardUseCase handles the main dashboard functionality.
type DashboardUseCase struct {
	newDatasetRepo DatasetRepositoryFactory
	exportRepo     repository.ExportRepository
	configRepo     repository.ConfigRepository
	newPublisher   PublisherFactory
	console        types.ConsoleInterface

	now   func() time.Time
	newID func() string
}

// NewDashboardUseCase creates a new dashboard use case.
func NewDashboardUseCase(
	newDatasetRepo DatasetRepositoryFactory,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	newPublisher PublisherFactory,
	console types.ConsoleInterface,
) *DashboardUseCase {
	return &DashboardUseCase{
		newDatasetRepo: newDatasetRepo,
		exportRepo:     exportRepo,
		configRepo:     configRepo,
		newPublisher:   newPublisher,
		console:        console,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// LoadConfig lê o arquivo de configuração informado em --config-file.
func (uc *DashboardUseCase) LoadConfig(path string) (*types.Config, error) {
	cfg, err := uc.configRepo.LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	uc.console.LogDebug("Config file %s: dataset=%q appliance=%q report=%q types=%v mqtt=%q",
		path, cfg.Dataset, cfg.Appliance, cfg.ReportName, cfg.ReportType, cfg.MQTT.Broker)
	return cfg, nil
}

// RunExplore exibe os dados brutos, o resumo estatístico e as visualizações do dataset.
func (uc *DashboardUseCase) RunExplore(ctx context.Context, args *types.CLIArgs) error {
	ds, err := uc.loadDataset(ctx, args)
	if err != nil {
		return err
	}

	showRaw, showSummary, showVisualizations := args.ShowRaw, args.ShowSummary, args.ShowVisualizations
	if !showRaw && !showSummary && !showVisualizations {
		showRaw, showSummary, showVisualizations = true, true, true
	}

	report := uc.newReport(ds)

	if showRaw {
		uc.displayRawData(ds, args.RawLimit)
	}

	if showSummary {
		report.Summary = service.Describe(ds)
		report.MissingValues = service.MissingValues(ds)
		uc.displaySummary(report)
	}

	if showVisualizations {
		status := uc.console.Status("Computing city aggregates...")
		report.TopCities = service.TopCities(ds)
		report.TariffByCity = service.TariffByCity(ds)
		report.CityUsage = service.CityApplianceUsage(ds)
		report.CityBill = service.CityBillStats(ds)
		report.TopCompanies = service.TopCompanies(ds, 5)
		status.Update("Computing monthly aggregates...")
		report.MonthlyBill = service.MonthlyBillStats(ds)
		report.MonthlyHours = service.MonthlyHoursByMonth(ds)
		report.ApplianceShares = service.ApplianceHoursShare(ds)
		status.Update("Computing correlation matrix...")
		correlation := service.CorrelationMatrix(ds)
		report.Correlation = &correlation
		status.Stop()

		uc.displayVisualizations(report)
	}

	uc.exportReport(report, args)
	return nil
}

// loadDataset carrega o dataset com um spinner de status.
func (uc *DashboardUseCase) loadDataset(ctx context.Context, args *types.CLIArgs) (*entity.Dataset, error) {
	status := uc.console.Status(fmt.Sprintf("Loading dataset %s...", args.Dataset))
	ds, err := uc.newDatasetRepo(args.AWS).Load(ctx, args.Dataset)
	status.Stop()
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	if ds.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", ds.Source, service.ErrEmptyDataset)
	}

	uc.console.LogInfo("Loaded %s records from %s", humanize.Comma(int64(ds.Len())), ds.Source)
	uc.console.LogDebug("Dataset columns: %s", strings.Join(ds.Columns, ", "))
	return ds, nil
}

func (uc *DashboardUseCase) newReport(ds *entity.Dataset) *entity.DashboardReport {
	return &entity.DashboardReport{
		ID:          uc.newID(),
		GeneratedAt: uc.now(),
		Source:      ds.Source,
		Records:     ds.Len(),
	}
}

func (uc *DashboardUseCase) displayRawData(ds *entity.Dataset, limit int) {
	if limit <= 0 {
		limit = DefaultRawLimit
	}
	rows := ds.Records
	if len(rows) > limit {
		rows = rows[:limit]
	}

	uc.console.Section("Raw Data")
	table := uc.console.CreateTable()
	for _, column := range ds.Columns {
		table.AddColumn(column)
	}
	for _, r := range rows {
		cells := make([]interface{}, len(ds.Columns))
		for i, column := range ds.Columns {
			cells[i] = cellText(r, column)
		}
		table.AddRow(cells...)
	}
	uc.console.Print(table.Render())
	if len(rows) < ds.Len() {
		uc.console.LogInfo("Showing %d of %s records (use --limit to show more)", len(rows), humanize.Comma(int64(ds.Len())))
	}
}

func (uc *DashboardUseCase) displaySummary(report *entity.DashboardReport) {
	uc.console.Section("Summary Statistics")
	table := uc.console.CreateTable()
	for _, column := range []string{"Column", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"} {
		table.AddColumn(column)
	}
	for _, s := range report.Summary {
		table.AddRow(s.Column, s.Count, formatFloat(s.Mean), formatFloat(s.Std), formatFloat(s.Min),
			formatFloat(s.P25), formatFloat(s.P50), formatFloat(s.P75), formatFloat(s.Max))
	}
	uc.console.Print(table.Render())

	uc.console.Section("Missing Values")
	missing := uc.console.CreateTable()
	missing.AddColumn("Column")
	missing.AddColumn("Non-missing values")
	missing.AddColumn("Missing")
	for _, m := range report.MissingValues {
		missing.AddRow(m.Label, m.Count, report.Records-m.Count)
	}
	uc.console.Print(missing.Render())
}

func (uc *DashboardUseCase) displayVisualizations(report *entity.DashboardReport) {
	uc.console.Section("Visualizations")

	uc.console.DisplayBars("Top Cities by Number of Records", countBars(report.TopCities))
	uc.console.DisplayBars("Tariff Rate by City (mean)", labeledBars(report.TariffByCity))
	uc.console.DisplayGroupedBars("Electricity Bill by Month", statsGroups(report.MonthlyBill))

	usage := make([]types.GroupedBar, 0, len(report.CityUsage))
	for _, c := range report.CityUsage {
		series := make([]types.Bar, 0, len(entity.Appliances))
		for _, a := range entity.Appliances {
			series = append(series, types.Bar{Label: string(a), Value: c.Hours[a]})
		}
		usage = append(usage, types.GroupedBar{Label: c.City, Series: series})
	}
	uc.console.DisplayGroupedBars("Appliance Usage by City (hours)", usage)

	uc.console.DisplayGroupedBars("Electricity Bill by City", statsGroups(report.CityBill))
	uc.console.DisplayBars("Top 5 Companies by City", countBars(report.TopCompanies))

	shares := make([]types.Bar, 0, len(report.ApplianceShares))
	for _, s := range report.ApplianceShares {
		shares = append(shares, types.Bar{Label: string(s.Appliance), Value: s.Hours})
	}
	uc.console.DisplayPie("Appliance Usage Share", shares)

	uc.console.DisplayBars("Monthly Hours by Month", labeledBars(report.MonthlyHours))

	if report.Correlation != nil {
		uc.console.DisplayHeatmap("Correlation Heatmap", report.Correlation.Columns, report.Correlation.Values)
	}
}

// exportReport exporta o relatório nos formatos pedidos; falhas são apenas registradas.
func (uc *DashboardUseCase) exportReport(report *entity.DashboardReport, args *types.CLIArgs) {
	if args.ReportName == "" || len(args.ReportType) == 0 {
		return
	}

	for _, reportType := range args.ReportType {
		uc.console.LogDebug("Exporting report %s as %s to %s", report.ID, reportType, args.Dir)
		switch reportType {
		case "csv":
			csvPath, err := uc.exportRepo.ExportToCSV(report, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to CSV: %s", csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportToJSON(report, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to JSON: %s", jsonPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportToPDF(report, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to PDF: %s", pdfPath)
			}
		case "sqlite":
			dbPath, err := uc.exportRepo.ExportToSQLite(report, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to SQLite: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to SQLite: %s", dbPath)
			}
		default:
			uc.console.LogWarning("%s: %q", types.ErrUnsupportedExportFmt, reportType)
		}
	}
}

func cellText(r entity.HouseholdRecord, column string) string {
	switch column {
	case entity.ColumnCity:
		return r.City
	case entity.ColumnCompany:
		return r.Company
	}
	v, ok := r.Value(column)
	if !ok {
		return "-"
	}
	return formatFloat(v)
}

func countBars(entries []entity.CountEntry) []types.Bar {
	bars := make([]types.Bar, len(entries))
	for i, e := range entries {
		bars[i] = types.Bar{Label: e.Label, Value: float64(e.Count)}
	}
	return bars
}

func labeledBars(values []entity.LabeledValue) []types.Bar {
	bars := make([]types.Bar, len(values))
	for i, v := range values {
		bars[i] = types.Bar{Label: v.Label, Value: v.Value}
	}
	return bars
}

func statsGroups(stats []entity.GroupStats) []types.GroupedBar {
	groups := make([]types.GroupedBar, len(stats))
	for i, g := range stats {
		groups[i] = types.GroupedBar{
			Label: g.Group,
			Series: []types.Bar{
				{Label: "min", Value: g.Min},
				{Label: "max", Value: g.Max},
				{Label: "mean", Value: g.Mean},
			},
		}
	}
	return groups
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return humanize.FtoaWithDigits(v, 4)
}
