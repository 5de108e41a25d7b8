package usecase

import (
	"context"
	"fmt"

	"github.com/diillson/electricity-dashboard-go/internal/domain/entity"
	"github.com/diillson/electricity-dashboard-go/internal/domain/service"
	"github.com/diillson/electricity-dashboard-go/internal/shared/types"
)

// RunEvaluate executa a calculadora de conta e a série da conta ao longo dos meses.
func (uc *DashboardUseCase) RunEvaluate(ctx context.Context, args *types.CLIArgs) error {
	appliance, err := entity.ParseAppliance(args.Appliance)
	if err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}

	ds, err := uc.loadDataset(ctx, args)
	if err != nil {
		return err
	}

	selection := entity.ApplianceSelection{Appliance: appliance, Hours: args.Usage}
	calc, err := service.BillCalculator(ds, selection, entity.TariffRate(args.Rate))
	if err != nil {
		return err
	}

	start, end, err := monthBounds(ds, args)
	if err != nil {
		return err
	}
	uc.console.LogDebug("Bill over time months %d-%d", start, end)
	overTime, err := service.BillOverTime(ds, start, end)
	if err != nil {
		return err
	}

	report := uc.newReport(ds)
	report.BillCalculation = calc
	report.BillOverTime = overTime

	uc.displayBillCalculation(calc)

	uc.console.Section(fmt.Sprintf("Electricity Bill Over Time (months %d-%d)", start, end))
	if len(overTime) == 0 {
		uc.console.LogWarning("No months between %d and %d", start, end)
	} else {
		uc.console.DisplayBars("Electricity Bill by Month", labeledBars(overTime))
	}

	if args.Publish {
		uc.publish(ctx, calc, args.MQTT)
	}

	uc.exportReport(report, args)
	return nil
}

// RunEstimate calcula a conta diretamente de um registro de uso.
func (uc *DashboardUseCase) RunEstimate(usage entity.UsageRecord, rate entity.TariffRate) (entity.BillEstimate, error) {
	byAppliance, err := service.EstimateByAppliance(usage, rate)
	if err != nil {
		return 0, err
	}
	total, err := service.Estimate(usage, rate)
	if err != nil {
		return 0, err
	}

	uc.console.Section("Bill Estimate")
	table := uc.console.CreateTable()
	table.AddColumn("Appliance")
	table.AddColumn("Hours")
	table.AddColumn("Estimated Bill")
	for _, a := range entity.Appliances {
		table.AddRow(string(a), formatFloat(usage[a]), formatFloat(float64(byAppliance[a])))
	}
	table.AddRow("Total", formatFloat(usage.Total()), formatFloat(float64(total)))
	uc.console.Print(table.Render())

	uc.console.LogSuccess("Estimated bill at rate %s: %s", formatFloat(float64(rate)), formatFloat(float64(total)))
	return total, nil
}

func (uc *DashboardUseCase) displayBillCalculation(calc *entity.BillCalculation) {
	uc.console.Section("Bill Calculator")
	uc.console.LogInfo("%s set to %s hours at rate %s over %d records",
		calc.Selection.Appliance, formatFloat(calc.Selection.Hours), formatFloat(float64(calc.Rate)), calc.Records)

	table := uc.console.CreateTable()
	table.AddColumn("Appliance")
	table.AddColumn("Mean Hours")
	table.AddColumn("Estimated Bill")
	bars := make([]types.Bar, 0, len(entity.Appliances))
	for _, a := range entity.Appliances {
		bill := float64(calc.BillByAppliance[a])
		table.AddRow(string(a), formatFloat(calc.MeanHours[a]), formatFloat(bill))
		bars = append(bars, types.Bar{Label: string(a), Value: bill})
	}
	uc.console.Print(table.Render())
	uc.console.DisplayBars("Estimated Electricity Bill by Appliance", bars)

	uc.console.LogSuccess("Mean estimated bill per record: %s", formatFloat(float64(calc.MeanEstimatedBill)))
}

// publish envia as estimativas ao broker; falhas são apenas registradas.
func (uc *DashboardUseCase) publish(ctx context.Context, calc *entity.BillCalculation, cfg types.MQTTConfig) {
	if uc.newPublisher == nil {
		uc.console.LogWarning("Publishing skipped: %s", types.ErrPublisherNotEnabled)
		return
	}

	status := uc.console.Status(fmt.Sprintf("Publishing estimates to %s...", cfg.Broker))
	publisher, err := uc.newPublisher(cfg)
	if err != nil {
		status.Stop()
		uc.console.LogError("Failed to connect publisher: %s", err)
		return
	}
	defer publisher.Close()

	prefix := cfg.TopicPrefix
	if prefix == "" {
		prefix = "(default)"
	}
	uc.console.LogDebug("Publishing %d appliance estimates and the total under topic prefix %s", len(calc.BillByAppliance), prefix)

	err = publisher.PublishBillCalculation(ctx, calc)
	status.Stop()
	if err != nil {
		uc.console.LogError("Failed to publish estimates: %s", err)
		return
	}
	uc.console.LogSuccess("Published %d estimates to %s", len(calc.BillByAppliance)+1, cfg.Broker)
}

// monthBounds resolve o intervalo de meses, usando o intervalo do dataset quando omitido.
func monthBounds(ds *entity.Dataset, args *types.CLIArgs) (int, int, error) {
	minMonth, maxMonth, ok := ds.MonthRange()
	if !ok {
		return 0, 0, fmt.Errorf("%w: no %s values", service.ErrEmptyDataset, entity.ColumnMonth)
	}
	start, end := minMonth, maxMonth
	if args.StartMonth != nil {
		start = *args.StartMonth
	}
	if args.EndMonth != nil {
		end = *args.EndMonth
	}
	return start, end, nil
}
