package export

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diillson/electricity-dashboard-go/internal/domain/entity"
	"github.com/diillson/electricity-dashboard-go/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
	_ "modernc.org/sqlite"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

func (r *ExportRepositoryImpl) ExportToCSV(report *entity.DashboardReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"Report ID", "Section", "Label", "Metric", "Value"}); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, row := range flattenReport(report) {
		record := []string{report.ID, row.Section, row.Label, row.Metric, formatValue(row.Value)}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToJSON(report *entity.DashboardReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToPDF(report *entity.DashboardReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}
	barColor := [3]int{52, 101, 164}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by Electricity Dashboard (Go) | %s", report.GeneratedAt.Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	sectionTitle := func(title string) {
		if pdf.GetY() > 250 {
			pdf.AddPage()
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)
	}

	drawTable := func(rows []reportRow) {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(80, 6, "Label", "B", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, "Metric", "B", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, "Value", "B", 1, "R", false, 0, "")

		pdf.SetFont("Arial", "", 9)
		for _, row := range rows {
			pdf.CellFormat(80, 5, tr(truncate(row.Label, 45)), "", 0, "L", false, 0, "")
			pdf.CellFormat(60, 5, tr(row.Metric), "", 0, "L", false, 0, "")
			pdf.CellFormat(50, 5, formatPDFValue(row.Value), "", 1, "R", false, 0, "")
		}
		pdf.Ln(8)
	}

	drawBars := func(labels []string, values []float64, format string) {
		maxValue := 0.0
		for _, v := range values {
			maxValue = math.Max(maxValue, v)
		}
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		for i, label := range labels {
			if pdf.GetY() > 270 {
				pdf.AddPage()
			}
			y := pdf.GetY()
			pdf.CellFormat(40, 6, tr(label), "", 0, "L", false, 0, "")
			width := 0.0
			if maxValue > 0 {
				width = values[i] / maxValue * 110
			}
			pdf.SetFillColor(barColor[0], barColor[1], barColor[2])
			pdf.Rect(pdf.GetX(), y+1, width, 4, "F")
			pdf.SetX(pdf.GetX() + 115)
			pdf.CellFormat(35, 6, fmt.Sprintf(format, values[i]), "", 1, "R", false, 0, "")
		}
		pdf.Ln(8)
	}

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  Household Electricity Consumption Dashboard"), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Dataset: %s (%d records)", truncate(report.Source, 80), report.Records)), "", 1, "L", true, 0, "")
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Report ID: %s", report.ID)), "", 1, "L", true, 0, "")
	pdf.Ln(10)

	if calc := report.BillCalculation; calc != nil {
		sectionTitle(sectionBillCalculator)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 5, tr(fmt.Sprintf("%s usage set to %.1f hours at a rate of %s per appliance-hour. Mean estimated bill: %.2f",
			calc.Selection.Appliance, calc.Selection.Hours, formatValue(float64(calc.Rate)), float64(calc.MeanEstimatedBill))), "", "L", false)
		pdf.Ln(4)

		var labels []string
		var values []float64
		for _, a := range sortedAppliances(calc) {
			labels = append(labels, string(a))
			values = append(values, float64(calc.BillByAppliance[a]))
		}
		drawBars(labels, values, "%.2f")
	}

	if len(report.ApplianceShares) > 0 {
		sectionTitle(sectionApplianceShares)
		var labels []string
		var values []float64
		for _, s := range report.ApplianceShares {
			labels = append(labels, string(s.Appliance))
			values = append(values, s.Share*100)
		}
		drawBars(labels, values, "%.1f%%")
	}

	rows := flattenReport(report)
	order, bySection := groupRows(rows)
	for _, section := range order {
		switch section {
		case sectionBillCalculator, sectionApplianceShares:
			continue
		case sectionCorrelation:
			sectionTitle(section)
			drawCorrelation(pdf, report.Correlation)
		default:
			sectionTitle(section)
			drawTable(bySection[section])
		}
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// drawCorrelation desenha a matriz de correlação como uma grade colorida.
func drawCorrelation(pdf *gofpdf.Fpdf, m *entity.CorrelationMatrix) {
	if m == nil || len(m.Columns) == 0 {
		return
	}
	cell := 150.0 / float64(len(m.Columns))

	pdf.SetFont("Arial", "", 6)
	pdf.SetTextColor(50, 50, 50)
	pdf.CellFormat(40, 6, "", "", 0, "L", false, 0, "")
	for _, c := range m.Columns {
		pdf.CellFormat(cell, 6, truncate(c, 8), "", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	for i, rowName := range m.Columns {
		pdf.CellFormat(40, 6, rowName, "", 0, "L", false, 0, "")
		for j := range m.Columns {
			v := m.Values[i][j]
			r, g, b := heatColor(v)
			pdf.SetFillColor(r, g, b)
			pdf.CellFormat(cell, 6, formatPDFValue(v), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(8)
}

// heatColor mapeia [-1, 1] para azul (negativo), branco (zero) e vermelho (positivo).
func heatColor(v float64) (int, int, int) {
	if math.IsNaN(v) {
		return 220, 220, 220
	}
	intensity := int(math.Round(math.Min(1, math.Abs(v)) * 155))
	if v >= 0 {
		return 255, 255 - intensity, 255 - intensity
	}
	return 255 - intensity, 255 - intensity, 255
}

func (r *ExportRepositoryImpl) ExportToSQLite(report *entity.DashboardReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "db")
	if err != nil {
		return "", err
	}

	conn, err := sql.Open("sqlite", outputFilename)
	if err != nil {
		return "", fmt.Errorf("error opening SQLite database: %w", err)
	}
	defer conn.Close()

	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		generated_at TEXT NOT NULL,
		source TEXT NOT NULL,
		records INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS report_metrics (
		report_id TEXT NOT NULL REFERENCES reports(id),
		section TEXT NOT NULL,
		label TEXT NOT NULL,
		metric TEXT NOT NULL,
		value REAL
	);
	CREATE INDEX IF NOT EXISTS idx_report_metrics_section ON report_metrics(report_id, section);
	`
	if _, err := conn.Exec(schema); err != nil {
		return "", fmt.Errorf("error initializing SQLite schema: %w", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return "", fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO reports (id, generated_at, source, records) VALUES (?, ?, ?, ?)`,
		report.ID, report.GeneratedAt.UTC().Format(time.RFC3339), report.Source, report.Records)
	if err != nil {
		return "", fmt.Errorf("error inserting report: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO report_metrics (report_id, section, label, metric, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("error preparing metric insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range flattenReport(report) {
		var value sql.NullFloat64
		if !math.IsNaN(row.Value) {
			value = sql.NullFloat64{Float64: row.Value, Valid: true}
		}
		if _, err := stmt.Exec(report.ID, row.Section, row.Label, row.Metric, value); err != nil {
			return "", fmt.Errorf("error inserting metric %s/%s: %w", row.Section, row.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("error committing report: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

func formatPDFValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e12 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit-3])) + "..."
}
