package console

import (
	"fmt"
	"math"
	"strings"

	"github.com/diillson/electricity-dashboard-go/internal/shared/types"
	"github.com/pterm/pterm"
)

const barWidth = 40

// seriesColors colore as séries e fatias em ordem.
var seriesColors = []pterm.Color{
	pterm.FgCyan, pterm.FgMagenta, pterm.FgYellow, pterm.FgGreen, pterm.FgBlue, pterm.FgRed,
}

// DisplayBars exibe um gráfico de barras horizontais.
func (c *Console) DisplayBars(title string, bars []types.Bar) {
	fmt.Println("\n" + RenderBars(title, bars))
}

// DisplayGroupedBars exibe barras agrupadas (ex.: min/max/média por grupo).
func (c *Console) DisplayGroupedBars(title string, groups []types.GroupedBar) {
	fmt.Println("\n" + RenderGroupedBars(title, groups))
}

// DisplayPie exibe a distribuição percentual de cada fatia.
func (c *Console) DisplayPie(title string, slices []types.Bar) {
	fmt.Println("\n" + RenderPie(title, slices))
}

// DisplayHeatmap exibe uma matriz com células coloridas pelo valor.
func (c *Console) DisplayHeatmap(title string, labels []string, values [][]float64) {
	fmt.Println("\n" + RenderHeatmap(title, labels, values))
}

// RenderBars renderiza barras proporcionais ao maior valor.
func RenderBars(title string, bars []types.Bar) string {
	maxValue := 0.0
	for _, b := range bars {
		maxValue = math.Max(maxValue, b.Value)
	}

	if maxValue == 0 {
		return panel(title, pterm.FgYellow.Sprint("All values are 0.00 for this chart"))
	}

	tableData := pterm.TableData{{"Label", "Value", ""}}
	for _, b := range bars {
		tableData = append(tableData, []string{
			b.Label,
			formatNumber(b.Value),
			pterm.FgBlue.Sprint(bar(b.Value, maxValue)),
		})
	}
	return panel(title, renderTable(tableData))
}

// RenderGroupedBars renderiza uma barra por série dentro de cada grupo, na mesma escala.
func RenderGroupedBars(title string, groups []types.GroupedBar) string {
	maxValue := 0.0
	for _, g := range groups {
		for _, s := range g.Series {
			maxValue = math.Max(maxValue, s.Value)
		}
	}

	if maxValue == 0 {
		return panel(title, pterm.FgYellow.Sprint("All values are 0.00 for this chart"))
	}

	tableData := pterm.TableData{{"Group", "Series", "Value", ""}}
	for _, g := range groups {
		for i, s := range g.Series {
			label := ""
			if i == 0 {
				label = g.Label
			}
			seriesColor := seriesColors[i%len(seriesColors)]
			tableData = append(tableData, []string{
				label,
				s.Label,
				formatNumber(s.Value),
				seriesColor.Sprint(bar(s.Value, maxValue)),
			})
		}
	}
	return panel(title, renderTable(tableData))
}

// RenderPie renderiza cada fatia como percentual do total.
func RenderPie(title string, slices []types.Bar) string {
	total := 0.0
	for _, s := range slices {
		total += math.Max(0, s.Value)
	}

	if total == 0 {
		return panel(title, pterm.FgYellow.Sprint("Nothing to distribute: total is 0.00"))
	}

	tableData := pterm.TableData{{"Slice", "Value", "Share", ""}}
	for i, s := range slices {
		share := math.Max(0, s.Value) / total
		seriesColor := seriesColors[i%len(seriesColors)]
		tableData = append(tableData, []string{
			s.Label,
			formatNumber(s.Value),
			fmt.Sprintf("%.1f%%", share*100),
			seriesColor.Sprint(strings.Repeat("█", int(share*barWidth))),
		})
	}
	return panel(title, renderTable(tableData))
}

// RenderHeatmap renderiza a matriz com fundo colorido conforme o sinal e a intensidade.
func RenderHeatmap(title string, labels []string, values [][]float64) string {
	header := []string{""}
	for _, l := range labels {
		header = append(header, shorten(l, 8))
	}
	tableData := pterm.TableData{header}

	for i, l := range labels {
		row := []string{l}
		for j := range labels {
			row = append(row, heatCell(values[i][j]))
		}
		tableData = append(tableData, row)
	}
	return panel(title, renderTable(tableData))
}

func heatCell(v float64) string {
	if math.IsNaN(v) {
		return pterm.NewStyle(pterm.FgGray).Sprint("  -  ")
	}
	text := fmt.Sprintf("%5.2f", v)
	switch {
	case v >= 0.5:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite).Sprint(text)
	case v >= 0.2:
		return pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack).Sprint(text)
	case v <= -0.5:
		return pterm.NewStyle(pterm.BgBlue, pterm.FgWhite).Sprint(text)
	case v <= -0.2:
		return pterm.NewStyle(pterm.BgLightBlue, pterm.FgBlack).Sprint(text)
	default:
		return text
	}
}

func bar(value, maxValue float64) string {
	if value <= 0 || maxValue <= 0 {
		return ""
	}
	return strings.Repeat("█", int((value/maxValue)*barWidth))
}

func renderTable(data pterm.TableData) string {
	rendered, _ := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	return rendered
}

func panel(title, body string) string {
	return pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(body)
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func shorten(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
