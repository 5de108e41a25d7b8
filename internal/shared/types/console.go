package types

// ConsoleInterface define a interface para saída no console.
type ConsoleInterface interface {
	Print(a ...interface{})

	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})
	LogDebug(format string, a ...interface{})

	Section(title string)
	Status(message string) StatusHandle

	CreateTable() TableInterface
	DisplayBars(title string, bars []Bar)
	DisplayGroupedBars(title string, groups []GroupedBar)
	DisplayPie(title string, slices []Bar)
	DisplayHeatmap(title string, labels []string, values [][]float64)
}

// StatusHandle é uma interface para atualizar uma mensagem de status.
type StatusHandle interface {
	Update(message string)
	Stop()
}

// TableInterface define a interface para criar e manipular tabelas.
type TableInterface interface {
	AddColumn(name string, options ...interface{})
	AddRow(cells ...interface{})
	Render() string
}

// Bar is one labelled value of a bar or pie chart.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// GroupedBar carries several named series for one label, e.g. min/max/mean.
type GroupedBar struct {
	Label  string
	Series []Bar
}
