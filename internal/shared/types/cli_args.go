package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile string
	Dataset    string
	Debug      bool
	ReportName string
	ReportType []string
	Dir        string

	// Explore
	ShowRaw            bool
	ShowSummary        bool
	ShowVisualizations bool
	RawLimit           int

	// Evaluate
	Appliance  string
	Usage      float64
	Rate       float64
	StartMonth *int
	EndMonth   *int
	Publish    bool

	MQTT MQTTConfig
	AWS  AWSConfig
}
