package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Dataset    string     `json:"dataset" yaml:"dataset" toml:"dataset"`
	Rate       *float64   `json:"rate" yaml:"rate" toml:"rate"`
	Appliance  string     `json:"appliance" yaml:"appliance" toml:"appliance"`
	Usage      *float64   `json:"usage" yaml:"usage" toml:"usage"`
	StartMonth *int       `json:"start_month" yaml:"start_month" toml:"start_month"`
	EndMonth   *int       `json:"end_month" yaml:"end_month" toml:"end_month"`
	ReportName string     `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType []string   `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir        string     `json:"dir" yaml:"dir" toml:"dir"`
	MQTT       MQTTConfig `json:"mqtt" yaml:"mqtt" toml:"mqtt"`
	AWS        AWSConfig  `json:"aws" yaml:"aws" toml:"aws"`
}

// MQTTConfig configures the broker bill estimates are published to.
type MQTTConfig struct {
	Broker      string `json:"broker" yaml:"broker" toml:"broker"` // host:port
	Username    string `json:"username" yaml:"username" toml:"username"`
	Password    string `json:"password" yaml:"password" toml:"password"`
	ClientID    string `json:"client_id" yaml:"client_id" toml:"client_id"`
	TopicPrefix string `json:"topic_prefix" yaml:"topic_prefix" toml:"topic_prefix"`
}

// AWSConfig selects credentials for datasets read from S3.
type AWSConfig struct {
	Profile string `json:"profile" yaml:"profile" toml:"profile"`
	Region  string `json:"region" yaml:"region" toml:"region"`
}
