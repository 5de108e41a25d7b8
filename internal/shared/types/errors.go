package types

import "errors"

var (
	ErrMissingColumn        = errors.New("dataset is missing a required column")
	ErrMalformedValue       = errors.New("dataset contains a malformed value")
	ErrUnsupportedSource    = errors.New("unsupported dataset source")
	ErrPublisherNotEnabled  = errors.New("MQTT broker is not configured")
	ErrUnsupportedExportFmt = errors.New("unsupported report type")
)
