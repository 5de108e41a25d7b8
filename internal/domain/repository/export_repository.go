package repository

import (
	"github.com/diillson/electricity-dashboard-go/internal/domain/entity"
)

type ExportRepository interface {
	ExportToCSV(report *entity.DashboardReport, filename, outputDir string) (string, error)
	ExportToJSON(report *entity.DashboardReport, filename, outputDir string) (string, error)
	ExportToPDF(report *entity.DashboardReport, filename, outputDir string) (string, error)
	ExportToSQLite(report *entity.DashboardReport, filename, outputDir string) (string, error)
}
