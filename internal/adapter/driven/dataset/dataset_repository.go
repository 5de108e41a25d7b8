package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/diillson/electricity-dashboard-go/internal/domain/entity"
	"github.com/diillson/electricity-dashboard-go/internal/domain/repository"
	"github.com/diillson/electricity-dashboard-go/internal/shared/types"
)

// DatasetRepositoryImpl implementa o DatasetRepository para arquivos locais e S3.
type DatasetRepositoryImpl struct {
	s3 *s3Source
}

// NewDatasetRepository cria uma nova implementação do DatasetRepository.
func NewDatasetRepository(awsCfg types.AWSConfig) repository.DatasetRepository {
	return &DatasetRepositoryImpl{s3: newS3Source(awsCfg)}
}

// Load lê o dataset de um caminho local ou de uma URI s3://bucket/key.
func (r *DatasetRepositoryImpl) Load(ctx context.Context, source string) (*entity.Dataset, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: empty dataset path", types.ErrUnsupportedSource)
	}

	if strings.HasPrefix(source, s3Scheme) {
		body, err := r.s3.open(ctx, source)
		if err != nil {
			return nil, err
		}
		defer body.Close()
		return Parse(body, source)
	}

	if strings.Contains(source, "://") {
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedSource, source)
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("error opening dataset: %w", err)
	}
	defer file.Close()

	return Parse(file, source)
}

// requiredColumns are the columns the bill estimator cannot work without.
var requiredColumns = append(entity.ApplianceNames(), entity.ColumnTariffRate)

// Parse reads household records from CSV. Columns are matched by header name and
// unknown columns are ignored. Blank and NaN cells are recorded as missing.
func Parse(r io.Reader, source string) (*entity.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s is empty", types.ErrMissingColumn, source)
		}
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		columns[i] = name
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	for _, required := range requiredColumns {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s", types.ErrMissingColumn, required)
		}
	}

	// Colunas conhecidas ausentes do cabeçalho ficam marcadas como faltantes em todos os registros.
	var absent []string
	for _, c := range append([]string{entity.ColumnCity, entity.ColumnCompany}, entity.NumericColumns...) {
		if _, ok := index[c]; !ok {
			absent = append(absent, c)
		}
	}

	ds := &entity.Dataset{
		Source:  source,
		Columns: columns,
		Present: make(map[string]int, len(columns)),
	}

	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrMalformedValue, err)
		}

		for i, cell := range row {
			if i < len(columns) && !isBlank(cell) {
				ds.Present[columns[i]]++
			}
		}

		record, err := parseRecord(row, index, absent, line)
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, record)
	}

	return ds, nil
}

func parseRecord(row []string, index map[string]int, absent []string, line int) (entity.HouseholdRecord, error) {
	record := entity.HouseholdRecord{Usage: entity.UsageRecord{}}
	for _, c := range absent {
		markMissing(&record, c)
	}

	cell := func(column string) (string, bool) {
		i, ok := index[column]
		if !ok || i >= len(row) || isBlank(row[i]) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	number := func(column string) (float64, bool, error) {
		raw, ok := cell(column)
		if !ok {
			if _, inHeader := index[column]; inHeader {
				markMissing(&record, column)
			}
			return 0, false, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(v, 0) {
			return 0, false, fmt.Errorf("%w: row %d column %s: %q", types.ErrMalformedValue, line, column, raw)
		}
		return v, true, nil
	}

	if v, ok := cell(entity.ColumnCity); ok {
		record.City = v
	} else if _, inHeader := index[entity.ColumnCity]; inHeader {
		markMissing(&record, entity.ColumnCity)
	}
	if v, ok := cell(entity.ColumnCompany); ok {
		record.Company = v
	} else if _, inHeader := index[entity.ColumnCompany]; inHeader {
		markMissing(&record, entity.ColumnCompany)
	}

	month, ok, err := number(entity.ColumnMonth)
	if err != nil {
		return record, err
	}
	if ok {
		if month != math.Trunc(month) {
			return record, fmt.Errorf("%w: row %d column %s: %v is not a whole month", types.ErrMalformedValue, line, entity.ColumnMonth, month)
		}
		record.Month = int(month)
	}

	targets := []struct {
		column string
		value  *float64
	}{
		{entity.ColumnMonthlyHours, &record.MonthlyHours},
		{entity.ColumnTariffRate, &record.TariffRate},
		{entity.ColumnElectricityBill, &record.ElectricityBill},
	}
	for _, target := range targets {
		v, _, err := number(target.column)
		if err != nil {
			return record, err
		}
		*target.value = v
	}

	for _, a := range entity.Appliances {
		v, ok, err := number(string(a))
		if err != nil {
			return record, err
		}
		if ok {
			record.Usage[a] = v
		}
	}

	return record, nil
}

func markMissing(record *entity.HouseholdRecord, column string) {
	if record.Missing == nil {
		record.Missing = make(map[string]bool)
	}
	record.Missing[column] = true
}

func isBlank(cell string) bool {
	v := strings.TrimSpace(cell)
	return v == "" || strings.EqualFold(v, "nan")
}
