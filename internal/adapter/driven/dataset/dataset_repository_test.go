package dataset

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/diillson/electricity-dashboard-go/internal/domain/entity"
	"github.com/diillson/electricity-dashboard-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Fan,Refrigerator,AirConditioner,Television,Monitor,MotorPump,Month,City,Company,MonthlyHours,TariffRate,ElectricityBill
16,23.0,2.0,6.0,1.0,0,10,Hyderabad,Tata Power Company Ltd.,384,8.4,3225.6
19,22.0,2.0,3.0,1.0,0,5,Vadodara,NHPC,488,7.8,3806.4
7,20.0,2.0,6.0,7.0,0,7,Shimla,Jyoti Structure,416,7.7,
`

func TestParse(t *testing.T) {
	ds, err := Parse(strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)

	assert.Equal(t, "sample.csv", ds.Source)
	require.Equal(t, 3, ds.Len())
	assert.Len(t, ds.Columns, 12)

	first := ds.Records[0]
	assert.Equal(t, "Hyderabad", first.City)
	assert.Equal(t, "Tata Power Company Ltd.", first.Company)
	assert.Equal(t, 10, first.Month)
	assert.Equal(t, 384.0, first.MonthlyHours)
	assert.Equal(t, 8.4, first.TariffRate)
	assert.Equal(t, 3225.6, first.ElectricityBill)
	assert.Equal(t, entity.UsageRecord{
		entity.Fan: 16, entity.Refrigerator: 23, entity.AirConditioner: 2,
		entity.Television: 6, entity.Monitor: 1,
	}, first.Usage)
	assert.Empty(t, first.Missing)

	last := ds.Records[2]
	assert.True(t, last.Missing[entity.ColumnElectricityBill])
	_, ok := last.Value(entity.ColumnElectricityBill)
	assert.False(t, ok)

	assert.Equal(t, 3, ds.Present["Fan"])
	assert.Equal(t, 2, ds.Present["ElectricityBill"])
	assert.Equal(t, 3, ds.Present["MotorPump"])
}

func TestParseStripsBOMAndSpaces(t *testing.T) {
	data := "\ufeffFan, Refrigerator, Television, AirConditioner, Monitor, TariffRate\n1, 2, 3, 4, 5, 0.1\n"

	ds, err := Parse(strings.NewReader(data), "bom.csv")
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "Fan", ds.Columns[0])
	assert.Equal(t, 15.0, ds.Records[0].Usage.Total())

	// Colunas opcionais ausentes ficam marcadas como faltantes.
	_, ok := ds.Records[0].Value(entity.ColumnMonth)
	assert.False(t, ok)
	_, _, ok = ds.MonthRange()
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		msg     string
	}{
		{
			name:    "Empty input",
			data:    "",
			wantErr: types.ErrMissingColumn,
		},
		{
			name:    "Missing appliance column",
			data:    "Fan,Refrigerator,Television,AirConditioner,TariffRate\n1,2,3,4,0.1\n",
			wantErr: types.ErrMissingColumn,
			msg:     "Monitor",
		},
		{
			name:    "Missing tariff column",
			data:    "Fan,Refrigerator,Television,AirConditioner,Monitor\n1,2,3,4,5\n",
			wantErr: types.ErrMissingColumn,
			msg:     "TariffRate",
		},
		{
			name:    "Non numeric hours",
			data:    "Fan,Refrigerator,Television,AirConditioner,Monitor,TariffRate\n1,two,3,4,5,0.1\n",
			wantErr: types.ErrMalformedValue,
			msg:     "row 2 column Refrigerator",
		},
		{
			name:    "Fractional month",
			data:    "Fan,Refrigerator,Television,AirConditioner,Monitor,TariffRate,Month\n1,2,3,4,5,0.1,2.5\n",
			wantErr: types.ErrMalformedValue,
			msg:     "whole month",
		},
		{
			name:    "Ragged row",
			data:    "Fan,Refrigerator,Television,AirConditioner,Monitor,TariffRate\n1,2,3\n",
			wantErr: types.ErrMalformedValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.data), "bad.csv")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "electricity_bill_dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	repo := NewDatasetRepository(types.AWSConfig{})
	ds, err := repo.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())

	_, err = repo.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = repo.Load(context.Background(), "https://example.com/data.csv")
	assert.ErrorIs(t, err, types.ErrUnsupportedSource)

	_, err = repo.Load(context.Background(), "")
	assert.ErrorIs(t, err, types.ErrUnsupportedSource)
}

type fakeObjectGetter struct {
	body   string
	err    error
	bucket string
	key    string
}

func (f *fakeObjectGetter) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = *params.Bucket
	f.key = *params.Key
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestLoadFromS3(t *testing.T) {
	fake := &fakeObjectGetter{body: sampleCSV}
	clientsCreated := 0
	repo := &DatasetRepositoryImpl{s3: &s3Source{
		newClient: func(ctx context.Context, awsCfg types.AWSConfig) (objectGetter, error) {
			clientsCreated++
			return fake, nil
		},
	}}

	ds, err := repo.Load(context.Background(), "s3://energy-data/india/electricity_bill_dataset.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, "energy-data", fake.bucket)
	assert.Equal(t, "india/electricity_bill_dataset.csv", fake.key)

	_, err = repo.Load(context.Background(), "s3://energy-data/india/electricity_bill_dataset.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, clientsCreated)

	fake.err = errors.New("access denied")
	_, err = repo.Load(context.Background(), "s3://energy-data/other.csv")
	assert.ErrorContains(t, err, "access denied")
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := parseS3URI("s3://bucket/path/to/file.csv")
	require.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "path/to/file.csv", key)

	for _, uri := range []string{"s3://bucket", "s3:///key", "s3://bucket/"} {
		_, _, err := parseS3URI(uri)
		assert.ErrorIs(t, err, types.ErrUnsupportedSource, uri)
	}
}
