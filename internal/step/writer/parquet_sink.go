package writer

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tigerroll/windcapex/internal/domain"
	"github.com/tigerroll/windcapex/pkg/batch/adapter/storage"
	itemwriter "github.com/tigerroll/windcapex/pkg/batch/component/step/writer"
	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
)

// parquetFields maps a column name to the index of its ParquetRow field.
var parquetFields = func() map[string]int {
	t := reflect.TypeOf(ParquetRow{})
	fields := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		fields[ParquetColumnName(t.Field(i))] = i
	}
	return fields
}()

// ParquetColumnName returns the name= entry of a field's parquet tag.
func ParquetColumnName(f reflect.StructField) string {
	for _, part := range strings.Split(f.Tag.Get("parquet"), ",") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "name=") {
			return strings.TrimPrefix(part, "name=")
		}
	}
	return ""
}

// ParquetSink exports the batch as one Parquet file through a storage connection, at
// <output_base_dir>/dt=<run date>/wind_capex_<run id>.parquet.
type ParquetSink struct {
	cfg      config.ParquetSinkConfig
	resolver storage.StorageConnectionResolver
	loc      *time.Location
	now      Clock

	lastObjects []string
}

var _ SinkWriter = (*ParquetSink)(nil)

// NewParquetSink creates a Parquet sink.
func NewParquetSink(cfg config.ParquetSinkConfig, resolver storage.StorageConnectionResolver, loc *time.Location) *ParquetSink {
	return &ParquetSink{cfg: cfg, resolver: resolver, loc: loc, now: time.Now}
}

// WithClock replaces the time source.
func (s *ParquetSink) WithClock(now Clock) *ParquetSink {
	s.now = now
	return s
}

func (s *ParquetSink) Name() string { return config.SinkTypeParquet }

// Objects returns the object names uploaded by the last Write.
func (s *ParquetSink) Objects() []string {
	return s.lastObjects
}

// Write converts the batch and uploads it. The run id from ctx names the file; a random id is
// used when ctx carries none.
func (s *ParquetSink) Write(ctx context.Context, batch domain.Batch) (int, error) {
	rows, err := toParquetRows(batch)
	if err != nil {
		return 0, err
	}

	runID := domain.RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.NewString()
	}
	partition := "dt=" + runDate(s.now, s.loc)

	w, err := itemwriter.NewParquetWriter[ParquetRow](
		"parquet-sink",
		itemwriter.ParquetWriterConfig{
			StorageRef:      s.cfg.StorageRef,
			OutputBaseDir:   s.cfg.OutputBaseDir,
			CompressionType: s.cfg.CompressionType,
		},
		s.resolver,
		new(ParquetRow),
		func(ParquetRow) (string, error) { return partition, nil },
		func(string) string { return fmt.Sprintf("wind_capex_%s.parquet", runID) },
	)
	if err != nil {
		return 0, err
	}
	if err := w.Open(ctx); err != nil {
		return 0, err
	}
	if err := w.Write(ctx, rows); err != nil {
		return 0, err
	}
	if err := w.Close(ctx); err != nil {
		return 0, err
	}
	s.lastObjects = w.Uploaded()
	return len(rows), nil
}

func toParquetRows(batch domain.Batch) ([]ParquetRow, error) {
	index := make([]int, len(batch.Columns))
	for j, col := range batch.Columns {
		fi, ok := parquetFields[col]
		if !ok {
			return nil, exception.NewBatchErrorf("sink.parquet", exception.KindWrite, "column %q has no Parquet field", col)
		}
		index[j] = fi
	}

	rows := make([]ParquetRow, len(batch.Rows))
	for i, row := range batch.Rows {
		rv := reflect.ValueOf(&rows[i]).Elem()
		for j, v := range row {
			if v.IsNull() {
				continue
			}
			field := rv.Field(index[j])
			switch field.Type().Elem().Kind() {
			case reflect.Float64:
				if f, ok := v.Float64(); ok {
					field.Set(reflect.ValueOf(&f))
				}
			default:
				s := v.Render()
				field.Set(reflect.ValueOf(&s))
			}
		}
	}
	return rows, nil
}
