package writer

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/tigerroll/windcapex/pkg/batch/adapter/storage"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// parquetParallelism is the number of goroutines parquet-go uses to encode a row group.
const parquetParallelism = 4

// ParquetWriterConfig holds the configuration for ParquetWriter.
type ParquetWriterConfig struct {
	// StorageRef is the name of the storage connection to upload to.
	StorageRef string `yaml:"storage_ref"`
	// OutputBaseDir is the directory inside the storage connection that receives the files.
	OutputBaseDir string `yaml:"output_base_dir"`
	// CompressionType is "SNAPPY" (default), "GZIP" or "NONE".
	CompressionType string `yaml:"compression_type"`
}

// ParquetWriter buffers items by partition key and, on Close, writes one Parquet file per
// partition to <OutputBaseDir>/<partition>/<file name>.
type ParquetWriter[T any] struct {
	name                      string
	config                    ParquetWriterConfig
	storageConnectionResolver storage.StorageConnectionResolver
	// itemPrototype is a pointer to a zero value of T, used for Parquet schema reflection.
	itemPrototype *T
	// partitionKeyFunc returns the partition directory of an item (e.g. "dt=2024-01-31").
	partitionKeyFunc func(T) (string, error)
	// fileNameFunc returns the file name for a partition.
	fileNameFunc func(partitionKey string) string

	storageConn          storage.StorageConnection
	bufferedItems        map[string][]T
	totalRecordsBuffered int64
	uploaded             []string
}

var _ ItemWriter[struct{}] = (*ParquetWriter[struct{}])(nil)

// NewParquetWriter creates a ParquetWriter. A nil fileNameFunc names files
// data_<timestamp>_<random>.parquet.
func NewParquetWriter[T any](
	name string,
	config ParquetWriterConfig,
	storageConnectionResolver storage.StorageConnectionResolver,
	itemPrototype *T,
	partitionKeyFunc func(T) (string, error),
	fileNameFunc func(partitionKey string) string,
) (*ParquetWriter[T], error) {
	if config.StorageRef == "" {
		return nil, exception.NewBatchErrorf("writer", exception.KindConfig, "ParquetWriter '%s' requires storage_ref", name)
	}
	if config.CompressionType == "" {
		config.CompressionType = "SNAPPY"
	}
	if _, err := getCompressionCodec(config.CompressionType); err != nil {
		return nil, exception.NewBatchErrorf("writer", exception.KindConfig, "ParquetWriter '%s'", name, err)
	}
	if fileNameFunc == nil {
		fileNameFunc = func(string) string {
			return fmt.Sprintf("data_%s_%s.parquet", time.Now().Format("20060102150405"), uuid.NewString()[:8])
		}
	}

	return &ParquetWriter[T]{
		name:                      name,
		config:                    config,
		storageConnectionResolver: storageConnectionResolver,
		itemPrototype:             itemPrototype,
		partitionKeyFunc:          partitionKeyFunc,
		fileNameFunc:              fileNameFunc,
		bufferedItems:             make(map[string][]T),
	}, nil
}

// Open resolves the storage connection and clears the buffers.
func (w *ParquetWriter[T]) Open(ctx context.Context) error {
	conn, err := w.storageConnectionResolver.ResolveStorageConnection(ctx, w.config.StorageRef)
	if err != nil {
		return exception.NewBatchErrorf("writer", exception.KindWrite,
			"failed to resolve storage connection '%s' for ParquetWriter '%s'", w.config.StorageRef, w.name, err)
	}
	w.storageConn = conn
	w.bufferedItems = make(map[string][]T)
	w.totalRecordsBuffered = 0
	w.uploaded = nil

	logger.Infof("ParquetWriter '%s' opened. Target storage: %s, base directory: %s", w.name, w.config.StorageRef, w.config.OutputBaseDir)
	return nil
}

// Write buffers items under their partition key. Nothing is uploaded before Close.
func (w *ParquetWriter[T]) Write(ctx context.Context, items []T) error {
	for _, item := range items {
		partitionKey, err := w.partitionKeyFunc(item)
		if err != nil {
			return exception.NewBatchErrorf("writer", exception.KindWrite,
				"failed to get partition key in ParquetWriter '%s'", w.name, err)
		}
		w.bufferedItems[partitionKey] = append(w.bufferedItems[partitionKey], item)
		w.totalRecordsBuffered++
	}
	logger.Debugf("ParquetWriter '%s' buffered %d items. Total buffered: %d.", w.name, len(items), w.totalRecordsBuffered)
	return nil
}

// Close encodes and uploads every partition, in key order. Failures of individual partitions
// are aggregated; the other partitions are still attempted.
func (w *ParquetWriter[T]) Close(ctx context.Context) error {
	if w.totalRecordsBuffered == 0 {
		logger.Infof("ParquetWriter '%s': No records buffered, skipping Parquet file generation.", w.name)
		return nil
	}
	if w.storageConn == nil {
		return exception.NewBatchErrorf("writer", exception.KindWrite, "ParquetWriter '%s' is not open", w.name)
	}

	codec, _ := getCompressionCodec(w.config.CompressionType)

	keys := make([]string, 0, len(w.bufferedItems))
	for k := range w.bufferedItems {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var multiErr *multierror.Error
	for _, partitionKey := range keys {
		items := w.bufferedItems[partitionKey]
		buf, err := w.encode(items, codec)
		if err != nil {
			multiErr = multierror.Append(multiErr, exception.NewBatchErrorf("writer", exception.KindWrite,
				"failed to encode partition '%s' in ParquetWriter '%s'", partitionKey, w.name, err))
			continue
		}

		objectName := path.Join(w.config.OutputBaseDir, partitionKey, w.fileNameFunc(partitionKey))
		logger.Debugf("ParquetWriter '%s': Uploading %d bytes to %s/%s", w.name, buf.Len(), w.config.StorageRef, objectName)
		if err := w.storageConn.Upload(ctx, "", objectName, buf, "application/octet-stream"); err != nil {
			multiErr = multierror.Append(multiErr, exception.NewBatchErrorf("writer", exception.KindWrite,
				"failed to upload '%s' in ParquetWriter '%s'", objectName, w.name, err))
			continue
		}
		w.uploaded = append(w.uploaded, objectName)
		logger.Infof("ParquetWriter '%s': Uploaded %d rows to %s", w.name, len(items), objectName)
	}

	w.bufferedItems = make(map[string][]T)
	w.totalRecordsBuffered = 0
	return multiErr.ErrorOrNil()
}

// encode writes items as one row group. Panics inside parquet-go are returned as errors.
func (w *ParquetWriter[T]) encode(items []T, codec parquet.CompressionCodec) (buf *bytes.Buffer, err error) {
	buf = new(bytes.Buffer)
	pw, err := writer.NewParquetWriterFromWriter(buf, w.itemPrototype, parquetParallelism)
	if err != nil {
		return nil, fmt.Errorf("create Parquet writer: %w", err)
	}
	pw.CompressionType = codec

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("ParquetWriter '%s': Recovered from panic: %v", w.name, r)
			buf, err = nil, fmt.Errorf("parquet writer panicked: %v", r)
		}
	}()

	for _, item := range items {
		if err := pw.Write(item); err != nil {
			return nil, fmt.Errorf("write item: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("finalize file: %w", err)
	}
	return buf, nil
}

// Uploaded returns the object names written by the last Close.
func (w *ParquetWriter[T]) Uploaded() []string {
	return w.uploaded
}

func getCompressionCodec(compressionType string) (parquet.CompressionCodec, error) {
	switch strings.ToUpper(compressionType) {
	case "SNAPPY":
		return parquet.CompressionCodec_SNAPPY, nil
	case "GZIP":
		return parquet.CompressionCodec_GZIP, nil
	case "NONE", "":
		return parquet.CompressionCodec_UNCOMPRESSED, nil
	default:
		return 0, fmt.Errorf("unsupported compression type: %s", compressionType)
	}
}

func (w *ParquetWriter[T]) GetTargetResourceName() string {
	return w.config.StorageRef
}

func (w *ParquetWriter[T]) GetResourcePath() string {
	return w.config.OutputBaseDir
}
