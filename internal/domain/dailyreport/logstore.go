package dailyreport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	apperrors "github.com/yanqian/dailyreport/pkg/errors"
)

const logContentType = "application/json; charset=utf-8"

// LogStore owns read-modify-write access to the report log blob.
type LogStore struct {
	storage BlobStorage
	key     string
	logger  *slog.Logger
}

// NewLogStore binds the store to one blob key.
func NewLogStore(storage BlobStorage, key string, logger *slog.Logger) *LogStore {
	return &LogStore{
		storage: storage,
		key:     key,
		logger:  logger.With("component", "dailyreport.logstore", "blob", key),
	}
}

// Load downloads and decodes the log. It never fails: a missing blob is an
// empty log, and a read or decode failure is an empty log with Err set.
func (s *LogStore) Load(ctx context.Context) Result[ReportLog] {
	s.logger.Info("attempting to download blob")
	data, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			s.logger.Info("blob does not exist yet, starting a new log")
			return succeeded(ReportLog{})
		}
		s.logger.Error("download report log failed", "error", err)
		return failed(ReportLog{}, apperrors.Wrap(apperrors.CodeLogLoad, "download report log", err))
	}

	var log ReportLog
	if err := json.Unmarshal(data, &log); err != nil {
		s.logger.Error("json decode error", "error", err, "bytes", len(data))
		return failed(ReportLog{}, apperrors.Wrap(apperrors.CodeLogLoad, "decode report log", err))
	}
	if log == nil {
		log = ReportLog{}
	}
	s.logger.Info("parsed report log", "entries", len(log))
	return succeeded(log)
}

// Save overwrites the blob with the full log.
func (s *LogStore) Save(ctx context.Context, log ReportLog) error {
	data, err := encodeLog(log)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeLogSave, "encode report log", err)
	}
	if err := s.storage.Put(ctx, s.key, data, logContentType); err != nil {
		return apperrors.Wrap(apperrors.CodeLogSave, "upload report log", err)
	}
	s.logger.Info("successfully uploaded updated report log", "entries", len(log), "bytes", len(data))
	return nil
}

// Append adds entry at the end of log without mutating the caller's slice.
func Append(log ReportLog, entry ReportEntry) ReportLog {
	out := make(ReportLog, 0, len(log)+1)
	out = append(out, log...)
	return append(out, entry)
}

func encodeLog(log ReportLog) ([]byte, error) {
	if log == nil {
		log = ReportLog{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(log); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
