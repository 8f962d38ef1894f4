package visitors

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/natefinch/atomic"

	"git.home.luguber.info/inful/stmartin/internal/foundation/errors"
)

// ExportFileName returns the monthly snapshot name for now, e.g. visitors-2026-02.csv.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("visitors-%s.csv", now.Format("2006-01"))
}

// Export writes the finalized daily history as a date,visitors CSV into dir and returns the
// file path. Today's live count is not part of the history and is never exported. An existing
// snapshot for the same month is replaced.
func Export(st State, dir string, now time.Time) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"date", "visitors"}); err != nil {
		return "", errors.InternalError("failed to encode export header").WithCause(err).Build()
	}
	for _, day := range sortedDays(st.DailyHistory) {
		if err := w.Write([]string{day, strconv.Itoa(st.DailyHistory[day])}); err != nil {
			return "", errors.InternalError("failed to encode export row").
				WithCause(err).
				WithContext("day", day).
				Build()
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.InternalError("failed to encode export").WithCause(err).Build()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.FileSystemError("failed to create exports directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	path := filepath.Join(dir, ExportFileName(now))
	if err := atomic.WriteFile(path, &buf); err != nil {
		return "", errors.FileSystemError("failed to write export").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return path, nil
}
