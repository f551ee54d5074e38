package journal

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"
	"unicode"

	"github.com/gofrs/flock"
	"github.com/oarkflow/errors"
	"github.com/oarkflow/json"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Record describes one program run.
type Record struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	OutputLines int       `json:"output_lines"`
	StartedAt   time.Time `json:"started_at"`
	DurationMs  int64     `json:"duration_ms"`
}

// Journal appends run records to a file holding a single JSON array. Writes
// take an flock on "<path>.lock" so several processes can share one journal.
type Journal struct {
	path     string
	file     *os.File
	fileLock *flock.Flock
	mu       sync.Mutex
	tailSize int64
}

func Open(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	j := &Journal{
		path:     path,
		file:     f,
		fileLock: flock.New(path + ".lock"),
		tailSize: 1024,
	}
	if err := j.validateOrInitialize(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) validateOrInitialize() error {
	fi, err := j.file.Stat()
	if err != nil {
		return err
	}
	if fi.Size() == 0 {
		if _, err := j.file.WriteAt([]byte("[\n]\n"), 0); err != nil {
			return err
		}
		return j.file.Sync()
	}
	head := make([]byte, 1)
	if _, err := j.file.ReadAt(head, 0); err != nil && err != io.EOF {
		return err
	}
	if head[0] != '[' {
		return errors.New("invalid journal file: missing opening bracket")
	}
	return nil
}

// Append adds rec to the end of the array.
func (j *Journal) Append(rec Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.fileLock.Lock(); err != nil {
		return err
	}
	defer func() {
		_ = j.fileLock.Unlock()
	}()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	fi, err := j.file.Stat()
	if err != nil {
		return err
	}
	tailSize := j.tailSize
	if fi.Size() < tailSize {
		tailSize = fi.Size()
	}
	offset := fi.Size() - tailSize
	buf := make([]byte, tailSize)
	if _, err := j.file.ReadAt(buf, offset); err != nil && err != io.EOF {
		return err
	}
	closing := bytes.LastIndexByte(buf, ']')
	if closing == -1 {
		return errors.New("invalid journal file: missing closing bracket")
	}
	pos := closing - 1
	for pos >= 0 && unicode.IsSpace(rune(buf[pos])) {
		pos--
	}
	if pos < 0 {
		return errors.New("invalid journal file: no content before closing bracket")
	}
	prefix := []byte(",\n  ")
	if buf[pos] == '[' {
		prefix = []byte("\n  ")
	}
	end := offset + int64(pos) + 1
	if err := j.file.Truncate(end); err != nil {
		return err
	}
	out := append(prefix, data...)
	out = append(out, []byte("\n]\n")...)
	if _, err := j.file.WriteAt(out, end); err != nil {
		return err
	}
	return j.file.Sync()
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// ReadAll loads every record in the journal at path.
func ReadAll(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
