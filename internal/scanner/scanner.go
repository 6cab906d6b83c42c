package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// ErrLogMissing marks the one scanner failure that must abort the run:
// the log file does not exist at all.
var ErrLogMissing = errors.New("log file not found")

// Scanner reads a line-oriented log incrementally across invocations,
// tracking its position as a byte offset.
type Scanner struct {
	path string
}

func New(path string) *Scanner {
	return &Scanner{path: path}
}

// Snapshot resolves the effective start offset for this run. A file smaller
// than the saved offset means the log was rotated or truncated; scanning
// restarts from byte zero.
func (s *Scanner) Snapshot(saved int64) (int64, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrLogMissing, s.path)
		}
		return 0, fmt.Errorf("stat log: %w", err)
	}
	if info.Size() < saved {
		zap.S().Infof("log rotation detected: resetting offset from %d to 0", saved)
		return 0, nil
	}
	return saved, nil
}

// Scan reads every line appended after offset and hands it to handle.
// The returned offset grows by the byte length of each consumed line,
// delimiter included, so it stays seek-compatible whatever the encoding.
// A final line without a trailing newline is consumed and counted too.
func (s *Scanner) Scan(offset int64, handle func(line string)) (int64, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return offset, fmt.Errorf("%w: %s", ErrLogMissing, s.path)
		}
		return offset, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log: %w", err)
	}

	reader := bufio.NewReader(f)
	newOffset := offset
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			newOffset += int64(len(line))
			handle(line)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return newOffset, fmt.Errorf("read log: %w", err)
		}
	}
	return newOffset, nil
}
