package refs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/odvcencio/twig/pkg/object"
)

const zeroHash = "0000000000000000000000000000000000000000"

// ReflogEntry records one direct-value write of a ref.
type ReflogEntry struct {
	Ref       string
	OldHash   object.Hash
	NewHash   object.Hash
	Timestamp int64
	Reason    string
}

func (s *Store) logPath(name string) string {
	return filepath.Join(s.root, "logs", filepath.FromSlash(name))
}

func (s *Store) appendReflog(name string, oldHash, newHash object.Hash, reason string) error {
	if strings.TrimSpace(reason) == "" {
		reason = "update"
	}
	reason = strings.ReplaceAll(reason, "\n", " ")

	p := s.logPath(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("reflog mkdir: %w", err)
	}

	old := string(oldHash)
	if old == "" {
		old = zeroHash
	}
	line := fmt.Sprintf("%s %s %d %s\n", old, newHash, time.Now().Unix(), reason)

	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("reflog open: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("reflog write: %w", err)
	}
	return nil
}

// ReadReflog returns the reflog of name, newest first. A limit of zero or
// less returns every entry. The log is read at name itself; callers wanting
// the log behind a symbolic ref resolve it first.
func (s *Store) ReadReflog(name string, limit int) ([]ReflogEntry, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(s.logPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reflog: %w", err)
	}
	defer f.Close()

	var entries []ReflogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 4)
		if len(parts) < 4 {
			continue
		}
		ts, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			continue
		}
		old := object.Hash(parts[0])
		if old == zeroHash {
			old = ""
		}
		entries = append(entries, ReflogEntry{
			Ref:       name,
			OldHash:   old,
			NewHash:   object.Hash(parts[1]),
			Timestamp: ts,
			Reason:    parts[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read reflog: %w", err)
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
