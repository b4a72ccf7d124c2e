package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileAdapter implements the LogAdapter interface for file output with
// simple size-based rotation
type FileAdapter struct {
	name    string
	config  FileConfig
	file    *os.File
	written int64
	mu      sync.Mutex
}

// FileConfig represents configuration for the file adapter
type FileConfig struct {
	FilePath   string `yaml:"file_path"`
	Format     string `yaml:"format"`      // json or text
	MaxSize    int64  `yaml:"max_size"`    // bytes before rotation, 0 disables
	CreateDirs bool   `yaml:"create_dirs"` // create parent directories
}

// NewFileAdapter creates a new file adapter
func NewFileAdapter(name string, config FileConfig) (*FileAdapter, error) {
	if config.FilePath == "" {
		return nil, fmt.Errorf("file_path is required for file adapter")
	}

	if config.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	a := &FileAdapter{name: name, config: config}
	if err := a.open(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *FileAdapter) open() error {
	file, err := os.OpenFile(a.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	a.file = file
	a.written = info.Size()
	return nil
}

// Write writes a log entry to the file, rotating first if the size cap is
// exceeded
func (a *FileAdapter) Write(entry *LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return fmt.Errorf("file adapter %s is closed", a.name)
	}

	var line string
	var err error
	if strings.ToLower(a.config.Format) == "text" {
		line = fmt.Sprintf("%s [%s] %s", entry.Timestamp.Format(time.RFC3339), strings.ToUpper(entry.Level.String()), entry.Message)
		for k, v := range entry.Fields {
			line += fmt.Sprintf(" %s=%v", k, v)
		}
	} else {
		logData := map[string]interface{}{
			"level":   entry.Level.String(),
			"message": entry.Message,
			"time":    entry.Timestamp.Format(time.RFC3339),
		}
		for k, v := range entry.Fields {
			logData[k] = v
		}
		var data []byte
		data, err = json.Marshal(logData)
		if err != nil {
			return err
		}
		line = string(data)
	}

	if a.config.MaxSize > 0 && a.written+int64(len(line))+1 > a.config.MaxSize {
		if err := a.rotate(); err != nil {
			return err
		}
	}

	n, err := fmt.Fprintln(a.file, line)
	a.written += int64(n)
	return err
}

// rotate renames the current file with a timestamp suffix and reopens
func (a *FileAdapter) rotate() error {
	if err := a.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file for rotation: %w", err)
	}

	rotated := fmt.Sprintf("%s.%s", a.config.FilePath, time.Now().Format("20060102T150405"))
	if err := os.Rename(a.config.FilePath, rotated); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	return a.open()
}

// Close closes the adapter
func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}

// Name returns the name of the adapter
func (a *FileAdapter) Name() string {
	return a.name
}
