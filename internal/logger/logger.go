// Package logger is the process-wide session log. Entries are kept in a
// bounded in-memory buffer for the TUI logs view and appended to a file once
// Init has opened one.
package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const maxBufferSize = 1000

type Level string

const (
	LevelInfo      Level = "INFO"
	LevelError     Level = "ERROR"
	LevelMutation  Level = "MUTATION"
	LevelRun       Level = "RUN"
	LevelFileOpen  Level = "FILE_OPEN"
	LevelFileWrite Level = "FILE_WRITE"
)

type LogEntry struct {
	Timestamp time.Time
	Level     Level
	Message   string
}

func (e LogEntry) String() string {
	return fmt.Sprintf("[%s] %s", e.Level, e.Message)
}

type Logger struct {
	mu     sync.Mutex
	file   *os.File
	sink   *log.Logger
	buffer []LogEntry
}

var (
	mu       sync.Mutex
	instance *Logger
)

// Init opens logPath for appending and mirrors every later entry to it.
// Entries logged before Init stay in the buffer only. Calling Init again
// switches to the new file.
func Init(logPath string) error {
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l := current()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
	}
	l.file = file
	l.sink = log.New(file, "", log.LstdFlags)
	return nil
}

// EnsureInit creates the buffer-only logger if nothing has logged yet.
func EnsureInit() {
	current()
}

func current() *Logger {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = &Logger{buffer: make([]LogEntry, 0, maxBufferSize)}
	}
	return instance
}

// Close detaches and closes the log file. The buffer keeps working.
func Close() error {
	l := current()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.sink = nil
	return err
}

func GetLogs() []LogEntry {
	l := current()
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), l.buffer...)
}

func emit(level Level, message string) {
	l := current()
	entry := LogEntry{Timestamp: time.Now(), Level: level, Message: message}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.buffer) >= maxBufferSize {
		l.buffer = l.buffer[1:]
	}
	l.buffer = append(l.buffer, entry)

	if l.sink != nil {
		l.sink.Println(entry.String())
	}
}

func LogFileOpen(path string) {
	emit(LevelFileOpen, path)
}

func LogFileWrite(path string) {
	emit(LevelFileWrite, path)
}

// LogMutation records a remote change to the user's graph.
func LogMutation(operation, target string) {
	emit(LevelMutation, fmt.Sprintf("%s: %s", operation, target))
}

// LogRun records a bulk run lifecycle event.
func LogRun(kind, runID, message string, args ...interface{}) {
	emit(LevelRun, fmt.Sprintf("%s %s: ", kind, runID)+fmt.Sprintf(message, args...))
}

func LogError(operation, target string, err error) {
	emit(LevelError, fmt.Sprintf("%s: %s - %v", operation, target, err))
}

func Log(message string, args ...interface{}) {
	emit(LevelInfo, fmt.Sprintf(message, args...))
}
