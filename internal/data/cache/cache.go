package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-time-tracer/internal/core/model"
	"github.com/penwyp/go-time-tracer/internal/data/parser"
	"github.com/penwyp/go-time-tracer/internal/util"
)

type CacheMissReason int

const (
	MissReasonNone CacheMissReason = iota
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonNoFingerprint
	MissReasonConfig
	MissReasonNotFound
)

func (r CacheMissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "error"
	case MissReasonInode:
		return "inode"
	case MissReasonSize:
		return "size"
	case MissReasonModTime:
		return "modtime"
	case MissReasonFingerprint:
		return "fingerprint"
	case MissReasonNoFingerprint:
		return "no_fingerprint"
	case MissReasonConfig:
		return "config"
	default:
		return "not_found"
	}
}

// Entry is the cached parse result of one source file.
type Entry struct {
	FilePath           string            `json:"filePath"`
	ConfigFingerprint  string            `json:"configFingerprint"`
	LastModified       int64             `json:"lastModified"`
	FileSize           int64             `json:"fileSize"`
	Inode              uint64            `json:"inode"`
	ContentFingerprint string            `json:"contentFingerprint,omitempty"`
	Lines              int               `json:"lines"`
	Days               []*model.DailyLog `json:"days"`
	Errors             []model.Error     `json:"errors,omitempty"`
}

// NewEntry captures a successful parse result.
func NewEntry(result parser.ParseResult) *Entry {
	e := &Entry{
		FilePath: result.File,
		Lines:    result.Lines,
		Days:     result.Days,
	}
	if result.Errors != nil {
		e.Errors = result.Errors.Sorted()
	}
	return e
}

// Result rebuilds the parse result the entry was created from.
func (e *Entry) Result() parser.ParseResult {
	errs := model.NewErrorSet(e.FilePath)
	for _, err := range e.Errors {
		errs.Add(err)
	}
	return parser.ParseResult{File: e.FilePath, Days: e.Days, Errors: errs, Lines: e.Lines}
}

type CacheResult struct {
	Entry      *Entry
	Found      bool
	MissReason CacheMissReason
}

type Cache interface {
	Get(path string) CacheResult
	Set(path string, entry *Entry) error
	Clear() error
}

// FileCache keeps entries in memory and as one JSON file per source file.
// Entries are only valid for the configuration fingerprint they were built with.
type FileCache struct {
	baseDir           string
	configFingerprint string
	mu                sync.RWMutex
	memoryCache       map[string]*Entry
}

// Verify *FileCache satisfies Cache at compile time.
var _ Cache = (*FileCache)(nil)

func NewFileCache(baseDir, configFingerprint string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &FileCache{
		baseDir:           baseDir,
		configFingerprint: configFingerprint,
		memoryCache:       make(map[string]*Entry),
	}, nil
}

// cacheFileName maps a source path to a flat file name,
// e.g. "/logs/2025.txt" -> "2025-1a2b3c4d.json".
func cacheFileName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s-%s.json", base, util.ContentFingerprint(path))
}

func (c *FileCache) Get(path string) CacheResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if memData, exists := c.memoryCache[path]; exists {
		if ret := c.validate(memData); ret == MissReasonNone {
			return CacheResult{Entry: memData, Found: true}
		}
		delete(c.memoryCache, path)
	}

	return c.getFromFile(path)
}

func (c *FileCache) getFromFile(path string) CacheResult {
	data, err := os.ReadFile(filepath.Join(c.baseDir, cacheFileName(path)))
	if err != nil {
		return CacheResult{MissReason: MissReasonNotFound}
	}

	var entry Entry
	if err := sonic.Unmarshal(data, &entry); err != nil {
		util.LogDebugf("Cache entry for %s is unreadable: %v", path, err)
		return CacheResult{MissReason: MissReasonError}
	}
	if entry.FilePath == "" {
		entry.FilePath = path
	}

	if reason := c.validate(&entry); reason != MissReasonNone {
		return CacheResult{MissReason: reason}
	}

	c.memoryCache[path] = &entry
	return CacheResult{Entry: &entry, Found: true}
}

func (c *FileCache) validate(entry *Entry) CacheMissReason {
	if entry.ConfigFingerprint != c.configFingerprint {
		util.LogDebugf("Cache invalidated for %s: configuration changed", entry.FilePath)
		return MissReasonConfig
	}

	currentInfo, err := util.GetFileInfo(entry.FilePath)
	if err != nil {
		util.LogDebugf("Cache validation failed for %s: unable to get file info: %v", entry.FilePath, err)
		return MissReasonError
	}

	if currentInfo.Inode != entry.Inode {
		util.LogDebugf("Cache invalidated for %s: inode changed (cached: %d, current: %d)",
			entry.FilePath, entry.Inode, currentInfo.Inode)
		return MissReasonInode
	}
	if currentInfo.Size != entry.FileSize {
		util.LogDebugf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			entry.FilePath, entry.FileSize, currentInfo.Size)
		return MissReasonSize
	}
	if currentInfo.ModTime != entry.LastModified {
		util.LogDebugf("Cache invalidated for %s: modtime changed (cached: %d, current: %d)",
			entry.FilePath, entry.LastModified, currentInfo.ModTime)
		return MissReasonModTime
	}

	// Files untouched for two days are trusted on metadata alone.
	if time.Since(time.Unix(currentInfo.ModTime, 0)) > 48*time.Hour {
		return MissReasonNone
	}

	if entry.ContentFingerprint == "" {
		return MissReasonNoFingerprint
	}
	fingerprint, err := util.CalculateFileFingerprint(entry.FilePath)
	if err != nil {
		return MissReasonNoFingerprint
	}
	if fingerprint != entry.ContentFingerprint {
		util.LogDebugf("Cache invalidated for %s: fingerprint mismatch (cached: %s, current: %s)",
			entry.FilePath, entry.ContentFingerprint, fingerprint)
		return MissReasonFingerprint
	}
	return MissReasonNone
}

// Set stamps entry with the current file version and stores it.
func (c *FileCache) Set(path string, entry *Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fileInfo, err := util.GetFileInfo(path)
	if err != nil {
		return err
	}

	entry.FilePath = path
	entry.ConfigFingerprint = c.configFingerprint
	entry.LastModified = fileInfo.ModTime
	entry.FileSize = fileInfo.Size
	entry.Inode = fileInfo.Inode
	if fingerprint, err := util.CalculateFileFingerprint(path); err == nil {
		entry.ContentFingerprint = fingerprint
	}

	data, err := sonic.ConfigStd.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(c.baseDir, cacheFileName(path)), data, 0644); err != nil {
		return err
	}

	c.memoryCache[path] = entry
	return nil
}

func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache = make(map[string]*Entry)

	return filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".json" {
			os.Remove(path)
		}
		return nil
	})
}

// GetCacheStats returns the number of entries in memory and on disk.
func (c *FileCache) GetCacheStats() (memoryCount, fileCount int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	memoryCount = len(c.memoryCache)
	filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(path), ".json") {
			fileCount++
		}
		return nil
	})
	return memoryCount, fileCount
}
