// Package adapters はconversionフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fintools/internal/feature/conversion/domain/entity"
	"fintools/internal/feature/conversion/usecase"
	"fintools/internal/shared/timestamp"
)

// symbolCacheFile はSymbolCacheインターフェースのJSONファイル実装です。
//
// The file holds a JSON array of {"isin","symbol"} records sorted by symbol. Every write first
// renames the previous file to a timestamped backup next to it. All methods are safe for
// concurrent use; Merge holds the lock across its read-modify-write.
type symbolCacheFile struct {
	mu     sync.Mutex
	path   string
	now    timestamp.Clock
	logger *slog.Logger
}

var _ usecase.SymbolCache = (*symbolCacheFile)(nil)

// NewSymbolCacheFile creates a file-backed symbol cache stored at path.
// A nil clock uses timestamp.Now and a nil logger uses slog.Default().
func NewSymbolCacheFile(path string, now timestamp.Clock, logger *slog.Logger) *symbolCacheFile {
	if now == nil {
		now = timestamp.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &symbolCacheFile{path: path, now: now, logger: logger}
}

// Path returns the location of the cache file.
func (c *symbolCacheFile) Path() string {
	return c.path
}

// Read はキャッシュファイルを読み込みます。
// ファイルが存在しない、または壊れている場合は警告を出して空のマップを返します。
func (c *symbolCacheFile) Read(ctx context.Context) entity.SymbolMap {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

// Write persists m sorted by symbol, without error symbols. Unchanged content is not rewritten.
// The existing file is renamed to a backup first; a failed rename is logged and ignored, a failed
// write is returned.
func (c *symbolCacheFile) Write(ctx context.Context, m entity.SymbolMap) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(m)
}

// Merge は追加分からエラーシンボルを除外し、既存キャッシュに上書きして保存します。
func (c *symbolCacheFile) Merge(ctx context.Context, additions entity.SymbolMap) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.read()
	for isin, symbol := range additions.WithoutErrors() {
		current[isin] = symbol
	}
	return c.write(current)
}

// read は呼び出し側がロックを保持している前提です。
func (c *symbolCacheFile) read() entity.SymbolMap {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		c.logger.Info("symbol cache does not exist yet, starting empty", "path", c.path)
		return entity.SymbolMap{}
	}
	if err != nil {
		c.logger.Warn("cannot read symbol cache, starting empty", "path", c.path, "error", err)
		return entity.SymbolMap{}
	}

	var entries []entity.CacheEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("symbol cache is corrupt, starting empty", "path", c.path, "error", err)
		return entity.SymbolMap{}
	}
	return entity.FromEntries(entries)
}

// write は呼び出し側がロックを保持している前提です。
// The new content goes to a temp file in the same directory and is renamed into place, so the
// cache path never holds a partial file.
func (c *symbolCacheFile) write(m entity.SymbolMap) error {
	m = m.WithoutErrors()
	data, err := json.MarshalIndent(m.Entries(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode symbol cache: %w", err)
	}
	data = append(data, '\n')

	if existing, err := os.ReadFile(c.path); err == nil && bytes.Equal(existing, data) {
		c.logger.Debug("symbol cache unchanged, skipping write", "path", c.path, "entries", len(m))
		return nil
	}

	tempFile, err := os.CreateTemp(filepath.Dir(c.path), ".symbol_cache-*.tmp")
	if err != nil {
		return fmt.Errorf("write symbol cache %q: %w", c.path, err)
	}
	tempPath := tempFile.Name()
	success := false
	defer func() {
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("write symbol cache %q: %w", c.path, err)
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("sync symbol cache %q: %w", c.path, err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close symbol cache %q: %w", c.path, err)
	}

	backup := BackupPath(c.path, timestamp.Format(c.now()))
	if _, err := os.Stat(backup); err == nil {
		c.logger.Warn("replacing symbol cache backup from the same second", "backup", backup)
	}
	if err := os.Rename(c.path, backup); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("cannot back up symbol cache (ignored)", "path", c.path, "backup", backup, "error", err)
		}
	} else {
		c.logger.Debug("symbol cache backed up", "backup", backup)
	}

	if err := os.Rename(tempPath, c.path); err != nil {
		return fmt.Errorf("replace symbol cache %q: %w", c.path, err)
	}
	success = true
	c.logger.Info("symbol cache written", "path", c.path, "entries", len(m))
	return nil
}

// BackupPath returns path with its extension replaced by ".<ts>.json".
func BackupPath(path, ts string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + ts + ".json"
}
