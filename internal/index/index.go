// Package index records the org-roam IDs found in a directory of org files so
// that [[id:...]] links can be resolved to note names.
package index

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	"github.com/gerunddev/orgtree/internal/logger"
	"github.com/gerunddev/orgtree/internal/org"
	"github.com/gerunddev/orgtree/internal/source"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// FileEntry is the indexed state of a single file
type FileEntry struct {
	MTime int64    `json:"mtime"`
	Size  int64    `json:"size"`
	Hash  string   `json:"hash"`
	Title string   `json:"title,omitempty"`
	IDs   []string `json:"ids,omitempty"`
}

// Index maps org IDs to the notes that define them
type Index struct {
	Files map[string]*FileEntry `json:"files"`  // relative path -> entry
	IDMap map[string]string     `json:"id_map"` // org-id -> note name
}

// New creates a new empty index
func New() *Index {
	return &Index{
		Files: make(map[string]*FileEntry),
		IDMap: make(map[string]string),
	}
}

// DefaultPath returns the index file location under the XDG data directory
func DefaultPath() (string, error) {
	path, err := xdg.DataFile(filepath.Join("orgtree", "index.json"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve index path: %w", err)
	}
	return path, nil
}

// Load reads the index from path. A missing file yields an empty index.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, err
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse index %s: %w", path, err)
	}

	if idx.Files == nil {
		idx.Files = make(map[string]*FileEntry)
	}
	if idx.IDMap == nil {
		idx.IDMap = make(map[string]string)
	}

	return &idx, nil
}

// Save writes the index to path
func (idx *Index) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}

	return nil
}

// Lookup returns the note that defines id
func (idx *Index) Lookup(id string) (string, bool) {
	note, ok := idx.IDMap[NormalizeID(id)]
	return note, ok
}

// NormalizeID returns the canonical form of an org ID. UUIDs are lower-cased
// and stripped of braces or urn prefixes; anything else is only trimmed.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// ScanDirectory returns the files under dir with the given extension, sorted.
// Hidden directories are skipped.
func ScanDirectory(dir string, ext string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ext {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Result summarises an index build
type Result struct {
	FilesIndexed int
	Bytes        uint64 // parsed, not reused
	Reused       int
	Duplicates   []string
	Errors       []error
	StartTime    time.Time
	EndTime      time.Time
}

// String returns a human-readable summary of the build
func (r *Result) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	return fmt.Sprintf(
		"Index complete: %d files indexed (%s), %d unchanged, %d duplicate IDs, %d errors (took %v)",
		r.FilesIndexed,
		humanize.Bytes(r.Bytes),
		r.Reused,
		len(r.Duplicates),
		len(r.Errors),
		duration.Round(time.Millisecond),
	)
}

// Builder indexes directories of org files
type Builder struct {
	parser  *org.Parser
	log     *logger.Logger
	workers int
}

// NewBuilder creates a builder. A nil parser uses the default options and a
// nil logger discards output.
func NewBuilder(p *org.Parser, log *logger.Logger) *Builder {
	if p == nil {
		p = org.New(org.DefaultOptions())
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Builder{
		parser:  p,
		log:     log,
		workers: runtime.GOMAXPROCS(0),
	}
}

// SetWorkers bounds how many files are parsed at once
func (b *Builder) SetWorkers(n int) {
	if n > 0 {
		b.workers = n
	}
}

// Build indexes dir with default parser options
func Build(ctx context.Context, dir string, prev *Index) (*Index, error) {
	idx, _, err := NewBuilder(nil, nil).Build(ctx, dir, prev)
	return idx, err
}

type scanned struct {
	rel    string
	entry  *FileEntry
	reused bool
	err    error
}

// Build scans dir for .org files and indexes each one. Files whose mtime or
// hash match prev are not parsed again. Per-file failures are collected in
// the result; only a failed scan or a cancelled context is returned as an
// error.
func (b *Builder) Build(ctx context.Context, dir string, prev *Index) (*Index, *Result, error) {
	result := &Result{StartTime: time.Now()}
	if prev == nil {
		prev = New()
	}

	files, err := ScanDirectory(dir, ".org")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	out := make([]scanned, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				rel = path
			}
			rel = filepath.ToSlash(rel)
			entry, reused, err := b.indexFile(path, prev.Files[rel])
			out[i] = scanned{rel: rel, entry: entry, reused: reused, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	idx := New()
	for _, s := range out {
		if s.err != nil {
			b.log.FileError(s.rel, s.err)
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", s.rel, s.err))
			continue
		}
		idx.Files[s.rel] = s.entry
		if s.reused {
			result.Reused++
		} else {
			result.FilesIndexed++
			result.Bytes += uint64(s.entry.Size)
			b.log.FileIndexed(s.rel, len(s.entry.IDs))
		}

		note := NoteName(s.rel)
		for _, id := range s.entry.IDs {
			if other, taken := idx.IDMap[id]; taken {
				b.log.Skipped(s.rel, "duplicate id "+id+" already in "+other)
				result.Duplicates = append(result.Duplicates, id)
				continue
			}
			idx.IDMap[id] = note
		}
	}

	result.EndTime = time.Now()
	b.log.IndexCompleted(result.FilesIndexed, result.Reused, len(result.Errors), result.EndTime.Sub(result.StartTime))
	return idx, result, nil
}

// indexFile returns the entry for path, reusing prev when the file is
// unchanged. Uses hybrid mtime + hash approach.
func (b *Builder) indexFile(path string, prev *FileEntry) (*FileEntry, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}
	mtime := info.ModTime().Unix()

	// Fast path: check mtime first
	if prev != nil && prev.MTime == mtime {
		return prev, true, nil
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return nil, false, err
	}
	if prev != nil && prev.Hash == hash {
		reused := *prev
		reused.MTime = mtime
		reused.Size = info.Size()
		return &reused, true, nil
	}

	start := time.Now()
	lines, err := source.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	doc := b.parser.Parse(lines)

	entry := &FileEntry{
		MTime: mtime,
		Size:  info.Size(),
		Hash:  hash,
		Title: doc.Title(),
		IDs:   DocumentIDs(doc),
	}
	b.log.ParseCompleted(path, len(lines), len(doc.Sections()), time.Since(start))
	return entry, false, nil
}

// DocumentIDs returns the normalised IDs of the file drawer and every
// section, in document order, without repeats
func DocumentIDs(doc *org.Document) []string {
	var ids []string
	seen := make(map[string]bool)
	add := func(id string) {
		id = NormalizeID(id)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if d := doc.Drawer(); d != nil {
		if id, ok := d.Get("ID"); ok {
			add(id)
		}
	}
	doc.Walk(func(s *org.Section) bool {
		add(s.ID())
		return true
	})
	return ids
}

// NoteName returns the note name a wikilink uses for the file at rel
func NoteName(rel string) string {
	base := filepath.Base(filepath.FromSlash(rel))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
