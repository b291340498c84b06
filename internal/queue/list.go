package queue

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"voice-memo-go/internal/correction"
	"voice-memo-go/internal/intent"
	"voice-memo-go/internal/types"
)

// Sibling folders created next to the queue root by Init.
var layout = []string{"processed", "failed"}

// List returns the memos filed under root, newest first. A missing root is an
// empty queue. Entries without a transcript file are still listed.
func List(root string) ([]types.QueueEntry, error) {
	dirents, err := os.ReadDir(root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read queue: %w", err)
	}

	entries := make([]types.QueueEntry, 0, len(dirents))
	for _, d := range dirents {
		if !d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			continue
		}
		info, err := d.Info()
		if err != nil {
			continue
		}
		dir := filepath.Join(root, d.Name())
		e := types.QueueEntry{Name: d.Name(), Path: dir, ModTime: info.ModTime()}
		if fi, err := os.Stat(filepath.Join(dir, AudioFile)); err == nil {
			e.AudioBytes = fi.Size()
		}
		if b, err := os.ReadFile(filepath.Join(dir, TranscriptFile)); err == nil {
			e.Transcript = strings.TrimSpace(string(b))
		}
		e.Intent = intent.Classify(correction.Resolve(e.Transcript))
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].ModTime.Equal(entries[j].ModTime) {
			return entries[i].ModTime.After(entries[j].ModTime)
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Init creates the queue root and its processed/failed siblings, each with a
// .gitkeep. Existing folders and files are left alone.
func Init(root string) ([]string, error) {
	if root == "" {
		root = DefaultRoot
	}
	parent := filepath.Dir(filepath.Clean(root))
	dirs := []string{root}
	for _, name := range layout {
		dirs = append(dirs, filepath.Join(parent, name))
	}
	var created []string
	for _, d := range dirs {
		if _, err := os.Stat(d); err != nil {
			created = append(created, d)
		}
		if err := os.MkdirAll(d, 0o755); err != nil {
			return created, fmt.Errorf("create %s: %w", d, err)
		}
		keep := filepath.Join(d, ".gitkeep")
		f, err := os.OpenFile(keep, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil && !errors.Is(err, os.ErrExist) {
			return created, fmt.Errorf("create %s: %w", keep, err)
		}
		if f != nil {
			f.Close()
		}
	}
	return created, nil
}

// FormatSize renders a byte count the way the queue listing shows it:
// "512 B", "1.5 KB", "3.2 MB".
func FormatSize(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	size := float64(n)
	for _, unit := range []string{"KB", "MB", "GB"} {
		size /= 1024
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
	}
	return fmt.Sprintf("%.1f TB", size/1024)
}

// Preview shortens a transcript to max runes for one-line display.
func Preview(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if max <= 0 || len(r) <= max {
		return text
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
