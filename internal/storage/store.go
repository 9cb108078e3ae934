package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/orbits/internal/physics"
)

// Store keeps saved body documents in a single directory.
type Store struct {
	baseDir string
	codec   *Codec
	now     func() time.Time
}

func New(baseDir string, codec *Codec) *Store {
	return &Store{baseDir: baseDir, codec: codec, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// SaveEntry describes a document in the store.
type SaveEntry struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Bodies   int       `json:"bodies"`
	Modified time.Time `json:"modified"`
}

// NextPath returns a fresh timestamped path inside the store.
func (s *Store) NextPath() string {
	name := fmt.Sprintf("bodies-%d.json", s.now().Unix())
	path := filepath.Join(s.baseDir, name)
	for i := 1; fileExists(path); i++ {
		path = filepath.Join(s.baseDir, fmt.Sprintf("bodies-%d-%d.json", s.now().Unix(), i))
	}
	return path
}

// Save writes bodies to a new timestamped document and returns its path.
func (s *Store) Save(bodies []physics.Body) (string, error) {
	path := s.NextPath()
	if err := s.codec.Save(path, bodies); err != nil {
		return "", err
	}
	return path, nil
}

// List returns readable documents, newest first. Unreadable files are skipped.
func (s *Store) List() ([]SaveEntry, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveEntry{}, nil
		}
		return nil, err
	}

	saves := make([]SaveEntry, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		path := filepath.Join(s.baseDir, entry.Name())
		bodies, err := s.codec.Load(path)
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		saves = append(saves, SaveEntry{
			Name:     entry.Name(),
			Path:     path,
			Bodies:   len(bodies),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(saves, func(i, j int) bool {
		if saves[i].Modified.Equal(saves[j].Modified) {
			return saves[i].Name > saves[j].Name
		}
		return saves[i].Modified.After(saves[j].Modified)
	})
	return saves, nil
}

// Latest returns the path of the newest document, or "" when the store is empty.
func (s *Store) Latest() (string, error) {
	saves, err := s.List()
	if err != nil {
		return "", err
	}
	if len(saves) == 0 {
		return "", nil
	}
	return saves[0].Path, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
