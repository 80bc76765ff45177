package calcdb

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var ErrDocumentExists = errors.New("document already exists")

// Document is one completed (or scheduled) calculation, keyed by the
// canonical fingerprint of its structure.
type Document struct {
	Key         string    `json:"key"`
	Formula     string    `json:"formula"`
	Charge      int       `json:"charge"`
	FinalEnergy float64   `json:"final_energy,omitempty"`
	InsertedAt  time.Time `json:"inserted_at"`
}

// Store is the dedup gate consulted before adding fragment jobs.
type Store interface {
	// FindByKey returns the stored document for a fingerprint, or ok=false.
	FindByKey(key string) (Document, bool, error)
	// Insert stores a new document. Inserting an existing key fails with
	// ErrDocumentExists.
	Insert(doc Document) error
}

// MemoryStore keeps documents in memory.
type MemoryStore struct {
	lock sync.RWMutex
	docs map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document)}
}

func (s *MemoryStore) FindByKey(key string) (Document, bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	doc, ok := s.docs[key]

	return doc, ok, nil
}

func (s *MemoryStore) Insert(doc Document) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.docs[doc.Key]; ok {
		return errors.Wrap(ErrDocumentExists, doc.Key)
	}
	if doc.InsertedAt.IsZero() {
		doc.InsertedAt = time.Now()
	}
	s.docs[doc.Key] = doc

	return nil
}

var _ Store = (*MemoryStore)(nil)

// FileStore persists documents to a JSON file next to each insert. It backs
// deployments that point their credentials at a local path.
type FileStore struct {
	lock sync.Mutex
	path string
	mem  *MemoryStore
}

// OpenFileStore loads (or creates) the JSON document file.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, mem: NewMemoryStore()}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read store %s", path)
	}

	var docs []Document
	err = json.Unmarshal(data, &docs)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse store %s", path)
	}
	for _, doc := range docs {
		err = fs.mem.Insert(doc)
		if err != nil {
			return nil, err
		}
	}

	return fs, nil
}

func (s *FileStore) FindByKey(key string) (Document, bool, error) {
	return s.mem.FindByKey(key)
}

func (s *FileStore) Insert(doc Document) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	err := s.mem.Insert(doc)
	if err != nil {
		return err
	}

	return s.flush()
}

func (s *FileStore) flush() error {
	s.mem.lock.RLock()
	docs := make([]Document, 0, len(s.mem.docs))
	for _, doc := range s.mem.docs {
		docs = append(docs, doc)
	}
	s.mem.lock.RUnlock()

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return errors.Wrap(err, "unable to marshal documents")
	}

	return errors.Wrapf(os.WriteFile(s.path, data, 0o644), "unable to write store %s", s.path)
}

var _ Store = (*FileStore)(nil)

// Open connects a store from credentials: a path-backed file store when Path
// is set, an in-memory store otherwise.
func Open(creds *Credentials) (Store, error) {
	if creds != nil && creds.Path != "" {
		return OpenFileStore(creds.Path)
	}

	return NewMemoryStore(), nil
}
