package client

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/signadot/go-ofx/debug"
	"github.com/signadot/go-ofx/format"
)

// FinancialInstitutionData is what a client needs to reach an institution.
type FinancialInstitutionData struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Organization string         `json:"org"`
	FID          string         `json:"fid,omitempty"`
	URL          string         `json:"url"`
	OFXVersion   format.Dialect `json:"ofxVersion,omitempty"`
}

func (d *FinancialInstitutionData) String() string {
	return fmt.Sprintf("%s (%s) %s", d.ID, d.Name, d.URL)
}

var ErrUnknownInstitution = errors.New("unknown institution")

// DataStore looks up institution data by id.
type DataStore interface {
	Get(id string) (*FinancialInstitutionData, error)
	List() []*FinancialInstitutionData
}

type storeFile struct {
	Institutions []*FinancialInstitutionData `json:"institutions"`
}

// FileStore is a DataStore read from a YAML document of the form
//
//	institutions:
//	- id: mybank
//	  name: My Bank
//	  org: MYBANK
//	  fid: "1234"
//	  url: https://ofx.mybank.com
//	  ofxVersion: v1
type FileStore struct {
	mu   sync.RWMutex
	byID map[string]*FinancialInstitutionData
}

// OpenFileStore reads the store at path.
func OpenFileStore(path string) (*FileStore, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", path, err)
	}
	s, err := ParseFileStore(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseFileStore decodes a store document.
func ParseFileStore(d []byte) (*FileStore, error) {
	var f storeFile
	if err := yaml.Unmarshal(d, &f); err != nil {
		return nil, fmt.Errorf("error decoding institutions: %w", err)
	}
	s := &FileStore{byID: make(map[string]*FinancialInstitutionData, len(f.Institutions))}
	for i, fi := range f.Institutions {
		if fi.ID == "" || fi.URL == "" {
			return nil, fmt.Errorf("institution %d: id and url are required", i)
		}
		if _, dup := s.byID[fi.ID]; dup {
			return nil, fmt.Errorf("duplicate institution %q", fi.ID)
		}
		s.byID[fi.ID] = fi
		if debug.Client() {
			debug.Logf("loaded institution %s\n", fi)
		}
	}
	return s, nil
}

func (s *FileStore) Get(id string) (*FinancialInstitutionData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fi, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInstitution, id)
	}
	return fi, nil
}

// List returns the institutions sorted by id.
func (s *FileStore) List() []*FinancialInstitutionData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]*FinancialInstitutionData, 0, len(s.byID))
	for _, fi := range s.byID {
		res = append(res, fi)
	}
	slices.SortFunc(res, func(a, b *FinancialInstitutionData) int { return strings.Compare(a.ID, b.ID) })
	return res
}

// Put adds or replaces an institution.
func (s *FileStore) Put(fi *FinancialInstitutionData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byID == nil {
		s.byID = map[string]*FinancialInstitutionData{}
	}
	s.byID[fi.ID] = fi
}

// Marshal encodes the store in the form ParseFileStore reads.
func (s *FileStore) Marshal() ([]byte, error) {
	return yaml.Marshal(&storeFile{Institutions: s.List()})
}
