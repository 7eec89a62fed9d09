package ddbstore

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/acksell/courses/dynamodb/ddbiface"
	"github.com/acksell/courses/dynamodb/table"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

// Store is a DynamoDB-compatible store backed by BadgerDB.
// It implements the table lifecycle and item calls of ddbiface.Client.
type Store struct {
	db *badger.DB

	mu     sync.RWMutex
	tables map[string]table.TableDefinition
}

var _ ddbiface.Client = (*Store)(nil)

// StoreOptions configures the BadgerDB store.
type StoreOptions struct {
	// Path to the database directory. If empty, uses in-memory mode.
	Path string
	// InMemory forces in-memory mode even if Path is set.
	InMemory bool
	// Logger for BadgerDB. If nil, logging is disabled.
	Logger badger.Logger
}

// New opens a BadgerDB-backed store. Tables persisted by an earlier run are
// loaded; defs are created if they do not exist yet.
func New(opts StoreOptions, defs ...table.TableDefinition) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Path)

	if opts.Path == "" || opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true).WithDir("").WithValueDir("")
	}
	badgerOpts = badgerOpts.WithLogger(opts.Logger)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	s := &Store{
		db:     db,
		tables: make(map[string]table.TableDefinition),
	}
	if err := s.loadTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load tables: %w", err)
	}
	for _, def := range defs {
		if _, ok := s.tables[def.Name]; ok {
			continue
		}
		if err := s.createTable(def); err != nil {
			db.Close()
			return nil, fmt.Errorf("create table %s: %w", def.Name, err)
		}
	}
	return s, nil
}

// Close closes the BadgerDB database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) getTable(tableName *string) (table.TableDefinition, error) {
	if tableName == nil || *tableName == "" {
		return table.TableDefinition{}, fmt.Errorf("table name is required")
	}
	s.mu.RLock()
	def, ok := s.tables[*tableName]
	s.mu.RUnlock()
	if !ok {
		return table.TableDefinition{}, &types.ResourceNotFoundException{
			Message: ptrStr("Requested resource not found: Table: " + *tableName + " not found"),
		}
	}
	return def, nil
}

func (s *Store) loadTables() error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(metaTablePrefix)})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var def table.TableDefinition
			err := it.Item().Value(func(val []byte) error {
				return gob.NewDecoder(bytes.NewReader(val)).Decode(&def)
			})
			if err != nil {
				return fmt.Errorf("decode table definition %q: %w", it.Item().Key(), err)
			}
			s.tables[def.Name] = def
		}
		return nil
	})
}

// createTable persists def and registers it. Callers hold no lock.
func (s *Store) createTable(def table.TableDefinition) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(def); err != nil {
		return fmt.Errorf("encode table definition: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[def.Name]; ok {
		return &types.ResourceInUseException{
			Message: ptrStr("Table already exists: " + def.Name),
		}
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(metaTableKey(def.Name), buf.Bytes())
	})
	if err != nil {
		return err
	}
	s.tables[def.Name] = def
	return nil
}
