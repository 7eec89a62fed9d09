// Package courses is the data-access layer for the COURSES DynamoDB table.
//
// A Store is a thin facade: every operation maps onto a single DynamoDB call.
// There are no retries, no caching and no transactions; timeouts come from
// the context and the SDK client.
//
//	client, err := courses.NewClient(ctx, courses.Config{})
//	store, err := courses.Connect(ctx, client)
//	err = store.CreateTable(ctx)
//	course, err := store.GetCourse(ctx, "c1")
package courses

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/acksell/courses/dynamodb/ddbiface"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog"
)

// Store is a handle on the COURSES table. It is safe for concurrent use.
type Store struct {
	ddb ddbiface.Client
	log zerolog.Logger
	now func() time.Time

	ready atomic.Bool
}

type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l.With().Str("table", TableName).Logger()
	}
}

// WithClock overrides the clock used for detail.createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func newStore(ddb ddbiface.Client, opts ...Option) *Store {
	s := &Store{
		ddb: ddb,
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New returns a store that is ready immediately, without checking connectivity.
func New(ddb ddbiface.Client, opts ...Option) *Store {
	s := newStore(ddb, opts...)
	s.ready.Store(true)
	return s
}

// Connect returns a store after probing DynamoDB with ListTables.
// If the probe fails the store is still returned, but it is not ready and
// table lifecycle calls return ErrNotReady until a later Probe succeeds.
func Connect(ctx context.Context, ddb ddbiface.Client, opts ...Option) (*Store, error) {
	s := newStore(ddb, opts...)
	if _, err := s.Probe(ctx); err != nil {
		return s, err
	}
	return s, nil
}

// Probe lists the existing tables and updates readiness from the outcome.
func (s *Store) Probe(ctx context.Context) ([]string, error) {
	out, err := s.ddb.ListTables(ctx, &dynamodb.ListTablesInput{})
	if err != nil {
		s.ready.Store(false)
		s.log.Error().Err(err).Msg("error when checking dynamodb status")
		return nil, &StoreError{Op: "ListTables", Err: err}
	}
	s.ready.Store(true)
	s.log.Debug().Strs("tables", out.TableNames).Msg("dynamodb is ready")
	return out.TableNames, nil
}

// Ready reports whether the store may run table lifecycle operations.
func (s *Store) Ready() bool {
	return s.ready.Load()
}

func (s *Store) checkReady(op string) error {
	if s.ready.Load() {
		return nil
	}
	s.log.Error().Str("op", op).Msg("dynamodb is not ready yet")
	return &NotReadyError{Op: op}
}

// CreateTable creates the COURSES table with its fixed schema.
func (s *Store) CreateTable(ctx context.Context) error {
	if err := s.checkReady("CreateTable"); err != nil {
		return err
	}
	if _, err := s.ddb.CreateTable(ctx, Table.CreateTableInput()); err != nil {
		return &StoreError{Op: "CreateTable", Err: err}
	}
	s.log.Info().Msg("table created")
	return nil
}

// DropTable deletes the COURSES table and all of its items.
func (s *Store) DropTable(ctx context.Context) error {
	if err := s.checkReady("DropTable"); err != nil {
		return err
	}
	if _, err := s.ddb.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(TableName)}); err != nil {
		return &StoreError{Op: "DeleteTable", Err: err}
	}
	s.log.Info().Msg("table dropped")
	return nil
}
