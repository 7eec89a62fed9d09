package main

import (
	"context"
	"flag"

	"github.com/acksell/courses/courses"
	"github.com/acksell/courses/dynamodb/ddbiface"
	"github.com/acksell/courses/dynamodb/ddbstore"
	"github.com/acksell/courses/internal/config"
	"github.com/acksell/courses/internal/logger"
	"github.com/rs/zerolog"
)

// options are the settings shared by every subcommand.
type options struct {
	cfg config.Config
	log zerolog.Logger
}

// newFlagSet loads the configuration and registers the connection flags with
// the configured values as defaults, so flags take precedence.
func newFlagSet(name string) (*flag.FlagSet, *options, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, nil, err
	}
	opts := &options{cfg: cfg}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&opts.cfg.Region, "region", cfg.Region, "AWS region")
	fs.StringVar(&opts.cfg.Endpoint, "endpoint", cfg.Endpoint, `DynamoDB endpoint URL, or "aws" for the regional endpoint`)
	fs.BoolVar(&opts.cfg.Local, "local", cfg.Local, "use the embedded store instead of DynamoDB")
	fs.StringVar(&opts.cfg.DBPath, "db", cfg.DBPath, "embedded store directory (in-memory when empty)")
	fs.BoolVar(&opts.cfg.Probe, "probe", cfg.Probe, "check connectivity with ListTables before table operations")
	fs.StringVar(&opts.cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	return fs, opts, nil
}

func (o *options) logger() zerolog.Logger {
	return logger.New(logger.Options{Level: o.cfg.LogLevel, Console: o.cfg.Development()})
}

// openStore returns the courses store and a function releasing its backend.
// A failed probe is logged and leaves the store not ready.
func (o *options) openStore(ctx context.Context) (*courses.Store, func() error, error) {
	o.log = o.logger()
	closeFn := func() error { return nil }

	var client ddbiface.Client
	if o.cfg.Local {
		local, err := ddbstore.New(ddbstore.StoreOptions{
			Path:     o.cfg.DBPath,
			InMemory: o.cfg.DBPath == "",
			Logger:   logger.Badger{Log: o.log},
		})
		if err != nil {
			return nil, nil, err
		}
		client, closeFn = local, local.Close
	} else {
		remote, err := courses.NewClient(ctx, courses.Config{Region: o.cfg.Region, Endpoint: o.cfg.Endpoint})
		if err != nil {
			return nil, nil, err
		}
		client = remote
	}

	storeOpts := []courses.Option{courses.WithLogger(o.log)}
	if !o.cfg.Probe {
		return courses.New(client, storeOpts...), closeFn, nil
	}
	store, err := courses.Connect(ctx, client, storeOpts...)
	if err != nil {
		o.log.Warn().Err(err).Msg("probe failed, table operations are disabled")
	}
	return store, closeFn, nil
}
