package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/acksell/courses/courses"
	"github.com/acksell/courses/courses/api"
)

func runCreateTable(args []string, stdout io.Writer) error {
	fs, opts, err := newFlagSet("create-table")
	if err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	return withStore(opts, func(ctx context.Context, store *courses.Store) error {
		if err := store.CreateTable(ctx); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "created table %s\n", courses.TableName)
		return nil
	})
}

func runDropTable(args []string, stdout io.Writer) error {
	fs, opts, err := newFlagSet("drop-table")
	if err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	return withStore(opts, func(ctx context.Context, store *courses.Store) error {
		if err := store.DropTable(ctx); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "dropped table %s\n", courses.TableName)
		return nil
	})
}

func runGet(args []string, stdout io.Writer) error {
	fs, opts, err := newFlagSet("get")
	if err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: courses get [flags] <courseId>")
	}
	return withStore(opts, func(ctx context.Context, store *courses.Store) error {
		course, err := store.GetCourse(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		if course == nil {
			return fmt.Errorf("course %q not found", fs.Arg(0))
		}
		return printJSON(stdout, course)
	})
}

func runBatchGet(args []string, stdout io.Writer) error {
	fs, opts, err := newFlagSet("batch-get")
	if err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: courses batch-get [flags] <courseId>...")
	}
	return withStore(opts, func(ctx context.Context, store *courses.Store) error {
		found, err := store.BatchGetCourses(ctx, fs.Args())
		if err != nil {
			return err
		}
		return printJSON(stdout, found)
	})
}

func runPut(args []string, stdout io.Writer) error {
	fs, opts, err := newFlagSet("put")
	if err != nil {
		return err
	}
	var (
		uid  = fs.String("uid", "", "id of the user creating the course")
		file = fs.String("file", "", `course JSON file, "-" for stdin`)
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	course, err := readCourse(*file)
	if err != nil {
		return err
	}
	return withStore(opts, func(ctx context.Context, store *courses.Store) error {
		stored, err := store.CreateCourse(ctx, courses.CreateCourseInput{UID: *uid, Course: course})
		if err != nil {
			return err
		}
		return printJSON(stdout, stored)
	})
}

func runServe(args []string, stdout io.Writer) error {
	fs, opts, err := newFlagSet("serve")
	if err != nil {
		return err
	}
	var (
		addr        = fs.String("addr", opts.cfg.Addr, "HTTP listen address")
		createTable = fs.Bool("create-table", false, "create the COURSES table before serving, ignoring ResourceInUseException")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := opts.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if *createTable {
		var storeErr *courses.StoreError
		err := store.CreateTable(ctx)
		if err != nil && !(errors.As(err, &storeErr) && storeErr.Code() == "ResourceInUseException") {
			return err
		}
	}

	return api.NewServer(store, api.ServerConfig{Addr: *addr}, opts.log).Run(ctx)
}

func withStore(opts *options, fn func(ctx context.Context, store *courses.Store) error) error {
	ctx := context.Background()
	store, closeStore, err := opts.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(ctx, store)
}

func readCourse(path string) (*courses.Course, error) {
	var r io.Reader
	switch path {
	case "":
		return nil, errors.New("--file is required")
	case "-":
		r = os.Stdin
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var course *courses.Course
	if err := json.NewDecoder(r).Decode(&course); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return course, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
