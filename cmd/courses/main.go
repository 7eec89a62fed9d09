// courses is a command line client for the COURSES DynamoDB table.
//
// # Commands
//
//	courses create-table        Create the COURSES table
//	courses drop-table          Delete the COURSES table
//	courses get <id>            Print one course
//	courses batch-get <id>...   Print course summaries
//	courses put --uid U --file F
//	                            Store a course read from a JSON file
//	courses serve               Start the HTTP API
//
// Every command accepts --region, --endpoint, --local, --db and --probe.
// Defaults come from courses.yaml and COURSES_* environment variables.
//
//	courses create-table --local --db ./data
//	courses put --local --db ./data --uid u1 --file course.json
//	courses serve --endpoint http://localhost:8000
package main

import (
	"fmt"
	"io"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	cmd := os.Args[1]
	if err := run(cmd, os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "courses %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func run(cmd string, args []string, stdout io.Writer) error {
	switch cmd {
	case "create-table":
		return runCreateTable(args, stdout)
	case "drop-table":
		return runDropTable(args, stdout)
	case "get":
		return runGet(args, stdout)
	case "batch-get":
		return runBatchGet(args, stdout)
	case "put":
		return runPut(args, stdout)
	case "serve":
		return runServe(args, stdout)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	case "version", "-v", "--version":
		fmt.Fprintf(stdout, "courses version %s\n", version)
		return nil
	default:
		printUsage(stdout)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `courses - COURSES table tools

Usage:
  courses <command> [flags]

Commands:
  create-table   Create the COURSES table
  drop-table     Delete the COURSES table and its items
  get            Print one course
  batch-get      Print course summaries
  put            Store a course from a JSON file
  serve          Start the HTTP API
  version        Print the version

Configuration (optional):
  courses.yaml, searched from the working directory upwards:

    region: us-west-2
    endpoint: http://localhost:8000   # "aws" for the regional endpoint
    local: false                      # embedded store instead of DynamoDB
    dbPath: ./data                    # embedded store directory
    probe: true
    addr: ":8080"
    logLevel: info

  Environment variables COURSES_REGION, COURSES_ENDPOINT, COURSES_LOCAL,
  COURSES_DB_PATH, COURSES_PROBE, COURSES_ADDR, COURSES_LOG_LEVEL and
  COURSES_ENV override the file. A .env file is read if present.

Run 'courses <command> --help' for more information on a command.`)
}
