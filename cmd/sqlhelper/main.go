// Command sqlhelper runs SQL statements against a SQLite database and prints
// the rows they return.
//
//	sqlhelper -dsn app.db -e "SELECT * FROM users"
//	sqlhelper -dsn app.db < script.sql
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/asaidimu/sqlhelper/pkg/core"
	"github.com/asaidimu/sqlhelper/pkg/db"
	"github.com/asaidimu/sqlhelper/pkg/sqlite"
)

func main() {
	var (
		driver = flag.String("driver", sqlite.DriverPure, "database/sql driver: sqlite (pure Go) or sqlite3 (cgo)")
		dsn    = flag.String("dsn", sqlite.DefaultDSN, "data source name")
		exec   = flag.String("e", "", "statements to run; read from stdin when empty")
		dev    = flag.Bool("dev", false, "include the offending SQL in error messages")
		strict = flag.Bool("strict", false, "panic on the first failure")
		debug  = flag.Bool("debug", false, "log every statement")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "sqlhelper: ", 0)
	d := db.New(db.Config{
		Opener:      sqlite.NewOpener(sqlite.Config{Driver: *driver, DSN: *dsn}),
		Strict:      *strict,
		Development: *dev,
		Debug:       *debug,
		Logger:      logger,
	})

	ctx := context.Background()
	if err := d.Open(ctx); err != nil {
		d.Kill("Failed to open database.", true)
	}
	defer d.Close()

	var input io.Reader = os.Stdin
	if *exec != "" {
		input = strings.NewReader(*exec)
	}

	statements, err := splitStatements(input)
	if err != nil {
		logger.Fatalf("Failed to read statements: %v", err)
	}
	for _, stmt := range statements {
		if err := run(ctx, d, stmt, os.Stdout); err != nil {
			d.Kill("Statement failed.", true)
		}
	}
}

// run executes one statement and prints its rows, or the affected row count
// summary for statements without rows.
func run(ctx context.Context, d *db.DB, stmt string, out io.Writer) error {
	set, err := d.Query(ctx, stmt)
	if err != nil {
		return err
	}
	if set == nil {
		if core.Classify(stmt) == core.StatementInsert {
			fmt.Fprintf(out, "OK, last insert id %d\n", d.GetLastInsertID())
		} else {
			fmt.Fprintln(out, "OK")
		}
		return nil
	}

	rows, err := d.RecordsArray(core.Num)
	if err != nil {
		return err
	}
	if err := printRows(out, set.ColumnNames(), rows); err != nil {
		return err
	}
	return d.Release()
}

func printRows(out io.Writer, columns []string, rows []core.Row) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i := range columns {
			cells[i] = cellText(row[fmt.Sprint(i)])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	fmt.Fprintf(tw, "(%d rows)\n", len(rows))
	return tw.Flush()
}

func cellText(v any) string {
	if v == nil {
		return "NULL"
	}
	return core.ValueOf(v).Text()
}

// splitStatements splits input on semicolons ending a line. Lines starting
// with -- are skipped.
func splitStatements(r io.Reader) ([]string, error) {
	var (
		statements []string
		current    strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			statements = append(statements, s)
		}
		current.Reset()
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		if strings.HasSuffix(line, ";") {
			current.WriteString(strings.TrimSuffix(line, ";"))
			flush()
			continue
		}
		current.WriteString(line + "\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return statements, nil
}
