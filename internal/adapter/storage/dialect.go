package storage

import (
	"embed"
	"strconv"
	"strings"
	"time"
)

//go:embed schema/*.sql
var schemaFS embed.FS

const sqliteTimeLayout = "2006-01-02 15:04:05.000000000"

// Dialect captures what differs between the SQL backends: driver name,
// placeholder syntax, schema and how timestamps are bound.
type Dialect struct {
	Name    string
	Driver  string
	rebind  func(string) string
	timeArg func(time.Time) any
}

var (
	MySQL = Dialect{
		Name:    "mysql",
		Driver:  "mysql",
		rebind:  func(q string) string { return q },
		timeArg: func(t time.Time) any { return t.UTC() },
	}
	Postgres = Dialect{
		Name:    "postgres",
		Driver:  "pgx",
		rebind:  dollarPlaceholders,
		timeArg: func(t time.Time) any { return t.UTC() },
	}
	// SQLite stores timestamps as fixed-width UTC text so ORDER BY on the
	// column sorts chronologically.
	SQLite = Dialect{
		Name:    "sqlite",
		Driver:  "sqlite",
		rebind:  func(q string) string { return q },
		timeArg: func(t time.Time) any { return t.UTC().Format(sqliteTimeLayout) },
	}
)

func (d Dialect) schema() (string, error) {
	data, err := schemaFS.ReadFile("schema/" + d.Name + ".sql")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// dollarPlaceholders rewrites ? placeholders as $1, $2, ...
func dollarPlaceholders(q string) string {
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

func splitStatements(schema string) []string {
	var out []string
	for _, stmt := range strings.Split(schema, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}
