package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/port"
)

// SQLAdapter is a RecordStore over the items and issued tables.
type SQLAdapter struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLAdapter(db *sql.DB, dialect Dialect) *SQLAdapter {
	return &SQLAdapter{db: db, dialect: dialect}
}

func NewMySQLAdapter(db *sql.DB) *SQLAdapter {
	return NewSQLAdapter(db, MySQL)
}

// Migrate creates the tables that do not exist yet.
func (a *SQLAdapter) Migrate(ctx context.Context) error {
	schema, err := a.dialect.schema()
	if err != nil {
		return fmt.Errorf("read %s schema: %w", a.dialect.Name, err)
	}
	for _, stmt := range splitStatements(schema) {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (a *SQLAdapter) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := a.db.QueryContext(ctx, a.dialect.rebind(`
		SELECT id, item, quantity, location, updated_at
		FROM items ORDER BY updated_at DESC`))
	if err != nil {
		return nil, classify("list items", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var (
			item     domain.Item
			name     sql.NullString
			quantity sql.NullInt64
			location sql.NullString
			updated  any
		)
		if err := rows.Scan(&item.ID, &name, &quantity, &location, &updated); err != nil {
			return nil, classify("scan item", err)
		}
		item.Name = name.String
		item.Quantity = nonNegative(quantity)
		item.Location = location.String
		if item.UpdatedAt, err = scanTime(updated); err != nil {
			return nil, &port.StoreError{Op: "scan item", Message: err.Error(), Err: err}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list items", err)
	}
	return items, nil
}

func (a *SQLAdapter) InsertItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	item.ID = uuid.NewString()

	_, err := a.db.ExecContext(ctx, a.dialect.rebind(`
		INSERT INTO items (id, item, quantity, location, updated_at)
		VALUES (?, ?, ?, ?, ?)`),
		item.ID, item.Name, item.Quantity, nullString(item.Location), a.dialect.timeArg(item.UpdatedAt),
	)
	if err != nil {
		return domain.Item{}, classify("insert item", err)
	}
	return item, nil
}

func (a *SQLAdapter) UpdateItem(ctx context.Context, item domain.Item) error {
	result, err := a.db.ExecContext(ctx, a.dialect.rebind(`
		UPDATE items
		SET item = ?, quantity = ?, location = ?, updated_at = ?
		WHERE id = ?`),
		item.Name, item.Quantity, nullString(item.Location), a.dialect.timeArg(item.UpdatedAt), item.ID,
	)
	if err != nil {
		return classify("update item", err)
	}
	return requireRow("update item", result)
}

func (a *SQLAdapter) DeleteItem(ctx context.Context, id string) error {
	result, err := a.db.ExecContext(ctx, a.dialect.rebind(`DELETE FROM items WHERE id = ?`), id)
	if err != nil {
		return classify("delete item", err)
	}
	return requireRow("delete item", result)
}

func (a *SQLAdapter) ListIssuances(ctx context.Context) ([]domain.Issuance, error) {
	rows, err := a.db.QueryContext(ctx, a.dialect.rebind(`
		SELECT id, item_id, issued_to, issued_at, quantity_issued, return_quantity, return_date
		FROM issued ORDER BY issued_at DESC`))
	if err != nil {
		return nil, classify("list issued", err)
	}
	defer rows.Close()

	var issuances []domain.Issuance
	for rows.Next() {
		var (
			rec        domain.Issuance
			itemID     sql.NullString
			issuedTo   sql.NullString
			issued     sql.NullInt64
			returned   sql.NullInt64
			returnDate domain.NullDate
		)
		if err := rows.Scan(&rec.ID, &itemID, &issuedTo, &rec.IssuedAt, &issued, &returned, &returnDate); err != nil {
			return nil, classify("scan issued", err)
		}
		rec.ItemID = itemID.String
		rec.IssuedTo = issuedTo.String
		rec.QuantityIssued = nonNegative(issued)
		rec.ReturnQuantity = nonNegative(returned)
		rec.ReturnDate = returnDate.Ptr()
		issuances = append(issuances, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list issued", err)
	}
	return issuances, nil
}

func (a *SQLAdapter) InsertIssuance(ctx context.Context, rec domain.Issuance) (domain.Issuance, error) {
	rec.ID = uuid.NewString()

	_, err := a.db.ExecContext(ctx, a.dialect.rebind(`
		INSERT INTO issued (id, item_id, issued_to, issued_at, quantity_issued, return_quantity, return_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.ItemID, rec.IssuedTo, rec.IssuedAt.String(),
		rec.QuantityIssued, rec.ReturnQuantity, nullDate(rec.ReturnDate),
	)
	if err != nil {
		return domain.Issuance{}, classify("insert issued", err)
	}
	return rec, nil
}

func (a *SQLAdapter) UpdateIssuance(ctx context.Context, rec domain.Issuance) error {
	result, err := a.db.ExecContext(ctx, a.dialect.rebind(`
		UPDATE issued
		SET item_id = ?, issued_to = ?, issued_at = ?, quantity_issued = ?, return_quantity = ?, return_date = ?
		WHERE id = ?`),
		rec.ItemID, rec.IssuedTo, rec.IssuedAt.String(),
		rec.QuantityIssued, rec.ReturnQuantity, nullDate(rec.ReturnDate), rec.ID,
	)
	if err != nil {
		return classify("update issued", err)
	}
	return requireRow("update issued", result)
}

func (a *SQLAdapter) DeleteIssuance(ctx context.Context, id string) error {
	result, err := a.db.ExecContext(ctx, a.dialect.rebind(`DELETE FROM issued WHERE id = ?`), id)
	if err != nil {
		return classify("delete issued", err)
	}
	return requireRow("delete issued", result)
}

func requireRow(op string, result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return classify(op, err)
	}
	if rows == 0 {
		return port.NotFound(op)
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDate(d *domain.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.String()
}

func nonNegative(n sql.NullInt64) int {
	if !n.Valid || n.Int64 < 0 {
		return 0
	}
	return int(n.Int64)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// scanTime accepts the representations the supported drivers return for a
// timestamp column.
func scanTime(src any) (time.Time, error) {
	switch v := src.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case []byte:
		return parseTime(string(v))
	case string:
		return parseTime(v)
	default:
		return time.Time{}, fmt.Errorf("scan time: unsupported type %T", src)
	}
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("scan time: unrecognized format %q", s)
}
