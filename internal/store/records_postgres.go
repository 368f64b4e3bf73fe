package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/user-lookup-go/internal/records"
)

// PostgresRecordStore is a PostgreSQL implementation of records.Repository.
// Documents live in a JSONB column, keyed by collection:
//
//	CREATE TABLE documents (collection TEXT NOT NULL, doc JSONB NOT NULL);
type PostgresRecordStore struct {
	pool *pgxpool.Pool
}

// NewPostgresRecordStore creates a new PostgreSQL-backed record store.
func NewPostgresRecordStore(pool *pgxpool.Pool) *PostgresRecordStore {
	return &PostgresRecordStore{pool: pool}
}

func (p *PostgresRecordStore) FindOne(
	ctx context.Context, collection string, filter records.Filter, projection records.Projection,
) (records.Document, error) {
	query, args := buildDocumentQuery(collection, filter)

	var raw []byte

	err := p.pool.QueryRow(ctx, query, args...).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, records.ErrNotFound
		}

		return nil, err
	}

	var doc records.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	return doc.Project(projection), nil
}

// Ping checks PostgreSQL connectivity.
func (p *PostgresRecordStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// buildDocumentQuery renders a filter as JSONB path predicates.
func buildDocumentQuery(collection string, filter records.Filter) (string, []any) {
	args := []any{collection}
	clauses := make([]string, 0, len(filter.AnyOf))

	for _, c := range filter.AnyOf {
		path := strings.Split(c.Field, ".")

		switch value := c.Value.(type) {
		case records.ObjectID:
			path = append(path, "$oid")
			args = append(args, path, string(value))
		default:
			args = append(args, path, fmt.Sprint(value))
		}

		pathArg, valueArg := len(args)-1, len(args)

		switch c.Kind {
		case records.MatchContains:
			clauses = append(clauses,
				fmt.Sprintf("(doc #> $%d) @> jsonb_build_array($%d::text)", pathArg, valueArg))
		default:
			clauses = append(clauses, fmt.Sprintf("(doc #>> $%d) = $%d", pathArg, valueArg))
		}
	}

	query := "SELECT doc FROM documents WHERE collection = $1"
	if len(clauses) > 0 {
		query += " AND (" + strings.Join(clauses, " OR ") + ")"
	}

	return query + " LIMIT 1", args
}

// Compile-time check.
var _ records.Repository = (*PostgresRecordStore)(nil)
