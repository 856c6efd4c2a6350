package store

import (
	"context"
	"fmt"
)

// QueryResult is a schema-agnostic result set
type QueryResult struct {
	Columns []string
	Rows    [][]interface{}
}

// Query runs an arbitrary read statement and collects every row
func (s *Store) Query(ctx context.Context, statement string) (QueryResult, error) {
	rows, err := s.db.QueryxContext(ctx, statement)
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to read columns: %w", err)
	}

	result := QueryResult{Columns: columns}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return QueryResult{}, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return QueryResult{}, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return result, nil
}
