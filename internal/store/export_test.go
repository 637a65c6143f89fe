package store

import (
	"context"
	"fmt"
)

// Count returns the number of stored logs.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM sadhna_logs"); err != nil {
		return 0, fmt.Errorf("counting logs: %w", err)
	}
	return n, nil
}
