package store

import (
	"database/sql"
	"fmt"

	"github.com/lymhealth/coachcore/internal/models"
)

// scanTurns reads all turn rows.
func scanTurns(rows *sql.Rows) ([]models.Turn, error) {
	var turns []models.Turn
	for rows.Next() {
		var t models.Turn
		var intent sql.NullString
		if err := rows.Scan(&t.ID, &t.UserID, &t.Role, &t.Body, &intent, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan turn failed: %w", err)
		}
		t.Intent = models.Intent(intent.String)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turn rows failed: %w", err)
	}
	return turns, nil
}

// reverseTurns flips newest-first query results to oldest-first.
func reverseTurns(turns []models.Turn) {
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
}
