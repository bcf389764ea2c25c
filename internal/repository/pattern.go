package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/pagination"
	"github.com/copydesk/copydesk/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PatternRepository handles persistence of the verified copy-pattern library.
type PatternRepository struct {
	db dbtx
}

func NewPatternRepository(pool *pgxpool.Pool) *PatternRepository {
	return &PatternRepository{db: pool}
}

const patternColumns = `id, user_id, workspace_id, component_type, text, context_note, source,
	approved, ab_test_winner, conversion_lift, uxr_validated, usage_count, last_used_at, created_at`

func (r *PatternRepository) Create(ctx context.Context, p *domain.Pattern) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO patterns
			(id, user_id, workspace_id, component_type, text, context_note, source,
			 approved, ab_test_winner, conversion_lift, uxr_validated, usage_count, last_used_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.UserID, nullableString(p.WorkspaceID), p.ComponentType, p.Text,
		nullableString(p.Context), p.Source, p.Approved, p.ABTestWinner,
		p.ConversionLift, p.UXRValidated, p.UsageCount, p.LastUsedAt, p.CreatedAt,
	)
	return err
}

func (r *PatternRepository) GetByID(ctx context.Context, id string) (*domain.Pattern, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+patternColumns+` FROM patterns WHERE id = $1`, id)

	p, err := scanPattern(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPatternNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListApproved returns the user's approved patterns for a component type,
// most used first, newest first on ties. Results never include another
// user's patterns.
func (r *PatternRepository) ListApproved(ctx context.Context, userID string, componentType domain.ComponentType, limit int) ([]*domain.Pattern, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+patternColumns+`
		 FROM patterns
		 WHERE user_id = $1 AND component_type = $2 AND approved
		 ORDER BY usage_count DESC, created_at DESC
		 LIMIT $3`,
		userID, componentType, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPatternRows(rows)
}

// likeEscaper neutralizes the LIKE metacharacters so user queries match as
// literal substrings. Backslash is Postgres's default LIKE escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchText performs case-sensitive substring matching on pattern text,
// scoped to the user and optionally filtered by component type. Wildcard
// characters in the query ("%", "_") match themselves, not patterns.
func (r *PatternRepository) SearchText(ctx context.Context, userID, query string, componentType domain.ComponentType, limit int) ([]*domain.Pattern, error) {
	if limit <= 0 {
		limit = 10
	}

	sql := `SELECT ` + patternColumns + `
		 FROM patterns
		 WHERE user_id = $1 AND text LIKE '%' || $2 || '%'`
	args := []any{userID, likeEscaper.Replace(query)}

	if componentType != "" {
		sql += ` AND component_type = $3`
		args = append(args, componentType)
	}
	sql += ` ORDER BY usage_count DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPatternRows(rows)
}

func (r *PatternRepository) ListByUserWithCursor(ctx context.Context, userID string, cursor *pagination.Cursor, limit int) (*service.PatternPageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT `+patternColumns+`
			 FROM patterns
			 WHERE user_id = $1 AND (created_at, id) < ($2, $3)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $4`,
			userID, cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+patternColumns+`
			 FROM patterns
			 WHERE user_id = $1
			 ORDER BY created_at DESC, id DESC
			 LIMIT $2`,
			userID, limit+1,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanPatternRows(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(last.ID, last.CreatedAt)
	}

	return &service.PatternPageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

// IncrementUsage adds exactly one use and stamps last_used_at. The increment
// happens in SQL so concurrent calls never lose updates.
func (r *PatternRepository) IncrementUsage(ctx context.Context, id string, usedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE patterns SET usage_count = usage_count + 1, last_used_at = $2 WHERE id = $1`,
		id, usedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPatternNotFound
	}
	return nil
}

func scanPattern(row pgx.Row) (*domain.Pattern, error) {
	var p domain.Pattern
	var workspaceID, contextNote *string
	err := row.Scan(&p.ID, &p.UserID, &workspaceID, &p.ComponentType, &p.Text,
		&contextNote, &p.Source, &p.Approved, &p.ABTestWinner, &p.ConversionLift,
		&p.UXRValidated, &p.UsageCount, &p.LastUsedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if workspaceID != nil {
		p.WorkspaceID = *workspaceID
	}
	if contextNote != nil {
		p.Context = *contextNote
	}
	return &p, nil
}

func scanPatternRows(rows pgx.Rows) ([]*domain.Pattern, error) {
	var patterns []*domain.Pattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}
