package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/qexpr/ir"
)

// ErrUnknownRun indicates an intern against a run token that was never
// registered with BeginRun.
var ErrUnknownRun = errors.New("cache: unknown run token")

// Term is a stored canonical term.
type Term struct {
	Fingerprint string
	Rendering   string
	FirstRun    string
	SeenCount   int64
}

// InternResult reports the outcome of interning one canonical term.
type InternResult struct {
	Fingerprint string
	// Known is true when a structurally equivalent term was already
	// present; the existing row is kept and its seen count incremented.
	Known bool
}

// Stats summarizes cache contents.
type Stats struct {
	Terms int64
	Runs  int64
}

// BeginRun registers a new intern run and returns its token.
//
// Tokens are UUIDv7, so they sort by creation time - helpful when
// inspecting the runs table directly.
func (c *Cache) BeginRun(ctx context.Context) (string, error) {
	token := uuid.Must(uuid.NewV7()).String()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO runs (token, started_seq)
		VALUES (?, (SELECT COUNT(*) FROM runs))
	`, token)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return token, nil
}

// Intern stores a canonical term, deduplicating by fingerprint.
// Accepting only ir.Canonicalized means structurally equivalent trees
// always collide here, whatever shape they were built in.
//
// The runToken must come from BeginRun on this cache.
func (c *Cache) Intern(ctx context.Context, runToken string, term ir.Canonicalized) (InternResult, error) {
	fp := term.Fingerprint()

	var exists int
	err := c.db.QueryRowContext(ctx,
		`SELECT 1 FROM runs WHERE token = ?`, runToken).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return InternResult{}, fmt.Errorf("%w: %s", ErrUnknownRun, runToken)
	}
	if err != nil {
		return InternResult{}, fmt.Errorf("intern: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO terms (fingerprint, rendering, first_run)
		VALUES (?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET seen_count = seen_count + 1
	`, fp, ir.Render(term.Expr()), runToken)
	if err != nil {
		return InternResult{}, fmt.Errorf("intern: %w", err)
	}

	// sqlite reports 1 affected row for both the insert and the
	// conflict-update path, so distinguish by seen count instead.
	var seen int64
	if err := c.db.QueryRowContext(ctx,
		`SELECT seen_count FROM terms WHERE fingerprint = ?`, fp).Scan(&seen); err != nil {
		return InternResult{}, fmt.Errorf("intern: %w", err)
	}

	return InternResult{Fingerprint: fp, Known: seen > 1}, nil
}

// Lookup returns the stored term for a fingerprint, or sql.ErrNoRows
// wrapped with context when absent.
func (c *Cache) Lookup(ctx context.Context, fingerprint string) (Term, error) {
	var t Term
	err := c.db.QueryRowContext(ctx, `
		SELECT fingerprint, rendering, first_run, seen_count
		FROM terms WHERE fingerprint = ?
	`, fingerprint).Scan(&t.Fingerprint, &t.Rendering, &t.FirstRun, &t.SeenCount)
	if err != nil {
		return Term{}, fmt.Errorf("lookup %s: %w", fingerprint, err)
	}
	return t, nil
}

// Stats reports the number of distinct terms and runs.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM terms`).Scan(&s.Terms); err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&s.Runs); err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return s, nil
}
