package sandbox

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect/sql"
)

// Sandbox validates and executes SQL fragments against a single engine
// connection. Execution is synchronous and serialized; a statement either
// completes or fails atomically as guaranteed by the engine. Failures are
// returned as Result values, never as panics or escaping engine errors.
type Sandbox struct {
	drv     *sql.Driver
	builder *sql.Builder
	log     *slog.Logger
	stats   *ExecStats

	cache    sqlcraft.Cache
	cacheTTL time.Duration

	slowThreshold time.Duration
	slowHook      SlowHook

	// mu serializes statement execution on the connection.
	mu sync.Mutex
	// polMu guards policy, which may be swapped at runtime (e.g., by a
	// PolicyWatcher). Policy only affects validation, never execution.
	polMu  sync.RWMutex
	policy Policy
}

// Option configures a Sandbox.
type Option func(*Sandbox)

// WithPolicy sets the execution policy. The default is DefaultPolicy.
func WithPolicy(p Policy) Option {
	return func(s *Sandbox) { s.policy = p }
}

// WithLogger sets the structured logger. The default is slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(s *Sandbox) { s.log = log }
}

// WithCache enables caching of row-returning results with the given TTL.
// Any successful row-affecting or DDL statement clears the cache, since the
// sandbox cannot tell which cached rows it invalidated.
func WithCache(c sqlcraft.Cache, ttl time.Duration) Option {
	return func(s *Sandbox) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithSlowThreshold sets the duration above which a statement is counted
// and reported as slow. Default is 100ms.
func WithSlowThreshold(d time.Duration) Option {
	return func(s *Sandbox) { s.slowThreshold = d }
}

// WithSlowHook sets a callback invoked for every slow statement.
func WithSlowHook(hook SlowHook) Option {
	return func(s *Sandbox) { s.slowHook = hook }
}

// New returns a Sandbox owning the given driver connection.
func New(drv *sql.Driver, opts ...Option) *Sandbox {
	s := &Sandbox{
		drv:           drv,
		builder:       sql.Dialect(drv.Dialect()),
		policy:        DefaultPolicy(),
		log:           slog.Default(),
		stats:         &ExecStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the underlying connection.
func (s *Sandbox) Close() error { return s.drv.Close() }

// Dialect returns the dialect the sandbox executes under.
func (s *Sandbox) Dialect() string { return s.drv.Dialect() }

// Stats returns a snapshot of the execution statistics.
func (s *Sandbox) Stats() StatsSnapshot { return s.stats.Snapshot() }

// Policy returns the active execution policy.
func (s *Sandbox) Policy() Policy {
	s.polMu.RLock()
	defer s.polMu.RUnlock()
	return s.policy
}

// SetPolicy swaps the execution policy. Fragments built earlier are
// unaffected until they are executed.
func (s *Sandbox) SetPolicy(p Policy) {
	s.polMu.Lock()
	defer s.polMu.Unlock()
	s.policy = p
}

// Validate checks a fragment against the active policy without executing
// it. It returns a PermissionError on denial. Execute performs the same
// check and folds a denial into its failure Result.
func (s *Sandbox) Validate(frag sql.Fragment) error {
	return s.Policy().Validate(frag.SQL())
}

// returnsRows reports whether the statement's leading verb produces a row
// set rather than an affected-row count.
func returnsRows(statement string) bool {
	fields := strings.Fields(strings.ToUpper(strings.TrimSpace(statement)))
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "SELECT", "PRAGMA", "SHOW", "DESCRIBE", "DESC", "EXPLAIN", "WITH", "VALUES":
		return true
	}
	return false
}

// Execute validates and runs a fragment, returning a normalized Result.
// Engine failures are captured and returned as failed Results; they are
// never propagated as errors.
func (s *Sandbox) Execute(ctx context.Context, frag sql.Fragment) Result {
	statement := frag.SQL()
	execID := uuid.NewString()
	if err := s.Validate(frag); err != nil {
		s.stats.Denied.Add(1)
		s.log.Warn("statement denied", "id", execID, "sql", statement, "error", err)
		return FailureResult(statement, err.Error())
	}
	return s.execute(ctx, execID, frag)
}

// execute runs an already-validated fragment.
func (s *Sandbox) execute(ctx context.Context, execID string, frag sql.Fragment) Result {
	statement := frag.SQL()
	args := frag.Args()
	if args == nil {
		args = []any{}
	}
	rowsReturning := returnsRows(statement)

	if rowsReturning && s.cache != nil {
		if data, ok := s.cacheGet(ctx, statement, args); ok {
			s.stats.CacheHits.Add(1)
			s.log.Debug("cache hit", "id", execID, "sql", statement)
			return RowsResult(data)
		}
	}

	start := time.Now()
	s.mu.Lock()
	res, err := s.run(ctx, statement, args, rowsReturning)
	s.mu.Unlock()
	s.record(ctx, statement, args, start, err, rowsReturning)

	if err != nil {
		s.log.Warn("execution failed", "id", execID, "sql", statement, "error", err)
		return FailureResult(statement, err.Error())
	}
	s.log.Debug("executed", "id", execID, "sql", statement, "duration", time.Since(start))

	if rowsReturning {
		if s.cache != nil {
			s.cacheSet(ctx, statement, args, res.data)
		}
	} else if s.cache != nil {
		// A mutation may have invalidated anything previously cached.
		if cerr := s.cache.Clear(ctx); cerr != nil {
			s.log.Warn("cache clear failed", "id", execID, "error", cerr)
		}
	}
	return res
}

// run executes one statement on the engine and shapes the raw outcome.
func (s *Sandbox) run(ctx context.Context, statement string, args []any, rowsReturning bool) (Result, error) {
	if rowsReturning {
		var rows sql.Rows
		if err := s.drv.Query(ctx, statement, args, &rows); err != nil {
			return Result{}, err
		}
		defer rows.Close()
		data, err := scanRows(&rows)
		if err != nil {
			return Result{}, err
		}
		return RowsResult(data), nil
	}
	var res sql.Result
	if err := s.drv.Exec(ctx, statement, args, &res); err != nil {
		return Result{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		// Some drivers cannot report a count; the statement itself succeeded.
		affected = 0
	}
	return AffectedResult(affected), nil
}

// scanRows drains a row set into ordered column maps, normalizing []byte
// values to string so results are JSON- and cache-friendly.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	data := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// Tables lists the user tables of the connected database, using the
// dialect's catalog statement. The statement is built internally from
// trusted text, so the verb allow-list does not apply to it.
func (s *Sandbox) Tables(ctx context.Context) ([]string, error) {
	res := s.execute(ctx, uuid.NewString(), s.builder.ShowTables())
	if !res.Success() {
		return nil, fmt.Errorf("sandbox: list tables: %s", res.Err())
	}
	names := make([]string, 0, res.RowCount())
	for _, row := range res.Rows() {
		// Single-column result; the column name differs per dialect.
		for _, v := range row {
			if name, ok := v.(string); ok {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

// Columns lists the column names of a table via the dialect's
// column-introspection statement.
func (s *Sandbox) Columns(ctx context.Context, table string) ([]string, error) {
	frag, err := s.builder.DescribeTable(table)
	if err != nil {
		return nil, err
	}
	res := s.execute(ctx, uuid.NewString(), frag)
	if !res.Success() {
		return nil, fmt.Errorf("sandbox: describe %q: %s", table, res.Err())
	}
	names := make([]string, 0, res.RowCount())
	for _, row := range res.Rows() {
		// PRAGMA table_info exposes "name"; DESCRIBE exposes "Field".
		if v, ok := row["name"].(string); ok {
			names = append(names, v)
			continue
		}
		if v, ok := row["Field"].(string); ok {
			names = append(names, v)
		}
	}
	return names, nil
}

// record updates statistics and fires the slow hook when applicable.
func (s *Sandbox) record(ctx context.Context, statement string, args []any, start time.Time, err error, isQuery bool) {
	duration := time.Since(start)
	if isQuery {
		s.stats.TotalQueries.Add(1)
	} else {
		s.stats.TotalExecs.Add(1)
	}
	s.stats.TotalDuration.Add(int64(duration))
	if err != nil {
		s.stats.Errors.Add(1)
	}
	if duration > s.slowThreshold {
		s.stats.SlowStatements.Add(1)
		if s.slowHook != nil {
			s.slowHook(ctx, statement, args, duration)
		} else {
			s.log.Warn("slow statement", "duration", duration, "sql", statement, "args", args)
		}
	}
}
