package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/syssam/storago/dialect"
)

// QueryStats holds statement execution statistics.
type QueryStats struct {
	// TotalQueries is the total number of row-returning statements executed.
	TotalQueries atomic.Int64
	// TotalExecs is the total number of statements executed with Run.
	TotalExecs atomic.Int64
	// TotalDuration is the total time spent executing statements.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowQueries is the count of statements exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of statement errors, including prepare errors.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// AvgQueryDuration returns the average statement duration.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.AvgQueryDuration(),
		s.SlowQueries, s.Errors,
	)
}

// SlowQueryHook is a function called when a slow statement is detected.
type SlowQueryHook func(ctx context.Context, query string, args []any, duration time.Duration)

// StatsConnector wraps a Connector with statement statistics collection.
type StatsConnector struct {
	dialect.Connector
	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsConnector.
type StatsOption func(*StatsConnector)

// WithSlowThreshold sets the threshold for slow statement detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsConnector) {
		s.slowThreshold = d
	}
}

// WithSlowQueryHook sets a callback function for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsConnector) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog logs slow statements to the given logger at warn level.
// A nil logger selects slog.Default().
func WithSlowQueryLog(l *slog.Logger) StatsOption {
	if l == nil {
		l = slog.Default()
	}
	return WithSlowQueryHook(func(ctx context.Context, query string, args []any, duration time.Duration) {
		l.WarnContext(ctx, "slow query detected", "duration", duration, "statement", query, "args", args)
	})
}

// NewStatsConnector wraps a Connector with statistics collection.
//
// Example:
//
//	stats := sql.NewStatsConnector(sql.Statement("sqlite", dsn),
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(logger),
//	)
//	adapter := sql.NewAdapter(stats)
//
//	// Later, check statistics:
//	fmt.Println(stats.QueryStats().Stats())
func NewStatsConnector(c dialect.Connector, opts ...StatsOption) *StatsConnector {
	s := &StatsConnector{
		Connector:     c,
		stats:         &QueryStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the underlying QueryStats for reading statistics.
func (c *StatsConnector) QueryStats() *QueryStats {
	return c.stats
}

// SlowThreshold returns the current slow statement threshold.
func (c *StatsConnector) SlowThreshold() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.slowThreshold
}

// SetSlowThreshold updates the slow statement threshold.
func (c *StatsConnector) SetSlowThreshold(threshold time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slowThreshold = threshold
}

// Connect implements the dialect.Connector interface.
func (c *StatsConnector) Connect(ctx context.Context) (dialect.Conn, error) {
	conn, err := c.Connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return &statsConn{Conn: conn, connector: c}, nil
}

func (c *StatsConnector) record(ctx context.Context, query string, args []any, start time.Time, err error, isQuery bool) {
	duration := time.Since(start)
	if isQuery {
		c.stats.TotalQueries.Add(1)
	} else {
		c.stats.TotalExecs.Add(1)
	}
	c.stats.TotalDuration.Add(int64(duration))

	if err != nil {
		c.stats.Errors.Add(1)
	}

	c.mu.RLock()
	threshold := c.slowThreshold
	hook := c.slowHook
	c.mu.RUnlock()

	if duration > threshold {
		c.stats.SlowQueries.Add(1)
		if hook != nil {
			hook(ctx, query, args, duration)
		}
	}
}

type statsConn struct {
	dialect.Conn
	connector *StatsConnector
}

func (c *statsConn) Prepare(ctx context.Context, query string, args []any) (dialect.Stmt, error) {
	stmt, err := c.Conn.Prepare(ctx, query, args)
	if err != nil {
		c.connector.stats.Errors.Add(1)
		return nil, err
	}
	return &statsStmt{Stmt: stmt, query: query, args: args, connector: c.connector}, nil
}

type statsStmt struct {
	dialect.Stmt
	query     string
	args      []any
	connector *StatsConnector
}

func (s *statsStmt) Run(ctx context.Context) (dialect.Result, error) {
	start := time.Now()
	res, err := s.Stmt.Run(ctx)
	s.connector.record(ctx, s.query, s.args, start, err, false)
	return res, err
}

func (s *statsStmt) Get(ctx context.Context) (dialect.Row, error) {
	start := time.Now()
	row, err := s.Stmt.Get(ctx)
	s.connector.record(ctx, s.query, s.args, start, err, true)
	return row, err
}

func (s *statsStmt) All(ctx context.Context) ([]dialect.Row, error) {
	start := time.Now()
	rows, err := s.Stmt.All(ctx)
	s.connector.record(ctx, s.query, s.args, start, err, true)
	return rows, err
}

func (s *statsStmt) Each(ctx context.Context, fn func(dialect.Row) error) (int, error) {
	start := time.Now()
	n, err := s.Stmt.Each(ctx, fn)
	s.connector.record(ctx, s.query, s.args, start, err, true)
	return n, err
}

// DebugConnector wraps a Connector with statement logging.
type DebugConnector struct {
	dialect.Connector
	log func(ctx context.Context, msg string, args ...any)
}

// DebugOption configures the DebugConnector.
type DebugOption func(*DebugConnector)

// DebugWithLog sets a custom log function. Its signature matches the
// context-aware methods of slog.Logger.
func DebugWithLog(logFunc func(ctx context.Context, msg string, args ...any)) DebugOption {
	return func(d *DebugConnector) {
		d.log = logFunc
	}
}

// NewDebugConnector wraps a Connector with debug logging.
//
// Example:
//
//	debug := sql.NewDebugConnector(sql.Statement("sqlite", dsn),
//	    sql.DebugWithLog(logger.DebugContext),
//	)
//	adapter := sql.NewAdapter(debug)
func NewDebugConnector(c dialect.Connector, opts ...DebugOption) *DebugConnector {
	d := &DebugConnector{
		Connector: c,
		log:       slog.InfoContext,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Connect implements the dialect.Connector interface.
func (d *DebugConnector) Connect(ctx context.Context) (dialect.Conn, error) {
	conn, err := d.Connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return &debugConn{Conn: conn, log: d.log}, nil
}

type debugConn struct {
	dialect.Conn
	log func(context.Context, string, ...any)
}

func (c *debugConn) Prepare(ctx context.Context, query string, args []any) (dialect.Stmt, error) {
	stmt, err := c.Conn.Prepare(ctx, query, args)
	if err != nil {
		c.log(ctx, "prepare failed", "statement", query, "args", args, "error", err)
		return nil, err
	}
	return &debugStmt{Stmt: stmt, query: query, args: args, log: c.log}, nil
}

type debugStmt struct {
	dialect.Stmt
	query string
	args  []any
	log   func(context.Context, string, ...any)
}

func (s *debugStmt) Run(ctx context.Context) (dialect.Result, error) {
	s.log(ctx, "exec", "statement", s.query, "args", s.args)
	return s.Stmt.Run(ctx)
}

func (s *debugStmt) Get(ctx context.Context) (dialect.Row, error) {
	s.log(ctx, "query", "statement", s.query, "args", s.args)
	return s.Stmt.Get(ctx)
}

func (s *debugStmt) All(ctx context.Context) ([]dialect.Row, error) {
	s.log(ctx, "query", "statement", s.query, "args", s.args)
	return s.Stmt.All(ctx)
}

func (s *debugStmt) Each(ctx context.Context, fn func(dialect.Row) error) (int, error) {
	s.log(ctx, "query", "statement", s.query, "args", s.args)
	return s.Stmt.Each(ctx, fn)
}

// Ensure interfaces are implemented.
var (
	_ dialect.Connector = (*StatsConnector)(nil)
	_ dialect.Stmt      = (*statsStmt)(nil)
	_ dialect.Connector = (*DebugConnector)(nil)
	_ dialect.Stmt      = (*debugStmt)(nil)
)
