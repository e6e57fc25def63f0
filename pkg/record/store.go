package record

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ja7ad/mediator/pkg/parameter"
	"github.com/ja7ad/mediator/pkg/types"
)

const schema = `CREATE TABLE IF NOT EXISTS records (
	id         TEXT PRIMARY KEY,
	process    TEXT NOT NULL,
	name       TEXT NOT NULL,
	mv         REAL NOT NULL,
	mdm        REAL NOT NULL,
	a_r        REAL NOT NULL,
	g          REAL,
	g_tot      REAL,
	br         REAL,
	m_top      REAL NOT NULL,
	xsection   REAL NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE (process, name)
)`

// Store keeps records in a SQLite database, one row per process and point.
type Store struct {
	db *sqlx.DB
}

type row struct {
	ID        string   `db:"id"`
	Process   string   `db:"process"`
	Name      string   `db:"name"`
	MV        float64  `db:"mv"`
	MDM       float64  `db:"mdm"`
	AR        float64  `db:"a_r"`
	G         *float64 `db:"g"`
	GTot      *float64 `db:"g_tot"`
	BR        *float64 `db:"br"`
	MTop      float64  `db:"m_top"`
	XSection  float64  `db:"xsection"`
	CreatedAt string   `db:"created_at"`
}

func toRow(r Record) row {
	return row{
		ID:        r.ID.String(),
		Process:   r.Process,
		Name:      r.Name(),
		MV:        r.MediatorMass,
		MDM:       r.DarkMatterMass,
		AR:        r.VisibleCoupling,
		G:         r.DMCoupling.Ptr(),
		GTot:      r.TotalWidth.Ptr(),
		BR:        r.BranchingRatio.Ptr(),
		MTop:      r.TopMass,
		XSection:  r.CrossSection,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (w row) record() (Record, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return Record{}, fmt.Errorf("record: row %s: %w", w.Name, err)
	}
	at, err := time.Parse(time.RFC3339Nano, w.CreatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("record: row %s: %w", w.Name, err)
	}
	return Record{
		ID:           id,
		Process:      w.Process,
		CrossSection: w.XSection,
		Values: parameter.Values{
			MediatorMass:    w.MV,
			DarkMatterMass:  w.MDM,
			VisibleCoupling: w.AR,
			DMCoupling:      types.FromPtr(w.G),
			TotalWidth:      types.FromPtr(w.GTot),
			BranchingRatio:  types.FromPtr(w.BR),
			TopMass:         w.MTop,
		},
		CreatedAt: at,
	}, nil
}

// Open opens (or creates) the database at dsn, e.g. a file path or
// ":memory:", and ensures the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("record: open store: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps :memory: alive.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("record: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Put inserts r, replacing an earlier record of the same process and point.
func (s *Store) Put(ctx context.Context, r Record) error {
	if r.Process == "" {
		return ErrNoProcess
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO records
		(id, process, name, mv, mdm, a_r, g, g_tot, br, m_top, xsection, created_at)
		VALUES (:id, :process, :name, :mv, :mdm, :a_r, :g, :g_tot, :br, :m_top, :xsection, :created_at)
		ON CONFLICT (process, name) DO UPDATE SET
			id = excluded.id, mv = excluded.mv, mdm = excluded.mdm, a_r = excluded.a_r,
			g = excluded.g, g_tot = excluded.g_tot, br = excluded.br, m_top = excluded.m_top,
			xsection = excluded.xsection, created_at = excluded.created_at`, toRow(r))
	if err != nil {
		return fmt.Errorf("record: put %s %s: %w", r.Process, r.Name(), err)
	}
	return nil
}

// List returns every record ordered by process and point name.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM records ORDER BY process, name`); err != nil {
		return nil, fmt.Errorf("record: list: %w", err)
	}
	out := make([]Record, 0, len(rows))
	for _, w := range rows {
		r, err := w.record()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Has reports whether a record exists for process at p.
func (s *Store) Has(ctx context.Context, process string, p *parameter.Space) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM records WHERE process = ? AND name = ?`, process, p.Name())
	if err != nil {
		return false, fmt.Errorf("record: has: %w", err)
	}
	return n > 0, nil
}
