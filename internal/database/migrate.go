package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"pantry_tracker/internal/config"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

var (
	// ErrMigrationFailed wraps any failure that aborted a migration run.
	ErrMigrationFailed = errors.New("migration failed")

	// ErrUnsupportedSchema is returned when an existing table lacks a column
	// that cannot be added in place.
	ErrUnsupportedSchema = errors.New("unsupported store schema")
)

// StepKind tells whether a step creates a table or adds a column.
type StepKind int

const (
	StepCreateTable StepKind = iota
	StepAddColumn
)

// Step is one item of a migration plan. Existing steps are already satisfied
// by the live schema and carry no statements.
type Step struct {
	Kind       StepKind
	Table      string
	Column     string
	Existing   bool
	Statements []Statement
}

func (s Step) String() string {
	switch {
	case s.Kind == StepCreateTable && s.Existing:
		return fmt.Sprintf("'%s' table already exists", s.Table)
	case s.Kind == StepCreateTable:
		return fmt.Sprintf("create '%s' table", s.Table)
	case s.Existing:
		return fmt.Sprintf("'%s.%s' column already exists", s.Table, s.Column)
	default:
		return fmt.Sprintf("add '%s.%s' column", s.Table, s.Column)
	}
}

// Catalog is the live schema: table name to its set of columns. Tables that
// do not exist are missing from the map.
type Catalog map[string]map[string]bool

// Describe reads the live catalog for the tables of schema.
func Describe(ctx context.Context, q sqlx.QueryerContext, d Dialect, schema []Table) (Catalog, error) {
	catalog := Catalog{}
	for _, t := range schema {
		exists, err := d.TableExists(ctx, q, t.Name)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}
		cols, err := d.Columns(ctx, q, t.Name)
		if err != nil {
			return nil, err
		}
		set := make(map[string]bool, len(cols))
		for _, c := range cols {
			set[c] = true
		}
		catalog[t.Name] = set
	}
	return catalog, nil
}

// Diff plans the statements that bring the catalog to the target schema.
func Diff(catalog Catalog, schema []Table, d Dialect) ([]Step, error) {
	var steps []Step
	for _, t := range schema {
		live, ok := catalog[t.Name]
		if !ok {
			steps = append(steps, Step{Kind: StepCreateTable, Table: t.Name, Statements: t.CreateStatements(d)})
			continue
		}
		steps = append(steps, Step{Kind: StepCreateTable, Table: t.Name, Existing: true})
		for _, c := range t.Columns {
			if live[c.Name] {
				if c.Additive {
					steps = append(steps, Step{Kind: StepAddColumn, Table: t.Name, Column: c.Name, Existing: true})
				}
				continue
			}
			if !c.Additive {
				return nil, fmt.Errorf("%w: table %s has no column %s", ErrUnsupportedSchema, t.Name, c.Name)
			}
			steps = append(steps, Step{
				Kind:       StepAddColumn,
				Table:      t.Name,
				Column:     c.Name,
				Statements: []Statement{t.AddColumnStatement(d, c)},
			})
		}
	}
	return steps, nil
}

// Report summarizes a migration run.
type Report struct {
	BackupPath string   `json:"backup_path,omitempty"`
	Applied    []string `json:"applied"`
	Existing   []string `json:"existing"`
	Products   int64    `json:"products"`
	Locations  int64    `json:"locations"`
}

// Migrator brings a pantry store to the target schema.
type Migrator struct {
	cfg    config.StoreConfig
	schema []Table
	logger zerolog.Logger
	now    func() time.Time

	// afterStep runs after each applied step, inside the transaction.
	afterStep func(Step) error
}

// NewMigrator returns a Migrator that brings the store described by cfg to
// PantrySchema.
func NewMigrator(cfg config.StoreConfig, logger zerolog.Logger) *Migrator {
	return &Migrator{
		cfg:    cfg,
		schema: PantrySchema,
		logger: logger,
		now:    time.Now,
	}
}

// Run backs up the store, then applies the missing schema in one
// transaction. On failure nothing is committed and the backup is left in place.
func (m *Migrator) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	backupPath, err := m.backup()
	if err != nil {
		m.logger.Error().Err(err).Msg("Backup failed, store left untouched")
		return report, fmt.Errorf("%w: backup: %v", ErrMigrationFailed, err)
	}
	report.BackupPath = backupPath

	m.logger.Info().Str("driver", m.cfg.Driver).Msg("Starting database migration")
	store, err := Open(ctx, m.cfg)
	if err != nil {
		m.logger.Error().Err(err).Msg("Could not open store")
		return report, fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}
	defer store.Close()

	if err := m.apply(ctx, store, report); err != nil {
		m.logger.Error().Err(err).Msg("Migration failed, all changes rolled back")
		return report, err
	}
	m.logger.Info().Msg("Migration completed successfully")

	if err := store.GetContext(ctx, &report.Products, "SELECT COUNT(*) FROM products"); err != nil {
		return report, fmt.Errorf("counting products: %w", err)
	}
	if err := store.GetContext(ctx, &report.Locations, "SELECT COUNT(*) FROM locations"); err != nil {
		return report, fmt.Errorf("counting locations: %w", err)
	}
	m.logger.Info().
		Int64("products", report.Products).
		Int64("locations", report.Locations).
		Str("backup", report.BackupPath).
		Msg("Database summary")
	return report, nil
}

func (m *Migrator) backup() (string, error) {
	if !m.cfg.FileBacked() {
		m.logger.Warn().Str("driver", m.cfg.Driver).Msg("Store is not file-backed, skipping backup")
		return "", nil
	}
	if _, err := os.Stat(m.cfg.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.logger.Warn().Str("path", m.cfg.Path).Msg("No existing database found, starting fresh")
			return "", nil
		}
		return "", err
	}

	m.logger.Info().Str("path", m.cfg.Path).Msg("Creating backup")
	dst, err := createBackup(m.cfg.Path, m.now())
	if err != nil {
		return "", err
	}
	m.logger.Info().Str("backup", dst).Msg("Backup created")
	return dst, nil
}

func (m *Migrator) apply(ctx context.Context, store *Store, report *Report) (err error) {
	tx, err := store.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", ErrMigrationFailed, err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			m.logger.Error().Err(rbErr).Msg("Rollback failed")
		}
	}()

	catalog, err := Describe(ctx, tx, store.Dialect, m.schema)
	if err != nil {
		return fmt.Errorf("%w: describe schema: %v", ErrMigrationFailed, err)
	}
	steps, err := Diff(catalog, m.schema, store.Dialect)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}

	var applied, existing []string
	for _, step := range steps {
		if step.Existing {
			m.logger.Info().Msg(step.String())
			existing = append(existing, step.String())
			continue
		}
		for _, stmt := range step.Statements {
			if _, err = tx.ExecContext(ctx, tx.Rebind(stmt.SQL), stmt.Args...); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrMigrationFailed, step, err)
			}
		}
		m.logger.Info().Msg(step.String() + ": done")
		if m.afterStep != nil {
			if err = m.afterStep(step); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrMigrationFailed, step, err)
			}
		}
		applied = append(applied, step.String())
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrMigrationFailed, err)
	}
	report.Applied = applied
	report.Existing = existing
	return nil
}
