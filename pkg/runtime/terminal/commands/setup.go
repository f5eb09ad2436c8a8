package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os/user"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/de-tools/txn-atlas/pkg/services/config"
	"github.com/de-tools/txn-atlas/pkg/services/pipeline"
	"github.com/de-tools/txn-atlas/pkg/store/artifacts"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/analytics"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/segments"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/transactions"
)

const (
	defaultDBPath = "txn-atlas.db"
	defaultOutDir = "out"

	stageTimeout = 5 * time.Minute
)

// stageFlags are the wiring flags shared by every stage command. Explicit
// flags win over the selected profile, which wins over the defaults.
type stageFlags struct {
	dbPath       string
	outDir       string
	configPath   string
	profileName  string
	profilesPath string
}

func (f *stageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dbPath, "db", "", "Path to the DuckDB database file")
	cmd.Flags().StringVar(&f.outDir, "out", "", "Directory for the JSON and CSV artifacts")
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to the engine config file (YAML)")
	cmd.Flags().StringVar(&f.profileName, "profile", "", "Profile to read db/out paths from")
	cmd.Flags().StringVar(&f.profilesPath, "env", defaultProfilesPath(), "Path to the profiles file")
}

func defaultProfilesPath() string {
	usr, err := user.Current()
	if err != nil {
		return ".txnatlas.ini"
	}
	return filepath.Join(usr.HomeDir, ".txnatlas.ini")
}

func (f *stageFlags) resolvePaths(ctx context.Context) (dbPath, outDir string, err error) {
	dbPath, outDir = f.dbPath, f.outDir
	if f.profileName != "" {
		profile, err := config.NewProfileRegistry(f.profilesPath).GetProfile(ctx, f.profileName)
		if err != nil {
			return "", "", err
		}
		if dbPath == "" {
			dbPath = profile.DBPath
		}
		if outDir == "" {
			outDir = profile.OutDir
		}
	}
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	if outDir == "" {
		outDir = defaultOutDir
	}
	return dbPath, outDir, nil
}

// environment is a fully wired stage runtime: database, stores, runner.
type environment struct {
	dbPath string
	outDir string
	engine config.Engine

	db           *sql.DB
	transactions transactions.Store
	segments     segments.Store
	runner       *pipeline.Runner
	artifacts    artifacts.Store
}

// setup resolves paths and config, opens the database, and wires the
// runner. Overrides run against the loaded engine config before it is
// validated.
func (f *stageFlags) setup(ctx context.Context, overrides ...func(*config.Engine)) (*environment, error) {
	dbPath, outDir, err := f.resolvePaths(ctx)
	if err != nil {
		return nil, err
	}

	engine, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(engine)
	}
	if err := engine.Validate(); err != nil {
		return nil, err
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: dbPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}

	txnStore, err := transactions.NewStore(db)
	if err != nil {
		return nil, closeOnErr(db, err)
	}
	segStore, err := segments.NewStore(db)
	if err != nil {
		return nil, closeOnErr(db, err)
	}
	analyticsStore, err := analytics.NewStore(db)
	if err != nil {
		return nil, closeOnErr(db, err)
	}
	artifactStore, err := artifacts.NewStore(outDir)
	if err != nil {
		return nil, closeOnErr(db, err)
	}

	runner, err := pipeline.NewRunner(pipeline.Deps{
		DB:           db,
		Transactions: txnStore,
		Segments:     segStore,
		Analytics:    analyticsStore,
		Artifacts:    artifactStore,
		Config:       *engine,
	})
	if err != nil {
		return nil, closeOnErr(db, err)
	}

	return &environment{
		dbPath:       dbPath,
		outDir:       outDir,
		engine:       *engine,
		db:           db,
		transactions: txnStore,
		segments:     segStore,
		runner:       runner,
		artifacts:    artifactStore,
	}, nil
}

func (e *environment) Close() error {
	return e.db.Close()
}

func closeOnErr(db *sql.DB, err error) error {
	_ = db.Close()
	return err
}
