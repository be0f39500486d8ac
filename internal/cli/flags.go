package cli

import (
	"context"
	"fmt"

	"github.com/me/rota/internal/config"
	"github.com/me/rota/internal/roster"
	"github.com/me/rota/internal/store"
	"github.com/spf13/cobra"
)

// rosterFlags selects the roster source: files when --roster is set,
// otherwise the database.
type rosterFlags struct {
	path string
	jobs string
}

func (f *rosterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "roster", "r", "", "Roster file (.json, .yaml); a bare worker list when --jobs is set")
	cmd.Flags().StringVar(&f.jobs, "jobs", "", "Job list file, paired with a bare worker list in --roster")
}

func (f *rosterFlags) load(ctx context.Context) (*roster.Roster, error) {
	if f.path != "" {
		return roster.File{Path: f.path, JobsPath: f.jobs}.Load(ctx)
	}
	if f.jobs != "" {
		return nil, fmt.Errorf("--jobs requires --roster")
	}
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Load(ctx)
}

// allocFlags override the config file's allocation policy when set.
type allocFlags struct {
	removePrevious int
	maxJobs        int
	maxAttempts    int
	seed           uint64
	shuffle        bool
}

func (f *allocFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.removePrevious, "remove-previous", 2, "Repeat-exclusion window (0 disables)")
	fs.IntVar(&f.maxJobs, "max-jobs", 0, "Fixed per-worker quota (0 derives it from the roster)")
	fs.IntVar(&f.maxAttempts, "max-attempts", 0, "Give up after N attempts (0 retries until complete)")
	fs.Uint64Var(&f.seed, "seed", 0, "Shuffle seed (0 seeds from the clock)")
	fs.BoolVar(&f.shuffle, "shuffle", false, "Shuffle candidates in single rounds")
}

func (f *allocFlags) apply(cmd *cobra.Command, ac *config.AllocationConfig) {
	fs := cmd.Flags()
	if fs.Changed("remove-previous") {
		ac.RemovePrevious = f.removePrevious
	}
	if fs.Changed("max-jobs") {
		ac.MaxJobsOverride = f.maxJobs
	}
	if fs.Changed("max-attempts") {
		ac.MaxAttempts = f.maxAttempts
	}
	if fs.Changed("seed") {
		ac.Seed = f.seed
	}
	if fs.Changed("shuffle") {
		ac.Shuffle = f.shuffle
	}
}

// allocationConfig returns the effective, validated allocation policy.
func (f *allocFlags) allocationConfig(cmd *cobra.Command) (config.AllocationConfig, error) {
	c := cfg
	f.apply(cmd, &c.Allocation)
	if err := c.Validate(); err != nil {
		return c.Allocation, err
	}
	return c.Allocation, nil
}

// openStore opens and migrates the configured database.
func openStore(ctx context.Context) (*store.SQLiteStore, error) {
	dbPath, err := config.ResolveDBPath(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	st, err := store.NewSQLiteStore(dbPath, logger)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	logger.Debug("database ready", "path", dbPath)
	return st, nil
}
