package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/xcfem/xc-sub010/internal/check"
	"github.com/xcfem/xc-sub010/internal/fiber"
	"github.com/xcfem/xc-sub010/internal/interaction"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_store01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("store01. runs and outcomes")

	ctx := context.Background()
	db, err := Open(filepath.Join(tst.TempDir(), "fibersec_test.db"))
	if err != nil {
		tst.Fatalf("open db: %v", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		tst.Fatalf("run migrations: %v", err)
	}
	repo := NewRepository(db)

	outcomes := []check.Outcome{
		{Demand: check.Demand{Element: "C1", Combination: "1", Forces: fiber.Resultant{N: -1e6, My: 5e4}}, Status: check.Pass, Factor: 2.5, Utilization: 0.4, Phi: 1},
		{Demand: check.Demand{Element: "C1", Combination: "2", Forces: fiber.Resultant{N: -1e7}}, Status: check.Fail, Factor: 0.4, Utilization: 2.5, Phi: 1},
		{Demand: check.Demand{Element: "C2", Combination: "1"}, Status: check.CouldNotVerify, Phi: 1, Err: interaction.ErrInvalidDemand},
	}
	run, err := repo.SaveRun(ctx, Run{Section: "column", DiagramType: "d"}, outcomes)
	if err != nil {
		tst.Fatalf("save run: %v", err)
	}
	if run.ID == 0 {
		tst.Fatalf("expected a run id")
	}

	records, err := repo.ListOutcomes(ctx, run.ID)
	if err != nil {
		tst.Fatalf("list outcomes: %v", err)
	}
	chk.Int(tst, "records", len(records), 3)
	chk.Float64(tst, "My", 1e-15, records[0].Forces.My, 5e4)
	chk.String(tst, records[0].Status, "pass")
	if records[0].Factor == nil {
		tst.Fatalf("verified record must have a factor")
	}
	chk.Float64(tst, "factor", 1e-15, *records[0].Factor, 2.5)
	if records[2].Factor != nil {
		tst.Errorf("unverified record must have no factor: %+v", records[2])
	}
	chk.String(tst, records[2].Error, interaction.ErrInvalidDemand.Error())

	worst, err := repo.Worst(ctx, run.ID)
	if err != nil {
		tst.Fatalf("worst: %v", err)
	}
	io.Pforan("worst = %+v\n", worst)
	chk.String(tst, worst.Combination, "2")
	chk.String(tst, worst.Status, "fail")

	empty, err := repo.SaveRun(ctx, Run{Section: "beam", DiagramType: "k"}, nil)
	if err != nil {
		tst.Fatalf("save empty run: %v", err)
	}
	if _, err := repo.Worst(ctx, empty.ID); !errors.Is(err, ErrNotFound) {
		tst.Errorf("expected ErrNotFound, got %v", err)
	}

	runs, err := repo.ListRuns(ctx, "", 10)
	if err != nil {
		tst.Fatalf("list runs: %v", err)
	}
	chk.Int(tst, "runs", len(runs), 2)
	chk.String(tst, runs[0].Section, "beam")
	runs, _ = repo.ListRuns(ctx, "column", 10)
	chk.Int(tst, "column runs", len(runs), 1)
	if runs[0].ID != run.ID {
		tst.Errorf("filtered run %d, expected %d", runs[0].ID, run.ID)
	}

	// a closed database refuses queries
	if err := Close(db); err != nil {
		tst.Fatalf("close: %v", err)
	}
	if _, err := repo.ListRuns(ctx, "", 10); err == nil {
		tst.Errorf("queries on a closed database must fail")
	}
}
