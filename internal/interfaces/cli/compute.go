package cli

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/turtacn/MolDesc-Engine/internal/application/calculator"
	"github.com/turtacn/MolDesc-Engine/internal/domain/descriptor"
	"github.com/turtacn/MolDesc-Engine/internal/domain/descriptor/preset"
	"github.com/turtacn/MolDesc-Engine/internal/domain/molecule"
	"github.com/turtacn/MolDesc-Engine/internal/infrastructure/database/postgres"
	"github.com/turtacn/MolDesc-Engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolDesc-Engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolDesc-Engine/internal/infrastructure/progress"
)

// computeOptions holds compute subcommand flags.
type computeOptions struct {
	input       string
	output      string
	workers     int
	ignore3D    bool
	debug       bool
	conformerID int
	progressUI  string
	store       bool
}

func newComputeCommand() *cobra.Command {
	opts := &computeOptions{}

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the standard descriptor set for a list of SMILES",
		Long: "compute reads one structure per line (SMILES, optionally followed by a\nname), evaluates every registered descriptor, and writes a CSV table whose\ncolumns follow descriptor registration order.  Missing values render as NA\nand failed descriptors as ERR.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runCompute(cmd, cliCtx, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "-", "input file with one SMILES per line (- for stdin)")
	f.StringVarP(&opts.output, "output", "o", "-", "output CSV file (- for stdout)")
	f.IntVarP(&opts.workers, "workers", "w", 0, "parallel workers (1 = serial, 0 = config/CPU count)")
	f.BoolVar(&opts.ignore3D, "ignore-3d", false, "skip descriptors requiring 3D coordinates")
	f.BoolVar(&opts.debug, "debug", false, "validate descriptor result types")
	f.IntVar(&opts.conformerID, "conformer", -1, "conformer ID for 3D descriptors (-1 = primary)")
	f.StringVar(&opts.progressUI, "progress", "", "progress display: quiet, terminal, or rich (default from config)")
	f.BoolVar(&opts.store, "store", false, "persist results to the configured PostgreSQL store")

	return cmd
}

// inputEntry is one parsed input line.
type inputEntry struct {
	name string
	mol  *molecule.Molecule
}

// readStructures parses the input into molecules.  Each non-blank,
// non-comment line holds a SMILES optionally followed by a structure name;
// unnamed structures are numbered by input position.
func readStructures(r io.Reader) ([]inputEntry, error) {
	var entries []inputEntry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		mol, err := molecule.ParseSMILES(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		name := fmt.Sprintf("structure-%d", len(entries)+1)
		if len(fields) > 1 {
			name = strings.Join(fields[1:], " ")
		}
		entries = append(entries, inputEntry{name: name, mol: mol})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func runCompute(cmd *cobra.Command, cliCtx *CLIContext, opts *computeOptions) error {
	cfg := cliCtx.Config
	logger := cliCtx.Logger.Named("compute")

	ignore3D := opts.ignore3D || cfg.Calculator.Ignore3D
	debug := opts.debug || cfg.Calculator.Debug
	workers := opts.workers
	if workers == 0 {
		workers = cfg.Calculator.Workers
	}
	conformerID := opts.conformerID
	if conformerID == -1 {
		conformerID = cfg.Calculator.ConformerID
	}
	progressMode := opts.progressUI
	if progressMode == "" {
		progressMode = cfg.Progress.Mode
	}

	// ── Input / output streams ──────────────────────────────────────────────
	in := cmd.InOrStdin()
	if opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	out := cmd.OutOrStdout()
	if opts.output != "-" {
		f, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	entries, err := readStructures(in)
	if err != nil {
		return err
	}

	// ── Engine assembly ─────────────────────────────────────────────────────
	reg := descriptor.NewRegistry()
	if err := reg.Register(descriptor.Preset(preset.All), descriptor.RegisterOptions{Ignore3D: ignore3D}); err != nil {
		return err
	}

	var metrics *prometheus.Collector
	if cfg.Metrics.Enabled {
		metrics = prometheus.NewCollector(cfg.Metrics.Namespace)
		srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: metrics.Handler()}
		go func() {
			if serveErr := srv.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
				logger.Warn("metrics endpoint stopped", logging.Err(serveErr))
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	svc := calculator.NewService(reg, calculator.ServiceOptions{
		Logger:      logger,
		Metrics:     metrics,
		Debug:       debug,
		ConformerID: conformerID,
	})

	rep := progress.New(progress.Options{
		Mode:            progressMode,
		Out:             cmd.ErrOrStderr(),
		RefreshInterval: cfg.Progress.RefreshInterval,
	})

	var repo *postgres.RunRepository
	runID := uuid.New()
	if opts.store {
		if cfg.Store.DSN == "" {
			return fmt.Errorf("--store requires a configured store DSN")
		}
		conn, connErr := postgres.Connect(cmd.Context(), cfg.Store, logger)
		if connErr != nil {
			return connErr
		}
		defer func() { _ = conn.Close() }()
		repo = postgres.NewRunRepository(conn)
		if createErr := repo.CreateRun(cmd.Context(), runID, workers, reg.Names()); createErr != nil {
			return createErr
		}
	}

	// ── Evaluation ──────────────────────────────────────────────────────────
	writer, err := calculator.NewTableWriter(out, reg)
	if err != nil {
		return err
	}

	mols := make([]*molecule.Molecule, len(entries))
	for i, e := range entries {
		mols[i] = e.mol
	}

	failures := 0
	for row := range svc.EvaluateMany(cmd.Context(), mols, workers, rep) {
		name := entries[row.Index].name
		if row.Err != nil {
			failures++
		}
		if err := writer.WriteRow(name, row); err != nil {
			return err
		}
		if repo != nil && row.Err == nil {
			if saveErr := repo.SaveResults(cmd.Context(), runID, row.Index, name, row.Results); saveErr != nil {
				return saveErr
			}
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	logger.Info("compute finished",
		logging.Int("structures", len(entries)),
		logging.Int("preparation_failures", failures),
		logging.Int("descriptors", reg.Len()),
	)
	return nil
}
