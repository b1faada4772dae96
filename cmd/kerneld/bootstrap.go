package main

import (
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"andromeda-kernel/adapters"
	"andromeda-kernel/adodb"
	"andromeda-kernel/core"
	"andromeda-kernel/economics"
	"andromeda-kernel/kernel"
	"andromeda-kernel/pkg/config"
	"andromeda-kernel/vfs"
)

// deps bundles the wired-together component graph every subcommand needs.
// Built once per process, the same lazy sync.Once-guarded pattern the
// teacher's CLI uses for its access controller.
type deps struct {
	cfg    *config.Config
	store  *core.MemStore
	vfs    *vfs.VFS
	db     *adodb.ADODB
	econ   *economics.Ledger
	fees   *economics.FeeCharger
	kernel *kernel.Kernel
}

var (
	bootOnce sync.Once
	bootErr  error
	kd       *deps
)

func bootstrapInit(cmd *cobra.Command, _ []string) error {
	bootOnce.Do(func() {
		cfg, err := config.LoadFromEnv()
		if err != nil {
			bootErr = err
			return
		}
		initLogger(cfg.Logging.Level)
		kd, bootErr = buildDeps(cfg)
	})
	return bootErr
}

// initLogger installs the kernel's dispatch/reply/ack logger as the zap
// global, the same ReplaceGlobals call the teacher's CLI makes on startup
// (cmd/cli/ai.go). A bad level string falls back to the production default
// rather than failing startup.
func initLogger(level string) {
	var zapLevel zap.AtomicLevel
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zapLevel
	logger, err := zapCfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	zap.ReplaceGlobals(logger)
}

func buildDeps(cfg *config.Config) (*deps, error) {
	store := core.NewMemStore()
	bank := adapters.NoopBank{}
	v := vfs.New(store, cfg.Kernel.LocalChain)
	db := adodb.New(store, cfg.ADODB.RegistryOwner)
	econ := economics.New(store, bank)
	fees := economics.NewFeeCharger(econ, db, adapters.NoopWasm{})
	k := kernel.New(store, cfg.Kernel.Address, cfg.Kernel.Owner, cfg.Kernel.LocalChain,
		v, db, econ, fees, bank, adapters.NoopWasm{}, adapters.NoopIBC{}, adapters.NoopICS20{})
	return &deps{cfg: cfg, store: store, vfs: v, db: db, econ: econ, fees: fees, kernel: k}, nil
}
