// Package engine provides the API-primary proposal engine.
// The CLI and HTTP server are thin wrappers around this engine.
package engine

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solar-proposal/core/assumptions"
	"solar-proposal/core/consumption"
	"solar-proposal/core/design"
	"solar-proposal/core/determinism"
	"solar-proposal/core/environment"
	"solar-proposal/core/finance"
	"solar-proposal/core/production"
	"solar-proposal/core/reference"
	"solar-proposal/core/types"
	"solar-proposal/internal/config"
	apperrors "solar-proposal/internal/errors"
)

// Stage identifies a pipeline step in logs
type Stage string

const (
	StageConsumption Stage = "consumption"
	StageDesign      Stage = "design"
	StageProduction  Stage = "production"
	StageFinance     Stage = "finance"
	StageEnvironment Stage = "environment"
)

// Engine turns customer inputs into proposals. Stages run strictly in
// order and each consumes only the previous stage output plus reference
// data. Safe for concurrent use.
type Engine struct {
	provider reference.Provider
	cfg      config.EngineConfig
	logger   *zap.Logger
	clock    func() time.Time

	consumption *consumption.Estimator
	designer    *design.Designer
	simulator   *production.Simulator
	modeler     *finance.Modeler
	environment *environment.Estimator
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the stage logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock replaces time.Now, making CreatedAt and the proposal ID reproducible
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// New creates an engine. The configuration is validated once here.
func New(provider reference.Provider, cfg config.EngineConfig, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, apperrors.Config("reference provider is required", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		provider:    provider,
		cfg:         cfg,
		logger:      zap.NewNop(),
		clock:       time.Now,
		consumption: consumption.NewEstimator(),
		designer:    design.NewDesigner(provider, cfg),
		simulator:   production.NewSimulator(cfg),
		modeler:     finance.NewModeler(provider, cfg),
		environment: environment.NewEstimator(cfg),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Provider returns the reference data the engine prices against
func (e *Engine) Provider() reference.Provider {
	return e.provider
}

// Config returns the engine assumptions
func (e *Engine) Config() config.EngineConfig {
	return e.cfg
}

// Generate runs the full pipeline. Any stage failure aborts the run and
// no partial proposal is returned.
func (e *Engine) Generate(input types.CustomerInput) (*types.Proposal, error) {
	started := e.clock()
	tracker := assumptions.NewTracker()

	inputHash, err := determinism.InputHash(input)
	if err != nil {
		return nil, err
	}
	log := e.logger.With(zap.String("input_hash", inputHash.String()))

	region, err := e.region(input.RegionID, tracker)
	if err != nil {
		return nil, err
	}

	monthlyKwh, source, err := e.consumption.Resolve(input, region)
	if err != nil {
		return nil, e.fail(log, StageConsumption, err)
	}
	if source == consumption.SourceBill {
		tracker.RecordDerived(assumptions.StageConsumption,
			"monthly consumption of %.1f kWh estimated from a %.0f ARS bill", monthlyKwh, input.MonthlyBillARS)
	}
	log.Debug("stage complete",
		zap.String("stage", string(StageConsumption)),
		zap.Float64("monthly_kwh", monthlyKwh),
		zap.String("source", string(source)))

	system, err := e.designer.DesignTracked(monthlyKwh, region, input, tracker)
	if err != nil {
		return nil, e.fail(log, StageDesign, err)
	}
	log.Debug("stage complete",
		zap.String("stage", string(StageDesign)),
		zap.Float64("system_kwp", system.SystemSizeKwp),
		zap.String("panel", system.Panel.ID),
		zap.Int("panel_count", system.PanelCount),
		zap.String("inverter", system.Inverter.ID),
		zap.Int("inverter_count", system.InverterCount))

	energy, err := e.simulator.Simulate(system, region, input.Orientation, monthlyKwh)
	if err != nil {
		return nil, e.fail(log, StageProduction, err)
	}
	if energy.CoverageRatio > 1 {
		tracker.RecordDerived(assumptions.StageProduction,
			"production covers %.0f%% of consumption; coverage is displayed as 100%%", energy.CoverageRatio*100)
	}
	log.Debug("stage complete",
		zap.String("stage", string(StageProduction)),
		zap.Float64("annual_kwh", energy.AnnualKwh),
		zap.Float64("coverage_ratio", energy.CoverageRatio))

	financial, err := e.modeler.AnalyzeTracked(system, energy, region, input, tracker)
	if err != nil {
		return nil, e.fail(log, StageFinance, err)
	}
	log.Debug("stage complete",
		zap.String("stage", string(StageFinance)),
		zap.String("investment_usd", financial.TotalInvestmentUSD.StringFixed(2)),
		zap.Float64("payback_years", financial.PaybackYears),
		zap.Bool("irr_defined", financial.IRRDefined))

	impact := e.environment.Estimate(energy, financial.YearlyProjection)
	tracker.RecordDefault(assumptions.StageEnvironment,
		"grid emission factor %.2f kg CO2/kWh", e.cfg.GridEmissionFactor)
	log.Debug("stage complete",
		zap.String("stage", string(StageEnvironment)),
		zap.Float64("annual_co2_kg", impact.AnnualCO2AvoidedKg))

	createdAt := started
	proposal := &types.Proposal{
		ID:                determinism.ProposalID(inputHash, createdAt),
		CreatedAt:         createdAt,
		ValidUntil:        createdAt.AddDate(0, 0, e.cfg.ProposalValidityDays),
		CustomerInput:     input,
		Region:            region,
		System:            system,
		Production:        energy,
		Financial:         financial,
		Environmental:     impact,
		ExchangeRate:      region.ExchangeRate,
		ConsumptionSource: string(source),
		Assumptions:       tracker.All(),
		ReferenceSnapshot: e.provider.SnapshotHash(),
		InputHash:         inputHash.Hex(),
	}

	log.Info("proposal generated",
		zap.String("id", proposal.ID),
		zap.String("region", region.ID),
		zap.Float64("system_kwp", system.SystemSizeKwp),
		zap.Duration("duration", e.clock().Sub(started)))

	return proposal, nil
}

// GenerateBatch generates proposals concurrently with at most limit
// workers. Results keep the input order; the first failure cancels the
// remaining work.
func (e *Engine) GenerateBatch(ctx context.Context, inputs []types.CustomerInput, limit int) ([]*types.Proposal, error) {
	proposals := make([]*types.Proposal, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := e.Generate(inputs[i])
			if err != nil {
				var ae *apperrors.Error
				if stderrors.As(err, &ae) {
					ae.WithContext("index", i)
				}
				return err
			}
			proposals[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return proposals, nil
}

// region resolves the region and applies the exchange-rate override to a copy
func (e *Engine) region(id string, tracker *assumptions.Tracker) (types.Region, error) {
	region, err := e.provider.Region(id)
	if err != nil {
		if apperrors.IsType(err, apperrors.TypeNotFound) {
			return types.Region{}, apperrors.Wrap(apperrors.TypeInvalidInput, "unknown region "+id, err)
		}
		return types.Region{}, err
	}

	if e.cfg.ExchangeRateOverride > 0 && e.cfg.ExchangeRateOverride != region.ExchangeRate {
		tracker.RecordOverride(assumptions.StageEngine,
			"exchange rate %.2f ARS/USD replaces the %s reference rate %.2f",
			e.cfg.ExchangeRateOverride, region.Name, region.ExchangeRate)
		region.ExchangeRate = e.cfg.ExchangeRateOverride
	}
	return region, nil
}

func (e *Engine) fail(log *zap.Logger, stage Stage, err error) error {
	log.Debug("stage failed",
		zap.String("stage", string(stage)),
		zap.String("error_type", string(apperrors.TypeOf(err))),
		zap.Error(err))
	return err
}
