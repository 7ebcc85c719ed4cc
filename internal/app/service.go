// Package service runs the draft board pipeline: build from a raw ranking
// export, load from the flat pair, and promote finalized ranks into the
// enrichment file.
package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/okian/draftboard/internal/adapters/enrichment"
	"github.com/okian/draftboard/internal/adapters/export"
	"github.com/okian/draftboard/internal/config"
	"github.com/okian/draftboard/internal/domain/consensus"
	"github.com/okian/draftboard/internal/domain/merge"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/position"
	"github.com/okian/draftboard/internal/domain/scoring"
	"github.com/okian/draftboard/internal/ingest/csvparse"
	"github.com/okian/draftboard/internal/ingest/schema"
	"github.com/okian/draftboard/pkg/logger"
	"github.com/okian/draftboard/pkg/metrics"
)

// Operation names used in logs and metrics.
const (
	OpBuild   = "build"
	OpLoad    = "load"
	OpPromote = "promote"
)

const (
	defaultName   = "Unknown Player"
	defaultSchool = "N/A"
)

// Service orchestrates one pipeline run at a time. It keeps no state between
// runs; every board is recomputed from its inputs.
type Service struct {
	cfg *config.Config

	parser     *csvparse.Parser
	schema     *schema.Normalizer
	positions  *position.Normalizer
	allowed    position.Set
	aggregator *consensus.Aggregator
	merger     *merge.Merger

	now      func() time.Time
	newRunID func() string
	logger   logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for durations and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRunID overrides run id generation.
func WithRunID(next func() string) Option {
	return func(s *Service) {
		if next != nil {
			s.newRunID = next
		}
	}
}

// New wires the pipeline from cfg. A nil cfg uses config.New.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	calc := scoring.NewCalculator(
		scoring.WithTiers(cfg.Tiers),
		scoring.WithPositionValues(cfg.PositionValueTable()),
		scoring.WithDefaultPositionValue(cfg.DefaultPositionValue),
		scoring.WithFantasyMultipliers(cfg.FantasyMultiplierTable()),
		scoring.WithDefaultFantasyMultiplier(cfg.DefaultFantasyMultiplier),
	)

	s := &Service{
		cfg:        cfg,
		parser:     csvparse.New(),
		schema:     schema.New(cfg.AliasTable()),
		positions:  position.NewNormalizer(position.WithGroupedLine(cfg.GroupLine)),
		allowed:    cfg.AllowedPositions(),
		aggregator: consensus.New(cfg.SourceColumns, cfg.SourceWeights, consensus.WithRankMode(consensus.RankMode(cfg.RankMode))),
		merger:     merge.New(calc, merge.WithHighlightSeason(cfg.HighlightSeason)),
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("pipeline")
	}
	return s, nil
}

// Board is the outcome of a run.
type Board struct {
	RunID   string
	Players []model.PlayerRecord
	// Filtered counts rows dropped for a disallowed position.
	Filtered int
	Misses   []merge.Miss
	// Files lists the paths written, in write order.
	Files []string
}

// BuildRequest names the inputs and outputs of a build.
type BuildRequest struct {
	Input string
	// Enrichment defaults to player-enrichment.csv next to Input.
	Enrichment string
	// OutDir defaults to the directory of Input.
	OutDir string
}

// Build parses a raw ranking export, computes the board and writes the JSON
// export and flat pair. Nothing is written unless every output rendered.
func (s *Service) Build(ctx context.Context, req BuildRequest) (board *Board, err error) {
	if strings.TrimSpace(req.Input) == "" {
		return nil, errors.Wrap(ErrNoInput, "build")
	}
	log, finish := s.start(ctx, OpBuild, req.Input)
	defer func() { finish(err) }()

	data, err := os.ReadFile(req.Input)
	if err != nil {
		return nil, errors.Wrapf(err, "read input %s", req.Input)
	}
	records, err := s.readEnrichment(ctx, log, s.enrichmentPath(req.Input, req.Enrichment))
	if err != nil {
		return nil, err
	}

	board, err = s.Transform(ctx, string(data), records)
	if err != nil {
		return nil, err
	}
	board.RunID = log.runID

	dir := req.OutDir
	if dir == "" {
		dir = filepath.Dir(req.Input)
	}
	files, err := export.Render(dir, board.Players)
	if err != nil {
		return nil, err
	}
	if err := export.WriteAll(files); err != nil {
		return nil, err
	}
	for _, f := range files {
		board.Files = append(board.Files, f.Path)
	}
	s.report(ctx, log, board)
	return board, nil
}

// Transform runs the in-memory part of a build over raw CSV text.
func (s *Service) Transform(_ context.Context, text string, records []model.EnrichmentRecord) (*Board, error) {
	rows, err := s.parser.Parse(text)
	if err != nil {
		return nil, err
	}
	metrics.RecordRowsParsed(len(rows))

	board := &Board{}
	primary := make([]model.PrimaryRow, 0, len(rows))
	var sources []model.SourceRow
	for _, row := range rows {
		c := s.schema.Normalize(row)
		pos := s.positions.Normalize(c.Value(schema.FieldPosition))
		if !s.allowed.Contains(pos) {
			board.Filtered++
			metrics.RecordRowFiltered("position")
			continue
		}

		// ids count kept rows only, so a filtered row takes no id or row-order rank.
		id := len(primary) + 1
		res := s.aggregator.Aggregate(consensus.Input{
			Row:          c,
			ExplicitRank: c.Value(schema.FieldRank),
			Order:        id,
		})
		for _, sk := range res.Skipped {
			metrics.RecordSourceSkipped(sk.Source, sk.Reason)
		}
		if res.FallbackOrigin != "" {
			metrics.RecordFallback(res.FallbackOrigin)
		} else {
			metrics.RecordSourcesAccepted(res.SourceCount())
		}

		primary = append(primary, model.PrimaryRow{
			ID:            id,
			Name:          orDefault(c.Value(schema.FieldName), defaultName),
			Position:      pos,
			School:        orDefault(c.Value(schema.FieldSchool), defaultSchool),
			Year:          c.Value(schema.FieldYear),
			Size:          c.Value(schema.FieldSize),
			Weight:        c.Value(schema.FieldWeight),
			Speed:         c.Value(schema.FieldSpeed),
			ConsensusRank: res.ConsensusRank,
		})
		for _, r := range res.Sources {
			sources = append(sources, model.SourceRow{PlayerID: id, Ranking: r})
		}
	}

	s.merge(board, primary, sources, records)
	return board, nil
}

// LoadRequest names the flat pair and the optional enrichment file.
type LoadRequest struct {
	Players    string
	Sources    string
	Enrichment string
	// Out, when set, receives the JSON export.
	Out string
}

// Load joins the flat pair with enrichment and recomputes every derived
// metric. The flat pair's own derived columns are ignored.
func (s *Service) Load(ctx context.Context, req LoadRequest) (board *Board, err error) {
	if strings.TrimSpace(req.Players) == "" {
		return nil, errors.Wrap(ErrNoInput, "load")
	}
	log, finish := s.start(ctx, OpLoad, req.Players)
	defer func() { finish(err) }()

	playersCSV, err := os.ReadFile(req.Players)
	if err != nil {
		return nil, errors.Wrapf(err, "read players %s", req.Players)
	}
	var sourcesCSV []byte
	if req.Sources != "" {
		if sourcesCSV, err = os.ReadFile(req.Sources); err != nil {
			return nil, errors.Wrapf(err, "read sources %s", req.Sources)
		}
	}
	records, err := s.readEnrichment(ctx, log, s.enrichmentPath(req.Players, req.Enrichment))
	if err != nil {
		return nil, err
	}

	board, err = s.Join(ctx, playersCSV, sourcesCSV, records)
	if err != nil {
		return nil, err
	}
	board.RunID = log.runID

	if req.Out != "" {
		data, err := export.EncodeJSON(board.Players)
		if err != nil {
			return nil, err
		}
		if err := export.ValidateJSON(data); err != nil {
			return nil, err
		}
		if err := export.WriteFile(req.Out, data); err != nil {
			return nil, err
		}
		board.Files = append(board.Files, req.Out)
	}
	s.report(ctx, log, board)
	return board, nil
}

// Join merges an in-memory flat pair with enrichment.
func (s *Service) Join(_ context.Context, playersCSV, sourcesCSV []byte, records []model.EnrichmentRecord) (*Board, error) {
	flat, err := export.DecodeTables(playersCSV, nil)
	if err != nil {
		return nil, err
	}
	sources, err := export.DecodeSourceRows(sourcesCSV)
	if err != nil {
		return nil, err
	}
	primary := make([]model.PrimaryRow, 0, len(flat))
	for _, p := range flat {
		primary = append(primary, model.PrimaryRow{
			ID:            p.ID,
			Name:          orDefault(p.Name, defaultName),
			Position:      s.positions.Normalize(string(p.Position)),
			School:        orDefault(p.School, defaultSchool),
			Year:          p.Year,
			Size:          p.Size,
			Weight:        p.Weight,
			Speed:         p.Speed,
			ConsensusRank: p.ConsensusRank,
		})
	}
	board := &Board{}
	s.merge(board, primary, sources, records)
	return board, nil
}

// PromoteRequest names the finalized board and the enrichment file to update.
type PromoteRequest struct {
	Board      string
	Enrichment string
}

// Promote writes every board player's finalized rank into the enrichment
// file as prior_rank. It is the only path that modifies enrichment.
func (s *Service) Promote(ctx context.Context, req PromoteRequest) (res enrichment.PromoteResult, err error) {
	if strings.TrimSpace(req.Board) == "" || strings.TrimSpace(req.Enrichment) == "" {
		return res, errors.Wrap(ErrNoInput, "promote")
	}
	log, finish := s.start(ctx, OpPromote, req.Board)
	defer func() { finish(err) }()

	players, err := ReadBoard(req.Board)
	if err != nil {
		return res, err
	}
	records, err := s.readEnrichment(ctx, log, req.Enrichment)
	if err != nil {
		return res, err
	}
	res = enrichment.Promote(records, players)
	if err := enrichment.WriteFile(req.Enrichment, res.Records); err != nil {
		return res, err
	}
	log.Info(ctx, "enrichment promoted",
		logger.String("enrichment", req.Enrichment),
		logger.Int("updated", res.Updated),
		logger.Int("added", res.Added),
	)
	return res, nil
}

// ReadBoard loads and validates a JSON board export.
func ReadBoard(path string) ([]model.PlayerRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read board %s", path)
	}
	if err := export.ValidateJSON(data); err != nil {
		return nil, errors.Wrapf(err, "board %s", path)
	}
	return export.DecodeJSON(data)
}

func (s *Service) merge(board *Board, primary []model.PrimaryRow, sources []model.SourceRow, records []model.EnrichmentRecord) {
	res := s.merger.Merge(primary, sources, records)
	board.Players = res.Players
	board.Misses = res.Misses
	for _, m := range res.Misses {
		if m.Kind == merge.MissEnrichment {
			metrics.RecordEnrichmentMiss()
		}
	}
	for range res.DuplicateKeys {
		metrics.RecordEnrichmentDuplicate()
	}
}

func (s *Service) enrichmentPath(input, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(filepath.Dir(input), enrichment.DefaultFile)
}

func (s *Service) readEnrichment(ctx context.Context, log *runLogger, path string) ([]model.EnrichmentRecord, error) {
	records, found, err := enrichment.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !found {
		log.Info(ctx, "enrichment file not found, using defaults", logger.String("enrichment", path))
		return nil, nil
	}
	log.Debug(ctx, "enrichment loaded", logger.String("enrichment", path), logger.Int("records", len(records)))
	return records, nil
}

func (s *Service) report(ctx context.Context, log *runLogger, board *Board) {
	metrics.UpdatePlayersEmitted(len(board.Players))
	for _, m := range board.Misses {
		log.Info(ctx, "join miss, using defaults",
			logger.Int("player_id", m.PlayerID),
			logger.String("name", m.Name),
			logger.String("kind", m.Kind),
		)
	}
	log.Info(ctx, "board ready",
		logger.Int("players", len(board.Players)),
		logger.Int("filtered", board.Filtered),
		logger.Int("misses", len(board.Misses)),
		logger.Any("files", board.Files),
	)
}

type runLogger struct {
	logger.Logger
	runID string
}

// start opens a run: a run-scoped logger and a finish func recording the
// outcome in metrics and the optional textfile.
func (s *Service) start(ctx context.Context, op, input string) (*runLogger, func(error)) {
	runID := s.newRunID()
	log := &runLogger{
		Logger: s.logger.With(
			logger.String("run_id", runID),
			logger.String("operation", op),
			logger.String("profile", s.cfg.Profile),
			logger.String("input", input),
		),
		runID: runID,
	}
	begin := s.now()
	log.Debug(ctx, "run started")

	return log, func(err error) {
		end := s.now()
		metrics.RecordRunDuration(op, end.Sub(begin).Seconds())
		if err != nil {
			metrics.RecordRunFailure(op)
			log.Error(ctx, "run failed", logger.Error(err))
		} else {
			metrics.RecordRunSuccess(op, float64(end.Unix()))
		}
		if werr := metrics.WriteTextfile(s.cfg.MetricsFile); werr != nil {
			log.Warn(ctx, "metrics textfile not written", logger.Error(werr))
		}
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
