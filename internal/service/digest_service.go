package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/sellerpulse/internal/cache"
	"github.com/andresuchdata/sellerpulse/internal/delivery"
	"github.com/andresuchdata/sellerpulse/internal/digest"
	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/repository"
	"github.com/andresuchdata/sellerpulse/internal/storage"
)

const digestLockTTL = 10 * time.Minute

// ErrDigestInProgress is returned when another run holds the digest lock.
var ErrDigestInProgress = errors.New("digest is already being produced")

type DigestResult struct {
	Run  domain.DigestRun `json:"run"`
	Text string           `json:"text"`
}

// DigestService produces, delivers, archives and journals scheduled digests.
type DigestService struct {
	reports  *ReportService
	sink     delivery.Sink
	archiver storage.Archiver
	runs     repository.DigestRunRepository
	locker   cache.Locker
	chats    map[domain.Marketplace]string
}

type DigestDeps struct {
	Reports  *ReportService
	Sink     delivery.Sink
	Archiver storage.Archiver
	Runs     repository.DigestRunRepository
	Locker   cache.Locker
	Chats    map[domain.Marketplace]string
}

func NewDigestService(deps DigestDeps) *DigestService {
	if deps.Sink == nil {
		deps.Sink = delivery.LogSink{}
	}
	if deps.Runs == nil {
		deps.Runs = repository.NewMemoryDigestRunRepository()
	}
	if deps.Locker == nil {
		deps.Locker = cache.NewMemoryLocker(nil)
	}
	return &DigestService{
		reports:  deps.Reports,
		sink:     deps.Sink,
		archiver: deps.Archiver,
		runs:     deps.Runs,
		locker:   deps.Locker,
		chats:    deps.Chats,
	}
}

// Run produces the digest of kind for its default period.
func (s *DigestService) Run(ctx context.Context, mp domain.Marketplace, kind domain.DigestKind) (DigestResult, error) {
	return s.RunPeriod(ctx, mp, kind, kind.PeriodFor(s.reports.Now()))
}

// RunPeriod produces one digest. Delivery, archive and journal failures are
// logged and reflected in the result, never returned.
func (s *DigestService) RunPeriod(ctx context.Context, mp domain.Marketplace, kind domain.DigestKind, period domain.Period) (DigestResult, error) {
	if !known(mp) {
		return DigestResult{}, ErrUnknownMarketplace
	}

	lockKey := fmt.Sprintf("digest:%s:%s:%s", mp, kind, period)
	lock, err := s.locker.Obtain(ctx, lockKey, digestLockTTL)
	switch {
	case errors.Is(err, cache.ErrLocked):
		return DigestResult{}, ErrDigestInProgress
	case err != nil:
		log.Warn().Err(err).Str("key", lockKey).Msg("digest: lock unavailable, continuing without it")
	default:
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				log.Warn().Err(err).Str("key", lockKey).Msg("digest: lock release failed")
			}
		}()
	}

	input, err := s.reports.DigestInput(ctx, mp, kind, period)
	if err != nil {
		return DigestResult{}, err
	}

	text := digest.Format(input)
	run := domain.DigestRun{
		ID:              uuid.NewString(),
		Marketplace:     mp,
		Kind:            kind,
		PeriodFrom:      period.From,
		PeriodTo:        period.To,
		Status:          input.Finance.Diagnostics.Status,
		GrossRevenue:    input.Finance.GrossRevenue,
		NetRevenue:      input.Finance.NetRevenue,
		Recommendations: digest.Recommend(input),
		Archives:        []string{},
		CreatedAt:       s.reports.Now().UTC(),
	}

	if run.Status == domain.RunStatusSkipped {
		log.Info().Str("marketplace", string(mp)).Str("kind", string(kind)).Msg("digest: marketplace not configured, nothing sent")
	} else {
		run.Delivered = s.sink.SendText(ctx, s.chats[mp], text)
		run.Archives = s.archive(ctx, input, text)
	}

	if err := s.runs.Save(ctx, run); err != nil {
		log.Warn().Err(err).Str("run_id", run.ID).Msg("digest: journal save failed")
	}

	log.Info().
		Str("run_id", run.ID).
		Str("marketplace", string(mp)).
		Str("kind", string(kind)).
		Str("period", period.String()).
		Str("status", string(run.Status)).
		Bool("delivered", run.Delivered).
		Msg("digest: done")

	return DigestResult{Run: run, Text: text}, nil
}

func (s *DigestService) archive(ctx context.Context, input digest.Input, text string) []string {
	locations := []string{}
	if s.archiver == nil {
		return locations
	}

	base := fmt.Sprintf("%s/%s/%s", input.Finance.Marketplace, input.Kind, input.Finance.Period.From.Format(domain.DateLayout))

	locations = s.archiveOne(ctx, locations, base+".md", "text/markdown; charset=utf-8", []byte(text))

	data, err := digest.ExportXLSX(input)
	if err != nil {
		log.Warn().Err(err).Msg("digest: xlsx export failed")
		return locations
	}
	const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	return s.archiveOne(ctx, locations, base+".xlsx", xlsxType, data)
}

// archiveOne keeps the locations of partial copies even when some archivers fail.
func (s *DigestService) archiveOne(ctx context.Context, locations []string, name, contentType string, data []byte) []string {
	loc, err := s.archiver.Archive(ctx, name, contentType, data)
	if err != nil {
		log.Warn().Err(err).Str("name", name).Msg("digest: archive failed")
	}
	if loc != "" {
		locations = append(locations, loc)
	}
	return locations
}

func (s *DigestService) ListRuns(ctx context.Context, filter domain.DigestRunFilter) ([]domain.DigestRun, error) {
	return s.runs.List(ctx, filter)
}
