// Package service wires the pipeline stages together behind the consumer
// contract: resolve the session, extract all drivers in parallel, unify the
// timeline, align weather, assemble frames and cache the artifact.
package service

import (
	"context"

	"github.com/f1insight/frameforge/log"
	"github.com/f1insight/frameforge/pkg/cache"
	"github.com/f1insight/frameforge/pkg/model"
	"github.com/f1insight/frameforge/pkg/processing/dispatch"
	"github.com/f1insight/frameforge/pkg/processing/frame"
	"github.com/f1insight/frameforge/pkg/processing/timeline"
	"github.com/f1insight/frameforge/pkg/processing/weather"
	"github.com/f1insight/frameforge/pkg/source"
)

// ProcessingVersion tags cache entries with the pipeline generation that
// produced them. Bump it whenever resampling or assembly semantics change so
// stale artifacts are recomputed instead of served.
const ProcessingVersion = "v1"

type FrameService struct {
	client     source.Client
	store      cache.Store
	dispatcher *dispatch.Dispatcher
	unifier    *timeline.Unifier
	aligner    *weather.Aligner
	assembler  *frame.Assembler
	l          *log.Logger
}

type Option func(*FrameService)

func WithAligner(arg *weather.Aligner) Option {
	return func(s *FrameService) {
		s.aligner = arg
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(s *FrameService) {
		s.l = arg
	}
}

//nolint:whitespace // false positive
func NewFrameService(
	client source.Client,
	store cache.Store,
	dispatcher *dispatch.Dispatcher,
	opts ...Option,
) *FrameService {
	ret := &FrameService{
		client:     client,
		store:      store,
		dispatcher: dispatcher,
		unifier:    timeline.NewUnifier(),
		aligner:    weather.NewAligner(),
		assembler:  frame.NewAssembler(),
		l:          log.Default().Named("service"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// ResolveSession resolves a (year, round, session-type) triple to the
// session metadata. Retry behavior lives in the source client decorator.
//
//nolint:whitespace // false positive
func (s *FrameService) ResolveSession(
	ctx context.Context, year, round int, sessionType model.SessionType,
) (*model.SessionMeta, error) {
	return s.client.ResolveSession(ctx, year, round, sessionType)
}

// GetFrameSequence returns the fused artifact for a session, serving it from
// the cache when possible. forceRefresh bypasses the cache read and
// overwrites the entry afterwards. A partially failed session (some drivers
// excluded) still yields a usable sequence; nothing is cached unless the
// whole pipeline succeeded.
//
//nolint:whitespace // false positive
func (s *FrameService) GetFrameSequence(
	ctx context.Context, meta *model.SessionMeta, forceRefresh bool,
) (*model.FrameSequence, error) {
	id := meta.Identity
	if !forceRefresh {
		lookup, err := s.store.Get(ctx, id, ProcessingVersion)
		if err != nil {
			return nil, err
		}
		if lookup.State == cache.Hit {
			s.l.Info("serving cached frame sequence",
				log.String("session", id.Key()),
				log.Time("writtenAt", lookup.WrittenAt))
			return lookup.Sequence, nil
		}
	}

	seq, err := s.compute(ctx, meta)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, id, ProcessingVersion, seq); err != nil {
		return nil, err
	}
	return seq, nil
}

//nolint:whitespace // false positive
func (s *FrameService) compute(
	ctx context.Context, meta *model.SessionMeta,
) (*model.FrameSequence, error) {
	id := meta.Identity
	drivers, err := s.client.ListDrivers(ctx, id)
	if err != nil {
		return nil, err
	}
	s.l.Info("computing frame sequence",
		log.String("session", id.Key()), log.Int("drivers", len(drivers)))

	result, err := s.dispatcher.Run(ctx, id, drivers)
	if err != nil {
		return nil, err
	}

	axis, resampled := s.unifier.Unify(result.Series)

	// weather and track status are best effort, the artifact stays usable
	// without them
	var snapshots []model.WeatherSnapshot
	if ws, err := s.client.FetchWeather(ctx, id); err != nil {
		s.l.Warn("weather data not available", log.ErrorField(err))
	} else {
		snapshots = s.aligner.Align(ws, axis)
	}
	var statuses []model.TrackStatus
	if statuses, err = s.client.FetchTrackStatus(ctx, id); err != nil {
		s.l.Warn("track status not available", log.ErrorField(err))
		statuses = nil
	}

	night := s.aligner.NightFlags(meta, axis)

	if err := ctx.Err(); err != nil {
		// caller cancelled, discard partial state
		return nil, err
	}
	return s.assembler.Assemble(axis, resampled, snapshots, night, statuses)
}

// Invalidate drops all cached artifacts of a session regardless of
// processing version.
func (s *FrameService) Invalidate(ctx context.Context, id model.SessionIdentity) error {
	return s.store.Invalidate(ctx, id)
}
