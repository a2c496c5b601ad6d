package application

import (
	"context"
	"errors"
	"time"

	"acrate-badge/badge/domain"
	"acrate-badge/metrics"
	rldomain "acrate-badge/middleware/ratelimit/domain"

	log "github.com/sirupsen/logrus"
)

// DefaultLimiterKey é a chave da janela fixa: um único contador para todas
// as chamadas ao site de perfis, independente do usuário consultado.
const DefaultLimiterKey rldomain.Key = "atcoder"

type ProfileFetcher interface {
	Fetch(ctx context.Context, h domain.Handle, c domain.Category) (domain.Document, error)
}

type RatingExtractor interface {
	Extract(doc domain.Document) (*domain.Rating, error)
}

// Service é o caso de uso do badge: limiter → fetch → extract → format.
//
// Nenhuma etapa é repetida em caso de erro; o erro tipado volta para o
// adapter HTTP decidir o status.
type Service struct {
	Limiter    rldomain.Admitter
	LimiterKey rldomain.Key
	Fetcher    ProfileFetcher
	Extractor  RatingExtractor

	Stats   rldomain.StatsStore
	Metrics *metrics.Metrics
	Logger  log.FieldLogger
	Now     func() time.Time
}

func (s Service) Badge(ctx context.Context, h domain.Handle, c domain.Category) (domain.Payload, error) {
	logger := s.logger().WithFields(log.Fields{"user_id": h.String(), "contest_type": c.String()})

	if err := s.admit(ctx, c, logger); err != nil {
		s.Metrics.ObserveBadge(c.String(), outcomeOf(err))
		return domain.Payload{}, err
	}

	start := s.now()
	doc, err := s.Fetcher.Fetch(ctx, h, c)
	s.Metrics.ObserveFetch(c.String(), err == nil, s.now().Sub(start))
	if err != nil {
		logger.WithError(err).Warn("profile fetch failed")
		s.Metrics.ObserveBadge(c.String(), metrics.OutcomeFetchError)
		return domain.Payload{}, err
	}

	rating, err := s.Extractor.Extract(doc)
	if err != nil {
		var ee *domain.ExtractionError
		if errors.As(err, &ee) {
			logger.WithError(err).WithField("kind", ee.Kind.String()).Error("upstream profile format drift")
		} else {
			logger.WithError(err).Error("rating extraction failed")
		}
		s.Metrics.ObserveBadge(c.String(), metrics.OutcomeExtractError)
		return domain.Payload{}, err
	}

	if rating == nil {
		s.Metrics.ObserveBadge(c.String(), metrics.OutcomeNoRating)
	} else {
		s.Metrics.ObserveBadge(c.String(), metrics.OutcomeOK)
	}
	return domain.Format(c, rating), nil
}

func (s Service) admit(ctx context.Context, c domain.Category, logger log.FieldLogger) error {
	if s.Limiter == nil {
		s.Metrics.ObserveDecision("error")
		logger.Error("rate limiter not configured")
		return &rldomain.LimiterError{Reason: "limiter not configured"}
	}
	key := s.LimiterKey
	if key == "" {
		key = DefaultLimiterKey
	}

	ok, err := s.Limiter.CheckAndRecord(ctx, key)
	if err != nil {
		s.Metrics.ObserveDecision("error")
		logger.WithError(err).Error("rate limiter unavailable")
		return rldomain.AsLimiterError("check and record", err)
	}

	if s.Stats != nil {
		_ = s.Stats.Record(ctx, rldomain.StatsEvent{
			Key:     key,
			Scope:   rldomain.ScopeUpstream,
			Allowed: ok,
			Path:    c.String(),
			At:      s.now(),
		})
	}

	if !ok {
		s.Metrics.ObserveDecision("rejected")
		logger.Info("upstream rate limit reached")
		return domain.ErrRejected
	}
	s.Metrics.ObserveDecision("admitted")
	return nil
}

func outcomeOf(err error) string {
	var le *rldomain.LimiterError
	switch {
	case errors.Is(err, domain.ErrRejected):
		return metrics.OutcomeRejected
	case errors.As(err, &le):
		return metrics.OutcomeLimiterError
	default:
		return metrics.OutcomeFetchError
	}
}

func (s Service) logger() log.FieldLogger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.StandardLogger()
}

func (s Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
