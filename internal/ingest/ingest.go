// Package ingest adds matches to and removes them from the store, keeping
// player profiles in step with the stored match records.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pable/go-val-metrics/internal/aggregator"
	"github.com/pable/go-val-metrics/internal/keylock"
	"github.com/pable/go-val-metrics/internal/ledger"
	"github.com/pable/go-val-metrics/internal/model"
)

// Store is the persistence the service needs: profile reads for the ledger plus
// match records. AddMatch and RemoveMatch write the match change and every
// profile in one transaction.
type Store interface {
	ledger.Store
	MatchExists(ctx context.Context, matchID string) (bool, error)
	// GetMatchRecord returns model.ErrMatchNotFound when the match is absent.
	GetMatchRecord(ctx context.Context, matchID string) (*model.StoredMatch, error)
	AddMatch(ctx context.Context, m *model.StoredMatch, profiles []*model.PlayerProfile) error
	RemoveMatch(ctx context.Context, matchID string, profiles []*model.PlayerProfile) error
}

// Service runs the match lifecycle. Add and Remove for the same match id never
// overlap.
type Service struct {
	store   Store
	ledger  *ledger.Ledger
	log     logrus.FieldLogger
	now     func() time.Time
	matches keylock.Map
}

func NewService(store Store, l *ledger.Ledger, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: store, ledger: l, log: log, now: time.Now}
}

// AddResult describes a stored match.
type AddResult struct {
	OpID  string
	Match *model.StoredMatch
}

// RemoveResult describes a removed match and any players the ledger skipped.
type RemoveResult struct {
	OpID     string
	Match    *model.StoredMatch
	Warnings []ledger.Warning
}

// Preview aggregates raw without touching the store.
func Preview(raw *model.MatchTelemetry, team1Attacking bool) (*model.MatchResult, error) {
	return aggregator.Aggregate(raw, team1Attacking)
}

// Add aggregates raw, then stores the match under seasonID together with every
// player's updated profile. Either all of it is written or none of it.
// Returns model.ErrMatchExists if the match is already stored.
func (s *Service) Add(ctx context.Context, raw *model.MatchTelemetry, team1Attacking bool, seasonID string) (*AddResult, error) {
	if seasonID == "" {
		return nil, &model.ValidationError{Field: "season", Reason: "empty"}
	}
	res, err := aggregator.Aggregate(raw, team1Attacking)
	if err != nil {
		return nil, err
	}

	opID := uuid.NewString()
	log := s.log.WithFields(logrus.Fields{"op": "add", "op_id": opID, "match_id": res.MatchID, "season": seasonID})

	unlock := s.matches.Lock(res.MatchID)
	defer unlock()

	exists, err := s.store.MatchExists(ctx, res.MatchID)
	if err != nil {
		return nil, fmt.Errorf("check match %s: %w", res.MatchID, err)
	}
	if exists {
		return nil, model.ErrMatchExists
	}

	stored := &model.StoredMatch{
		MatchID:   res.MatchID,
		SeasonID:  seasonID,
		CreatedAt: s.now().UTC(),
		Result:    *res,
	}
	err = s.ledger.ApplyMatch(ctx, res.Records(), seasonID, func(ctx context.Context, profiles []*model.PlayerProfile) error {
		return s.store.AddMatch(ctx, stored, profiles)
	})
	if errors.Is(err, model.ErrMatchExists) {
		return nil, err
	}
	if err != nil {
		log.WithError(err).Error("add failed, nothing stored")
		return nil, fmt.Errorf("store match %s: %w", res.MatchID, err)
	}
	t1, t2 := res.Score()
	log.WithFields(logrus.Fields{"players": len(res.Records()), "score": fmt.Sprintf("%d-%d", t1, t2)}).Info("match stored")
	return &AddResult{OpID: opID, Match: stored}, nil
}

// Remove reverses every player's record of a stored match against the season
// it was stored under and deletes the match in the same transaction. Returns
// model.ErrMatchNotFound if the match is not stored. On failure the match and
// every profile are left as they were, so the call can be retried.
func (s *Service) Remove(ctx context.Context, matchID string) (*RemoveResult, error) {
	opID := uuid.NewString()
	log := s.log.WithFields(logrus.Fields{"op": "remove", "op_id": opID, "match_id": matchID})

	unlock := s.matches.Lock(matchID)
	defer unlock()

	stored, err := s.store.GetMatchRecord(ctx, matchID)
	if errors.Is(err, model.ErrMatchNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("load match %s: %w", matchID, err)
	}
	log = log.WithField("season", stored.SeasonID)

	warnings, err := s.ledger.ReverseMatch(ctx, stored.Result.Records(), stored.SeasonID, func(ctx context.Context, profiles []*model.PlayerProfile) error {
		return s.store.RemoveMatch(ctx, matchID, profiles)
	})
	if errors.Is(err, model.ErrMatchNotFound) {
		return nil, err
	}
	if err != nil {
		log.WithError(err).Error("remove failed, match and profiles unchanged")
		return nil, fmt.Errorf("remove match %s: %w", matchID, err)
	}
	for _, w := range warnings {
		log.WithField("puuid", w.PUUID).Warn(w.Reason)
	}
	log.Info("match removed")
	return &RemoveResult{OpID: opID, Match: stored, Warnings: warnings}, nil
}
