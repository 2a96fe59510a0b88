package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-val-metrics/internal/keylock"
	"github.com/pable/go-val-metrics/internal/model"
)

// DefaultWorkers is the number of players updated in parallel per match.
const DefaultWorkers = 4

// Store is the profile storage the ledger reads from. Writes go through the
// CommitFunc given to ApplyMatch and ReverseMatch.
// GetPlayerProfile returns nil, nil when the player has no profile.
type Store interface {
	GetPlayerProfile(ctx context.Context, puuid string) (*model.PlayerProfile, error)
}

// Warning is a non-fatal problem met while reversing a match.
type Warning struct {
	PUUID  string
	Name   string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (%s): %s", w.Name, w.PUUID, w.Reason)
}

// Ledger applies and reverses match records against stored profiles.
// Matches sharing a player are serialized from read to commit; the players of
// one match are computed in parallel.
type Ledger struct {
	store   Store
	log     logrus.FieldLogger
	workers int
	now     func() time.Time
	locks   keylock.Map
}

type Option func(*Ledger)

// WithWorkers bounds how many players of one match are updated at once.
func WithWorkers(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.workers = n
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Ledger) { l.log = log }
}

// WithClock overrides the LastUpdated timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:   store,
		log:     logrus.StandardLogger(),
		workers: DefaultWorkers,
		now:     time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// CommitFunc persists every updated profile of one match in a single
// transaction. It runs while the players' locks are held.
type CommitFunc func(ctx context.Context, profiles []*model.PlayerProfile) error

// ApplyMatch folds every record into its player's profile and hands the
// updated profiles to commit. Nothing is written if any player fails.
func (l *Ledger) ApplyMatch(ctx context.Context, records []model.MatchStatRecord, seasonID string, commit CommitFunc) error {
	unlock := l.lockPlayers(records)
	defer unlock()

	profiles := make([]*model.PlayerProfile, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, rec := range records {
		g.Go(func() error {
			p, err := l.applyPlayer(gctx, rec, seasonID)
			profiles[i] = p
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return commit(ctx, profiles)
}

// ReverseMatch removes every record from its player's profile and hands the
// updated profiles to commit. Players without a stored profile are skipped and
// reported as warnings. Nothing is written if any player fails.
func (l *Ledger) ReverseMatch(ctx context.Context, records []model.MatchStatRecord, seasonID string, commit CommitFunc) ([]Warning, error) {
	unlock := l.lockPlayers(records)
	defer unlock()

	profiles := make([]*model.PlayerProfile, len(records))
	skipped := make([]*Warning, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, rec := range records {
		g.Go(func() error {
			p, w, err := l.reversePlayer(gctx, rec, seasonID)
			profiles[i], skipped[i] = p, w
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		warnings []Warning
		updated  = make([]*model.PlayerProfile, 0, len(profiles))
	)
	for i, p := range profiles {
		if skipped[i] != nil {
			warnings = append(warnings, *skipped[i])
			continue
		}
		updated = append(updated, p)
	}
	if err := commit(ctx, updated); err != nil {
		return nil, err
	}
	return warnings, nil
}

// lockPlayers takes every player's lock in puuid order so two matches sharing
// players cannot deadlock. The returned func releases them.
func (l *Ledger) lockPlayers(records []model.MatchStatRecord) func() {
	ids := make([]string, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if !seen[r.PUUID] {
			seen[r.PUUID] = true
			ids = append(ids, r.PUUID)
		}
	}
	sort.Strings(ids)

	unlocks := make([]func(), 0, len(ids))
	for _, id := range ids {
		unlocks = append(unlocks, l.locks.Lock(id))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

func (l *Ledger) applyPlayer(ctx context.Context, rec model.MatchStatRecord, seasonID string) (*model.PlayerProfile, error) {
	log := l.log.WithFields(logrus.Fields{"op": "apply", "puuid": rec.PUUID, "season": seasonID})

	p, err := l.store.GetPlayerProfile(ctx, rec.PUUID)
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", rec.PUUID, err)
	}
	if p == nil {
		log.Debug("creating profile")
	}
	updated := ApplyToProfile(p, rec, seasonID, l.now().UTC())
	log.WithField("games", updated.OverallStats.Games.Total()).Debug("profile planned")
	return updated, nil
}

func (l *Ledger) reversePlayer(ctx context.Context, rec model.MatchStatRecord, seasonID string) (*model.PlayerProfile, *Warning, error) {
	log := l.log.WithFields(logrus.Fields{"op": "reverse", "puuid": rec.PUUID, "season": seasonID})

	p, err := l.store.GetPlayerProfile(ctx, rec.PUUID)
	if err != nil {
		return nil, nil, fmt.Errorf("get profile %s: %w", rec.PUUID, err)
	}
	if p == nil {
		log.Warn("no stored profile, skipping")
		return nil, &Warning{PUUID: rec.PUUID, Name: rec.Name, Reason: "no stored profile"}, nil
	}
	updated, err := ReverseFromProfile(p, rec, seasonID, l.now().UTC())
	if err != nil {
		return nil, nil, fmt.Errorf("reverse profile %s: %w", rec.PUUID, err)
	}
	log.WithField("games", updated.OverallStats.Games.Total()).Debug("profile planned")
	return updated, nil, nil
}
