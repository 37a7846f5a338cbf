package services

import (
	"context"
	"sync"
	"time"

	"github.com/adilzhan-s/lostfound/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// judgeConcurrency bounds the parallel fan-out of judge calls in one scan.
const judgeConcurrency = 8

// MatchService produces a shortlist of likely counterparts for an item. It
// never links anything; linking is an explicit follow-up through the case
// service.
type MatchService struct {
	items   ItemStore
	judge   MatchJudge
	timeout time.Duration
}

// NewMatchService creates a new instance of MatchService. timeout caps each
// individual judge call.
func NewMatchService(items ItemStore, judge MatchJudge, timeout time.Duration) *MatchService {
	return &MatchService{
		items:   items,
		judge:   judge,
		timeout: timeout,
	}
}

// FindCandidates scans every unmatched item of the opposite kind owned by
// someone else and keeps those the judge marks as the same item. Judge
// failures and timeouts degrade to "no match" for that candidate only; a
// single bad call never aborts the scan.
func (s *MatchService) FindCandidates(ctx context.Context, sourceItemID string) ([]models.Item, error) {
	source, err := s.items.GetItem(ctx, sourceItemID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.items.ListByTypeAndStatus(ctx,
		models.CounterpartType(source.Type), models.StatusUnmatched, source.UserID)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	matches := make([]models.Item, 0)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(judgeConcurrency)
	for _, candidate := range candidates {
		candidate := candidate
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()

			// The judge always sees the lost description first.
			lostDesc, foundDesc := source.Describe(), candidate.Describe()
			if source.Type == models.ItemTypeFound {
				lostDesc, foundDesc = foundDesc, lostDesc
			}

			ok, err := s.judge.Judge(callCtx, lostDesc, foundDesc)
			if err != nil {
				logrus.WithError(err).WithField("candidateID", candidate.ItemID).
					Warn("Judge call failed, candidate skipped")
				return nil
			}
			if ok {
				mu.Lock()
				matches = append(matches, candidate)
				mu.Unlock()
			}
			return nil
		})
	}
	// Judge goroutines swallow their own failures, so Wait never errors.
	_ = g.Wait()

	logrus.WithFields(logrus.Fields{
		"sourceItemID": sourceItemID,
		"candidates":   len(candidates),
		"matches":      len(matches),
	}).Info("Matching scan completed")

	return matches, nil
}
