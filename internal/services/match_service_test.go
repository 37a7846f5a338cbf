package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/adilzhan-s/lostfound/internal/apperrors"
	"github.com/adilzhan-s/lostfound/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFindCandidates_KeepsOnlyJudgeMatches(t *testing.T) {
	items := newFakeItemStore()
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	lost := items.put(&models.Item{
		ItemID: "L000000001", UserID: owner, Type: models.ItemTypeLost,
		Name: "blue umbrella", Status: models.StatusUnmatched,
	})
	match := items.put(&models.Item{
		ItemID: "F000000001", UserID: other, Type: models.ItemTypeFound,
		Name: "umbrella, navy", Status: models.StatusUnmatched,
	})
	items.put(&models.Item{
		ItemID: "F000000002", UserID: other, Type: models.ItemTypeFound,
		Name: "red scarf", Status: models.StatusUnmatched,
	})

	judge := &fakeJudge{fn: func(_ context.Context, _, foundDesc string) (bool, error) {
		return strings.Contains(foundDesc, "umbrella"), nil
	}}
	svc := NewMatchService(items, judge, time.Second)

	got, err := svc.FindCandidates(context.Background(), lost.ItemID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, match.ItemID, got[0].ItemID)
}

func TestFindCandidates_PoolExcludesOwnAndLinkedItems(t *testing.T) {
	items := newFakeItemStore()
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	lost := items.put(&models.Item{
		ItemID: "L000000001", UserID: owner, Type: models.ItemTypeLost,
		Name: "umbrella", Status: models.StatusUnmatched,
	})
	// Same owner: never a candidate.
	items.put(&models.Item{
		ItemID: "F000000001", UserID: owner, Type: models.ItemTypeFound,
		Name: "umbrella", Status: models.StatusUnmatched,
	})
	// Already in a case: never a candidate.
	items.put(&models.Item{
		ItemID: "F000000002", UserID: other, Type: models.ItemTypeFound,
		Name: "umbrella", Status: models.StatusContacting,
	})

	judge := &fakeJudge{fn: func(context.Context, string, string) (bool, error) { return true, nil }}
	svc := NewMatchService(items, judge, time.Second)

	got, err := svc.FindCandidates(context.Background(), lost.ItemID)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, judge.calls)
}

func TestFindCandidates_LostDescriptionAlwaysFirst(t *testing.T) {
	items := newFakeItemStore()
	finder := primitive.NewObjectID()
	owner := primitive.NewObjectID()

	found := items.put(&models.Item{
		ItemID: "F000000001", UserID: finder, Type: models.ItemTypeFound,
		Name: "found thermos", Status: models.StatusUnmatched,
	})
	items.put(&models.Item{
		ItemID: "L000000001", UserID: owner, Type: models.ItemTypeLost,
		Name: "lost thermos", Status: models.StatusUnmatched,
	})

	judge := &fakeJudge{fn: func(context.Context, string, string) (bool, error) { return true, nil }}
	svc := NewMatchService(items, judge, time.Second)

	// Scanning from the found side still presents (lost, found) to the judge.
	_, err := svc.FindCandidates(context.Background(), found.ItemID)
	require.NoError(t, err)
	require.Len(t, judge.calls, 1)
	assert.Contains(t, judge.calls[0][0], "lost thermos")
	assert.Contains(t, judge.calls[0][1], "found thermos")
}

func TestFindCandidates_JudgeFailuresAreSkipped(t *testing.T) {
	items := newFakeItemStore()
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	lost := items.put(&models.Item{
		ItemID: "L000000001", UserID: owner, Type: models.ItemTypeLost,
		Name: "wallet", Status: models.StatusUnmatched,
	})
	items.put(&models.Item{
		ItemID: "F000000001", UserID: other, Type: models.ItemTypeFound,
		Name: "wallet", Status: models.StatusUnmatched,
	})
	keep := items.put(&models.Item{
		ItemID: "F000000002", UserID: other, Type: models.ItemTypeFound,
		Name: "wallet too", Status: models.StatusUnmatched,
	})

	judge := &fakeJudge{fn: func(_ context.Context, _, foundDesc string) (bool, error) {
		if strings.Contains(foundDesc, "wallet too") {
			return true, nil
		}
		return false, errors.New("model unavailable")
	}}
	svc := NewMatchService(items, judge, time.Second)

	got, err := svc.FindCandidates(context.Background(), lost.ItemID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, keep.ItemID, got[0].ItemID)
}

func TestFindCandidates_SlowJudgeTimesOutPerCall(t *testing.T) {
	items := newFakeItemStore()
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	lost := items.put(&models.Item{
		ItemID: "L000000001", UserID: owner, Type: models.ItemTypeLost,
		Name: "wallet", Status: models.StatusUnmatched,
	})
	items.put(&models.Item{
		ItemID: "F000000001", UserID: other, Type: models.ItemTypeFound,
		Name: "wallet", Status: models.StatusUnmatched,
	})

	judge := &fakeJudge{fn: func(ctx context.Context, _, _ string) (bool, error) {
		<-ctx.Done()
		return false, ctx.Err()
	}}
	svc := NewMatchService(items, judge, 20*time.Millisecond)

	got, err := svc.FindCandidates(context.Background(), lost.ItemID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindCandidates_EmptyPoolReturnsEmptyList(t *testing.T) {
	items := newFakeItemStore()
	lost := items.put(&models.Item{
		ItemID: "L000000001", UserID: primitive.NewObjectID(), Type: models.ItemTypeLost,
		Name: "wallet", Status: models.StatusUnmatched,
	})
	judge := &fakeJudge{fn: func(context.Context, string, string) (bool, error) { return true, nil }}
	svc := NewMatchService(items, judge, time.Second)

	got, err := svc.FindCandidates(context.Background(), lost.ItemID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindCandidates_UnknownSourceItem(t *testing.T) {
	svc := NewMatchService(newFakeItemStore(), &fakeJudge{fn: func(context.Context, string, string) (bool, error) {
		return false, nil
	}}, time.Second)

	_, err := svc.FindCandidates(context.Background(), "L999999999")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
