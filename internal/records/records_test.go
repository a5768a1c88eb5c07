package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"county-revenue/internal/domain"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func departments() []domain.Department {
	return []domain.Department{
		{ID: "DEP-01", Name: "Lands & Physical Planning", Target: 500000, Collected: 425000},
		{ID: "DEP-02", Name: "Trade & Enterprise", Target: 750000, Collected: 680000},
		{ID: "DEP-03", Name: "Transport & Infrastructure", Target: 300000, Collected: 150000},
	}
}

func TestCreate_AssignsUniqueIDAndAppends(t *testing.T) {
	ids := &TimestampIDs{Prefix: "dept-", Now: fixedClock(1000)}
	coll := []domain.Department{{ID: "dept-1000"}, {ID: "dept-1001"}}

	out, created := Create(coll, domain.Department{Name: "Education"}, ids)
	assert.Equal(t, "dept-1002", created.ID)
	require.Len(t, out, 3)
	assert.Equal(t, created, out[2])
	assert.Len(t, coll, 2)
}

func TestCreate_SameMillisecondStillUnique(t *testing.T) {
	ids := &TimestampIDs{Prefix: "LIC-", Now: fixedClock(5)}
	var coll []domain.License

	coll, first := Create(coll, domain.License{}, ids)
	coll, second := Create(coll, domain.License{}, ids)
	_, third := Create(nil, domain.License{}, ids)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, second.ID, third.ID)
	assert.Len(t, coll, 2)
}

func TestInsert_RejectsDuplicatesAndBlankIDs(t *testing.T) {
	coll := departments()

	_, err := Insert(coll, domain.Department{ID: "DEP-01"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = Insert(coll, domain.Department{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := Insert(coll, domain.Department{ID: "DEP-09"})
	require.NoError(t, err)
	assert.Len(t, out, 4)
}

func TestUpdate_PatchesMatchingRecord(t *testing.T) {
	coll := []domain.License{
		{ID: "LIC-2023-001", Status: domain.LicenseApproved},
		{ID: "LIC-2023-002", Status: domain.LicensePending},
	}

	out, updated, err := Update(coll, "LIC-2023-002", func(l domain.License) domain.License {
		l.Status = domain.LicenseRejected
		l.Feedback = "Missing documents"
		return l
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LicenseRejected, updated.Status)
	assert.Equal(t, updated, out[1])
	assert.Equal(t, domain.LicensePending, coll[1].Status)
}

func TestUpdate_MissingIDIsNotFound(t *testing.T) {
	coll := []domain.License{{ID: "LIC-1"}}

	out, _, err := Update(coll, "LIC-404", func(l domain.License) domain.License { return l })
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, coll, out)
}

func TestUpdate_PatchCannotChangeID(t *testing.T) {
	coll := []domain.License{{ID: "LIC-1"}}

	out, updated, err := Update(coll, "LIC-1", func(l domain.License) domain.License {
		l.ID = "other"
		return l
	})
	require.NoError(t, err)
	assert.Equal(t, "LIC-1", updated.ID)
	assert.Equal(t, "LIC-1", out[0].ID)
}

func TestDelete_RemovesExactlyTheTarget(t *testing.T) {
	coll := departments()

	out, err := Delete(coll, "DEP-02")
	require.NoError(t, err)
	assert.Equal(t, []domain.Department{coll[0], coll[2]}, out)

	_, err = Delete(coll, "DEP-99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmDelete_DeclinedLeavesCollectionUnchanged(t *testing.T) {
	coll := departments()
	var prompted string
	decline := ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		prompted = prompt
		return false, nil
	})

	out, err := ConfirmDelete(context.Background(), coll, "DEP-01", decline, "delete?")
	assert.ErrorIs(t, err, domain.ErrDeclined)
	assert.Equal(t, departments(), out)
	assert.Equal(t, "delete?", prompted)
}

func TestConfirmDelete_ConfirmedRemovesOnlyTarget(t *testing.T) {
	coll := departments()
	accept := ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

	out, err := ConfirmDelete(context.Background(), coll, "DEP-03", accept, "delete?")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.False(t, Contains(out, "DEP-03"))
	assert.True(t, Contains(out, "DEP-01"))
	assert.True(t, Contains(out, "DEP-02"))
}

func TestConfirmDelete_MissingIDSkipsPrompt(t *testing.T) {
	called := false
	confirmer := ConfirmFunc(func(context.Context, string) (bool, error) {
		called = true
		return true, nil
	})

	_, err := ConfirmDelete(context.Background(), departments(), "DEP-77", confirmer, "delete?")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, called)
}

func TestConfirmDelete_PropagatesConfirmerError(t *testing.T) {
	expected := errors.New("prompt closed")
	confirmer := ConfirmFunc(func(context.Context, string) (bool, error) { return false, expected })

	out, err := ConfirmDelete(context.Background(), departments(), "DEP-01", confirmer, "delete?")
	assert.ErrorIs(t, err, expected)
	assert.Len(t, out, 3)
}
