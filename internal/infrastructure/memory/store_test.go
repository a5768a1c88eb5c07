package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"county-revenue/internal/domain"
	"county-revenue/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedIDs(prefix string) *records.TimestampIDs {
	ids := records.NewTimestampIDs(prefix)
	ids.Now = func() time.Time { return time.UnixMilli(1698312600000) }
	return ids
}

func TestStore_CreateAssignsFreshIDs(t *testing.T) {
	s := NewStore(fixedIDs("dept-"), SeedDepartments()...)
	ctx := context.Background()

	a, err := s.Create(ctx, domain.Department{Name: "Water", Target: 100})
	require.NoError(t, err)
	b, err := s.Create(ctx, domain.Department{Name: "Roads", Target: 100})
	require.NoError(t, err)

	assert.Equal(t, "dept-1698312600000", a.ID)
	assert.Equal(t, "dept-1698312600001", b.ID)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 7)
	assert.Equal(t, b.ID, all[6].ID)
}

func TestStore_ListReturnsCopy(t *testing.T) {
	s := NewStore(fixedIDs("PAY-"), SeedPayments()...)
	all, _ := s.List(context.Background())
	all[0].Citizen = "tampered"

	again, _ := s.List(context.Background())
	assert.Equal(t, "John Doe", again[0].Citizen)
}

func TestStore_UpdateAndDelete(t *testing.T) {
	s := NewStore(fixedIDs("LIC-"), SeedLicenses()...)
	ctx := context.Background()

	l, err := s.Update(ctx, "LIC-2023-002", func(l domain.License) domain.License {
		l.Status = domain.LicenseApproved
		l.ID = "ignored"
		return l
	})
	require.NoError(t, err)
	assert.Equal(t, "LIC-2023-002", l.ID)
	assert.Equal(t, domain.LicenseApproved, l.Status)

	_, err = s.Update(ctx, "LIC-404", func(l domain.License) domain.License { return l })
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "LIC-2023-002"))
	assert.ErrorIs(t, s.Delete(ctx, "LIC-2023-002"), domain.ErrNotFound)

	all, _ := s.List(ctx)
	assert.Len(t, all, 5)
}

func TestStore_CancelledContext(t *testing.T) {
	s := NewStore(fixedIDs("CIT-"), SeedCitizens()...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Create(ctx, domain.Citizen{Name: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_ConcurrentCreatesStayUnique(t *testing.T) {
	s := NewStore(records.NewTimestampIDs("NTF-"), SeedNotifications(time.Now())...)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Create(context.Background(), domain.Notification{Title: "t"})
		}()
	}
	wg.Wait()

	all, _ := s.List(context.Background())
	seen := map[string]bool{}
	for _, n := range all {
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
	assert.Len(t, all, 57)
}

func TestNewSeededStores(t *testing.T) {
	stores := NewSeededStores(time.Now())
	ctx := context.Background()

	payments, _ := stores.Payments.List(ctx)
	citizens, _ := stores.Citizens.List(ctx)
	departments, _ := stores.Departments.List(ctx)
	licenses, _ := stores.Licenses.List(ctx)
	notes, _ := stores.Notifications.List(ctx)
	businesses, _ := stores.Businesses.List(ctx)

	assert.Len(t, payments, 10)
	assert.Len(t, citizens, 7)
	assert.Len(t, departments, 5)
	assert.Len(t, licenses, 6)
	assert.Len(t, notes, 7)
	assert.Len(t, businesses, 8)
}

func TestStore_Insert(t *testing.T) {
	s := NewStore[domain.Department](fixedIDs("dept-"))
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, domain.Department{ID: "dept-9", Name: "Water"}))
	assert.ErrorIs(t, s.Insert(ctx, domain.Department{ID: "dept-9", Name: "Roads"}), domain.ErrConflict)
	assert.ErrorIs(t, s.Insert(ctx, domain.Department{Name: "Roads"}), domain.ErrInvalidInput)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Water", all[0].Name)
}

func TestNewStore_SkipsRepeatedSeedIDs(t *testing.T) {
	seed := SeedDepartments()
	s := NewStore(fixedIDs("dept-"), append(seed, seed[0])...)
	all, _ := s.List(context.Background())
	assert.Len(t, all, len(seed))
}
