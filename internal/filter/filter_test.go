package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"county-revenue/internal/domain"
)

func samplePayments() []domain.Payment {
	return []domain.Payment{
		{ID: "PAY-1029", Citizen: "John Doe", Amount: 150, Department: "Lands", Status: domain.PaymentCompleted},
		{ID: "PAY-1030", Citizen: "Jane Smith", Amount: 45.5, Department: "Markets", Status: domain.PaymentPending},
		{ID: "PAY-1031", Citizen: "Acme Corp", Amount: 1250, Department: "Trade", Status: domain.PaymentCompleted},
		{ID: "PAY-1032", Citizen: "Michael Johnson", Amount: 25, Department: "Transport", Status: domain.PaymentFailed},
		{ID: "PAY-1040", Citizen: "John Doe", Amount: 80, Department: "Markets", Status: domain.PaymentPending},
	}
}

func ids(payments []domain.Payment) []string {
	out := make([]string, 0, len(payments))
	for _, p := range payments {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter_EmptyQueryReturnsScopedCollectionInOrder(t *testing.T) {
	records := samplePayments()

	got := Filter(records, Payments, Unscoped(), Query{Categories: map[string]string{"status": All, "department": All}})
	assert.Equal(t, records, got)

	got = Filter(records, Payments, OwnedBy("John Doe"), Query{})
	assert.Equal(t, []string{"PAY-1029", "PAY-1040"}, ids(got))
}

func TestFilter_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	records := samplePayments()

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "by id", search: "pay-1031", want: []string{"PAY-1031"}},
		{name: "by citizen", search: "JOHN", want: []string{"PAY-1029", "PAY-1032", "PAY-1040"}},
		{name: "by department", search: "mark", want: []string{"PAY-1030", "PAY-1040"}},
		{name: "no match", search: "zzz", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(records, Payments, Unscoped(), Query{Search: tt.search})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_CategoricalPredicatesAreConjunctive(t *testing.T) {
	records := samplePayments()

	got := Filter(records, Payments, Unscoped(), Query{Categories: map[string]string{
		"status":     string(domain.PaymentPending),
		"department": "Markets",
	}})
	assert.Equal(t, []string{"PAY-1030", "PAY-1040"}, ids(got))

	got = Filter(records, Payments, Unscoped(), Query{Search: "jane", Categories: map[string]string{
		"status": string(domain.PaymentCompleted),
	}})
	assert.Empty(t, got)
}

func TestFilter_CitizenScopeHoldsForAnyInput(t *testing.T) {
	records := samplePayments()
	queries := []Query{
		{},
		{Search: "acme"},
		{Search: "pay"},
		{Categories: map[string]string{"status": string(domain.PaymentCompleted)}},
		{Categories: map[string]string{"department": "Trade"}},
	}
	for _, q := range queries {
		for _, p := range Filter(records, Payments, OwnedBy("John Doe"), q) {
			assert.Equal(t, "John Doe", p.Citizen)
		}
	}
}

func TestFilter_Idempotent(t *testing.T) {
	records := samplePayments()
	q := Query{Search: "o", Categories: map[string]string{"status": string(domain.PaymentPending)}}

	once := Filter(records, Payments, Unscoped(), q)
	twice := Filter(once, Payments, Unscoped(), q)
	assert.Equal(t, once, twice)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	records := samplePayments()
	before := append([]domain.Payment(nil), records...)

	_ = Filter(records, Payments, OwnedBy("Jane Smith"), Query{Search: "x"})
	assert.Equal(t, before, records)
}

func TestFilter_RestrictedScopeWithoutOwnerMatchesNothing(t *testing.T) {
	citizens := []domain.Citizen{{ID: "CIT-001", Name: "John Doe"}}
	assert.Empty(t, Filter(citizens, Citizens, OwnedBy("John Doe"), Query{}))
}

func TestSchema_Validate(t *testing.T) {
	require.NoError(t, Payments.Validate(Query{Categories: map[string]string{"status": All}}))

	err := Licenses.Validate(Query{Categories: map[string]string{"department": "Lands"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummarize_DistinguishesEmptyStates(t *testing.T) {
	records := samplePayments()

	res := Summarize(records, Payments, OwnedBy("Nobody"), Query{})
	assert.Equal(t, NoRecords, res.Empty)
	assert.Zero(t, res.ScopedTotal)

	res = Summarize(records, Payments, OwnedBy("John Doe"), Query{Search: "trade"})
	assert.Equal(t, NoMatches, res.Empty)
	assert.Equal(t, 2, res.ScopedTotal)

	res = Summarize(records, Payments, Unscoped(), Query{Search: "acme"})
	assert.Equal(t, NotEmpty, res.Empty)
	assert.Len(t, res.Items, 1)
}

func TestSummarize_OffersClearedQueryWhenSelectionsEmptyTheView(t *testing.T) {
	q := Query{Search: "doe", Categories: map[string]string{"status": "Failed"}}
	res := Summarize(samplePayments(), Payments, Unscoped(), q)
	assert.Equal(t, NoMatches, res.Empty)
	assert.True(t, res.ActiveFilters)
	require.NotNil(t, res.Clear)
	assert.Equal(t, Query{Search: "doe", Categories: map[string]string{"status": All}}, *res.Clear)

	res = Summarize(samplePayments(), Payments, Unscoped(), Query{Search: "zzz"})
	assert.Equal(t, NoMatches, res.Empty)
	assert.False(t, res.ActiveFilters)
	assert.Nil(t, res.Clear)
}

func TestQuery_ActiveAndCleared(t *testing.T) {
	q := Query{Search: "doe", Categories: map[string]string{"status": "Pending", "department": All}}
	assert.True(t, q.Active())

	cleared := q.Cleared()
	assert.False(t, cleared.Active())
	assert.Equal(t, "doe", cleared.Search)
	assert.Equal(t, map[string]string{"status": All, "department": All}, cleared.Categories)

	assert.False(t, Query{}.Active())
}

func TestSchema_CategoryNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"department", "status"}, Payments.CategoryNames())
}
