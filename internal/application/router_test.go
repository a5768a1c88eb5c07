package application

import (
	"context"
	"testing"

	"county-revenue/internal/domain"
	"county-revenue/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubFactories(r *Registry) map[domain.ViewID]ViewFactory {
	out := map[domain.ViewID]ViewFactory{}
	for _, v := range r.Views() {
		id := v.ID
		out[id] = func() ViewHandler {
			return ViewHandlerFunc(func(context.Context, domain.User, filter.Query) (any, error) {
				return string(id), nil
			})
		}
	}
	return out
}

func TestViewRouter_ResolvesAllowedView(t *testing.T) {
	r := MustLoadRegistry()
	metrics := new(metricsMock)
	metrics.On("ViewResolved", "payments", false).Once()
	router, err := NewViewRouter(r, stubFactories(r), metrics)
	require.NoError(t, err)

	handle, err := router.Resolve("payments", domain.RoleCitizen)
	require.NoError(t, err)
	assert.Equal(t, domain.ViewPayments, handle.ID)
	assert.False(t, handle.Redirected)
	assert.Equal(t, []string{"make_payment"}, handle.Actions)

	model, err := handle.Handler.Load(context.Background(), citizen, filter.Query{})
	require.NoError(t, err)
	assert.Equal(t, "payments", model)
	metrics.AssertExpectations(t)
}

func TestViewRouter_FallsBackToDashboard(t *testing.T) {
	r := MustLoadRegistry()
	router, err := NewViewRouter(r, stubFactories(r), nil)
	require.NoError(t, err)

	for _, requested := range []string{"departments", "no-such-view", ""} {
		handle, err := router.Resolve(requested, domain.RoleCitizen)
		require.NoError(t, err)
		assert.Equal(t, domain.ViewDashboard, handle.ID)
		assert.True(t, handle.Redirected)
		assert.Equal(t, requested, handle.Requested)
	}
}

func TestViewRouter_ResultAlwaysPermitted(t *testing.T) {
	r := MustLoadRegistry()
	router, err := NewViewRouter(r, stubFactories(r), nil)
	require.NoError(t, err)

	for _, role := range domain.Roles {
		for _, v := range r.Views() {
			handle, err := router.Resolve(string(v.ID), role)
			require.NoError(t, err)
			assert.True(t, r.CanView(role, handle.ID))
			assert.Equal(t, !v.Allows(role), handle.Redirected)
		}
	}
}

func TestViewRouter_UnknownRole(t *testing.T) {
	r := MustLoadRegistry()
	router, err := NewViewRouter(r, stubFactories(r), nil)
	require.NoError(t, err)

	_, err = router.Resolve("dashboard", "mayor")
	assert.ErrorIs(t, err, domain.ErrUnknownRole)
}

func TestNewViewRouter_RequiresCompleteHandlerSet(t *testing.T) {
	r := MustLoadRegistry()

	missing := stubFactories(r)
	delete(missing, domain.ViewGIS)
	_, err := NewViewRouter(r, missing, nil)
	assert.ErrorIs(t, err, ErrRegistryConfig)

	extra := stubFactories(r)
	extra["treasury"] = extra[domain.ViewDashboard]
	_, err = NewViewRouter(r, extra, nil)
	assert.ErrorIs(t, err, ErrRegistryConfig)
}

func TestServices_ViewFactoriesCoverRegistry(t *testing.T) {
	r := MustLoadRegistry()
	_, err := NewViewRouter(r, (&Services{}).ViewFactories(), nil)
	assert.NoError(t, err)
}
