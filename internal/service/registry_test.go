package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/numderiv/internal/shared/types"
)

type mockProvider struct {
	mock.Mock
	id string
}

func (m *mockProvider) Definition() types.Service {
	return types.Service{
		ID:          m.id,
		Name:        "Mock Service",
		Description: "A mock service for testing",
		Category:    types.CategoryMath,
		Tools: []types.Tool{
			{ID: m.id + ".slope", Name: "Slope", Description: "Estimate a first derivative"},
			{ID: m.id + ".curvature", Name: "Curvature", Description: "Estimate a second derivative"},
		},
	}
}

func (m *mockProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := m.Called(ctx, toolID, params)
	return args.Get(0).(*types.Result), args.Error(1)
}

func TestRegister(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(&mockProvider{id: "test"}))
	_, ok := r.Get("test")
	assert.True(t, ok)

	assert.Error(t, r.Register(&mockProvider{id: ""}))

	r.Unregister("test")
	_, ok = r.Get("test")
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockProvider{id: "b"}))
	require.NoError(t, r.Register(&mockProvider{id: "a"}))

	services := r.List(nil)
	require.Len(t, services, 2)
	assert.Equal(t, "a", services[0].ID)

	cat := types.CategoryMath
	assert.Len(t, r.List(&cat), 2)

	other := types.Category("storage")
	assert.Empty(t, r.List(&other))
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	p := &mockProvider{id: "math"}
	require.NoError(t, r.Register(p))

	params := map[string]interface{}{"x": 1.0}
	want := &types.Result{Success: true, Data: map[string]interface{}{"result": 2.0}}
	p.On("Execute", ctx, "math.slope", params).Return(want, nil).Once()

	got, err := r.Execute(ctx, "math.slope", params, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	p.AssertExpectations(t)

	t.Run("invalid tool id", func(t *testing.T) {
		res, err := r.Execute(ctx, "noseparator", nil, nil)
		assert.Error(t, err)
		assert.False(t, res.Success)
	})

	t.Run("unknown service", func(t *testing.T) {
		res, err := r.Execute(ctx, "missing.tool", nil, nil)
		assert.Error(t, err)
		require.NotNil(t, res.Error)
		assert.Contains(t, *res.Error, "missing")
	})
}

func TestDiscover(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockProvider{id: "math"}))

	tools := r.Discover("second derivative", 5)
	require.NotEmpty(t, tools)
	assert.Equal(t, "math.curvature", tools[0].ID)

	assert.Len(t, r.Discover("derivative", 1), 1)
	assert.Empty(t, r.Discover("", 5))
	assert.Empty(t, r.Discover("zebra", 5))
}

func TestStats(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockProvider{id: "math"}))

	stats := r.Stats()
	assert.Equal(t, 1, stats["total_services"])
	assert.Equal(t, 2, stats["total_tools"])
}
