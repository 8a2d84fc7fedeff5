package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawa80/utm-link-crafter-sub002/catalog"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := catalog.Default()

	plans, err := limits.NewService(ctx, c.Plans(), limits.NewRegistry(),
		func(context.Context, uuid.UUID) (string, error) { return "free", nil })
	require.NoError(t, err)
	assert.Equal(t, "free", plans.DefaultPlanID())

	agency, err := plans.Plan("agency")
	require.NoError(t, err)
	assert.Equal(t, limits.Unlimited, agency.Limits[limits.ResourceLinks])
	assert.True(t, agency.HasFeature(limits.FeatureCustomParams))

	pro, err := plans.Plan("pro")
	require.NoError(t, err)
	assert.False(t, pro.HasFeature(limits.FeatureCustomParams))

	flags, err := c.Flags()
	require.NoError(t, err)
	names := make([]string, 0, len(flags))
	for _, f := range flags {
		names = append(names, f.Name)
		assert.True(t, f.Enabled)
	}
	assert.ElementsMatch(t, []string{"wizard", "qr_codes", "custom_params"}, names)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plans:\n  - id: solo\n    default: true\n    limits: {links: 5}\nflags: []\n"), 0o600))

	c, err := catalog.Load(path)
	require.NoError(t, err)
	plans, err := c.Plans().Load(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, int64(5), plans[0].Limits[limits.ResourceLinks])

	flags, err := c.Flags()
	require.NoError(t, err)
	assert.Empty(t, flags)

	_, err = catalog.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
