package dig_container

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"github.com/trezcool/ratiba/core/dashboard"
	"github.com/trezcool/ratiba/core/schedule"
	"github.com/trezcool/ratiba/core/teacher"
	"github.com/trezcool/ratiba/core/user"
	inmemdb "github.com/trezcool/ratiba/storage/database/inmem"
	"github.com/trezcool/ratiba/storage/records"
)

func Test_provideRepositories(t *testing.T) {
	c := dig.New()
	require.NoError(t, c.Provide(func() records.Backend { return inmemdb.NewDB() }))
	require.NoError(t, c.Provide(newStore))
	require.NoError(t, c.Provide(validator.New))
	provideRepositories(c)
	require.NoError(t, c.Provide(teacher.NewService))
	require.NoError(t, c.Provide(newDashboardService))

	err := c.Invoke(func(
		users user.Repository,
		teachers teacher.Repository,
		sessions schedule.Repository,
		teacherSvc *teacher.Service,
		dashboardSvc *dashboard.Service,
	) {
		ctx := context.Background()

		_, err := teachers.Create(ctx, teacher.Teacher{Name: "Sarah Wilson", Email: "sarah.wilson@college.edu"})
		require.NoError(t, err)

		// every repository shares the one store
		all, err := teacherSvc.QueryAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		got, err := users.QueryAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
		classes, err := sessions.QueryAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, classes)
		assert.NotNil(t, dashboardSvc)
	})
	require.NoError(t, err)
}
