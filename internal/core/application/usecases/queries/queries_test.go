package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
)

func TestNewGetAssignmentByOrderQuery(t *testing.T) {
	t.Run("valid query", func(t *testing.T) {
		orderID := kernel.NewUUID()

		query, err := queries.NewGetAssignmentByOrderQuery(orderID)

		require.NoError(t, err)
		assert.NoError(t, query.Validate())
		assert.True(t, query.OrderID().IsEqual(orderID))
	})

	t.Run("zero order id", func(t *testing.T) {
		_, err := queries.NewGetAssignmentByOrderQuery(kernel.UUID{})
		assert.Error(t, err)
	})

	t.Run("zero value query fails validation", func(t *testing.T) {
		var query queries.GetAssignmentByOrderQuery
		assert.ErrorIs(t, query.Validate(), queries.ErrGetAssignmentByOrderQueryIsNotConstructed)
	})
}

func TestNewListCourierAssignmentsQuery(t *testing.T) {
	t.Run("valid query", func(t *testing.T) {
		courierID := kernel.NewUUID()

		query, err := queries.NewListCourierAssignmentsQuery(courierID, true)

		require.NoError(t, err)
		assert.NoError(t, query.Validate())
		assert.True(t, query.CourierID().IsEqual(courierID))
		assert.True(t, query.ActiveOnly())
	})

	t.Run("zero courier id", func(t *testing.T) {
		_, err := queries.NewListCourierAssignmentsQuery(kernel.UUID{}, false)
		assert.Error(t, err)
	})

	t.Run("zero value query fails validation", func(t *testing.T) {
		var query queries.ListCourierAssignmentsQuery
		assert.ErrorIs(t, query.Validate(), queries.ErrListCourierAssignmentsQueryIsNotConstructed)
	})
}
