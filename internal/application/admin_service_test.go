package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	repo "github.com/oksasatya/blood-donation-service/internal/domain/repository"
	"github.com/oksasatya/blood-donation-service/pkg/apperror"
)

func (f *fixture) admin(index repo.DonorIndex) *AdminService {
	s := f.store
	return NewAdminService(memTx{s}, memUsers{s}, memDonors{s}, memApps{s}, memNotifications{s}, index, f.logger)
}

// seedAlice gives alice a donor registration, an application and a notification.
func seedAlice(t *testing.T, f *fixture) int64 {
	t.Helper()
	ctx := context.Background()
	d, err := f.donors(PolicySingle, nil).Register(ctx, alice.ID, validDonor())
	require.NoError(t, err)
	_, err = f.applications().Apply(ctx, alice.ID, event.ID, "donor")
	require.NoError(t, err)
	_, err = f.notifications(nil, nil).NotifySpecificDonor(ctx, admin.UserID, alice.ID, "O+")
	require.NoError(t, err)
	return d.ID
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades in one transaction", func(t *testing.T) {
		f := newFixture(t)
		donorID := seedAlice(t, f)
		idx := new(mockIndex)
		idx.On("Remove", mock.Anything, donorID).Return(nil).Once()

		require.NoError(t, f.admin(idx).DeleteUser(ctx, admin, alice.ID))

		s := f.store.snapshot()
		assert.NotContains(t, s.users, alice.ID)
		assert.Empty(t, s.donors)
		assert.Empty(t, s.apps)
		assert.Empty(t, s.notifications)
		assert.Contains(t, s.users, admin.UserID)
		idx.AssertExpectations(t)
	})

	t.Run("failure rolls everything back", func(t *testing.T) {
		f := newFixture(t)
		seedAlice(t, f)
		before := f.store.snapshot()
		f.store.failDeleteApps = apperror.Persistence(errors.New("lock timeout"))
		idx := new(mockIndex)

		err := f.admin(idx).DeleteUser(ctx, admin, alice.ID)
		require.Error(t, err)
		assert.Equal(t, apperror.KindPersistence, apperror.KindOf(err))

		after := f.store.snapshot()
		assert.Equal(t, before.users, after.users)
		assert.Equal(t, before.donors, after.donors)
		assert.Equal(t, before.apps, after.apps)
		assert.Equal(t, before.notifications, after.notifications)
		idx.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
	})

	t.Run("index cleanup failure does not fail the delete", func(t *testing.T) {
		f := newFixture(t)
		seedAlice(t, f)
		idx := new(mockIndex)
		idx.On("Remove", mock.Anything, mock.Anything).Return(errors.New("es down"))

		require.NoError(t, f.admin(idx).DeleteUser(ctx, admin, alice.ID))
		assert.NotContains(t, f.store.snapshot().users, alice.ID)
	})

	t.Run("self", func(t *testing.T) {
		f := newFixture(t)
		err := f.admin(nil).DeleteUser(ctx, admin, admin.UserID)
		assert.Equal(t, apperror.KindSelfTarget, apperror.KindOf(err))
		assert.Contains(t, f.store.snapshot().users, admin.UserID)
	})

	t.Run("non admin", func(t *testing.T) {
		f := newFixture(t)
		err := f.admin(nil).DeleteUser(ctx, entity.Actor{UserID: 20, Role: entity.RoleUser}, alice.ID)
		assert.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))
		assert.Contains(t, f.store.snapshot().users, alice.ID)
	})

	t.Run("missing user", func(t *testing.T) {
		err := newFixture(t).admin(nil).DeleteUser(ctx, admin, 404)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}
