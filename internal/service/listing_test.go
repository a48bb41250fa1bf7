package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tramatch/tramatch-web/internal/core"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
	"github.com/tramatch/tramatch-web/internal/mocks"
)

type listingFixture struct {
	cargo         *mocks.MockCargoRepository
	trucks        *mocks.MockTruckRepository
	notifications *mocks.MockNotificationRepository
	svc           *ListingService
}

func newListingService(t *testing.T) listingFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := listingFixture{
		cargo:         mocks.NewMockCargoRepository(ctrl),
		trucks:        mocks.NewMockTruckRepository(ctrl),
		notifications: mocks.NewMockNotificationRepository(ctrl),
	}
	f.svc = NewListingService(ListingServiceOptions{
		Cargo:         f.cargo,
		Trucks:        f.trucks,
		Notifications: f.notifications,
	})
	return f
}

func intPtr(i int) *int { return &i }

func validCargo() model.CargoInput {
	return model.CargoInput{
		Title:         "精密機器 東京→大阪",
		DepartureArea: "東京都",
		ArrivalArea:   "大阪府",
		DepartureDate: "2026-11-02",
		ArrivalDate:   "2026-11-03",
		WeightKg:      intPtr(1200),
		PriceYen:      intPtr(85000),
	}
}

func TestActor_CanEdit(t *testing.T) {
	tests := []struct {
		name  string
		actor Actor
		owner string
		want  bool
	}{
		{"owner", Actor{UserID: "u-1"}, "u-1", true},
		{"other user", Actor{UserID: "u-2"}, "u-1", false},
		{"admin", Actor{UserID: "u-9", IsAdmin: true}, "u-1", true},
		{"anonymous", Actor{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.actor.CanEdit(tt.owner))
		})
	}
}

func TestListingService_CreateCargo(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newListingService(t)
		in := validCargo()
		f.cargo.EXPECT().Create(ctx, "u-1", in).Return(&model.CargoListing{ID: "c-1", UserID: "u-1"}, nil)

		c, err := f.svc.CreateCargo(ctx, Actor{UserID: "u-1"}, in)
		require.NoError(t, err)
		assert.Equal(t, "c-1", c.ID)
	})

	t.Run("arrival before departure", func(t *testing.T) {
		f := newListingService(t)
		in := validCargo()
		in.ArrivalDate = "2026-11-01"

		_, err := f.svc.CreateCargo(ctx, Actor{UserID: "u-1"}, in)
		var fe model.FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe, "arrival_date")
	})
}

func TestListingService_UpdateCargo(t *testing.T) {
	ctx := context.Background()
	owned := &model.CargoListing{ID: "c-1", UserID: "u-1"}

	t.Run("owner", func(t *testing.T) {
		f := newListingService(t)
		in := validCargo()
		f.cargo.EXPECT().GetByID(ctx, "c-1").Return(owned, nil)
		f.cargo.EXPECT().Update(ctx, "c-1", in).Return(owned, nil)

		_, err := f.svc.UpdateCargo(ctx, Actor{UserID: "u-1"}, "c-1", in)
		require.NoError(t, err)
	})

	t.Run("someone else", func(t *testing.T) {
		f := newListingService(t)
		f.cargo.EXPECT().GetByID(ctx, "c-1").Return(owned, nil)

		_, err := f.svc.UpdateCargo(ctx, Actor{UserID: "u-2"}, "c-1", validCargo())
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("missing", func(t *testing.T) {
		f := newListingService(t)
		f.cargo.EXPECT().GetByID(ctx, "c-x").Return(nil, apperrors.NotFound("cargo not found"))

		_, err := f.svc.UpdateCargo(ctx, Actor{UserID: "u-1"}, "c-x", validCargo())
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestListingService_ListCargo(t *testing.T) {
	ctx := context.Background()
	filter := model.ListingFilter{FromArea: "東京", Status: model.StatusActive, Limit: 20}

	f := newListingService(t)
	f.cargo.EXPECT().List(ctx, filter).Return([]*model.CargoListing{{ID: "c-1"}, {ID: "c-2"}}, nil)
	f.cargo.EXPECT().Count(ctx, filter).Return(42, nil)

	page, err := f.svc.ListCargo(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 42, page.Total)

	f2 := newListingService(t)
	f2.cargo.EXPECT().List(ctx, filter).Return(nil, errors.New("db down"))
	_, err = f2.svc.ListCargo(ctx, filter)
	assert.ErrorContains(t, err, "list cargo")
}

func TestListingService_SetCargoStatus(t *testing.T) {
	ctx := context.Background()
	owned := &model.CargoListing{ID: "c-1", UserID: "u-1", Title: "精密機器", CompanyName: "佐藤運送"}

	t.Run("free text status", func(t *testing.T) {
		f := newListingService(t)
		f.cargo.EXPECT().GetByID(ctx, "c-1").Return(owned, nil)
		f.cargo.EXPECT().UpdateStatus(ctx, core.UpdateStatusParams{ID: "c-1", Status: "商談中"}).Return(nil)

		require.NoError(t, f.svc.SetCargoStatus(ctx, Actor{UserID: "u-1"}, "c-1", " 商談中 ", ""))
	})

	t.Run("completed with partner notifies", func(t *testing.T) {
		f := newListingService(t)
		partner := "u-2"
		f.cargo.EXPECT().GetByID(ctx, "c-1").Return(owned, nil)
		f.cargo.EXPECT().
			UpdateStatus(ctx, core.UpdateStatusParams{ID: "c-1", Status: model.StatusCompleted, PartnerID: &partner}).
			Return(nil)
		f.notifications.EXPECT().
			Create(ctx, "u-2", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, p core.CreateNotificationParams) (*model.Notification, error) {
				assert.Equal(t, model.NotificationListing, p.Type)
				assert.Contains(t, p.Message, "佐藤運送")
				return &model.Notification{}, nil
			})

		require.NoError(t, f.svc.SetCargoStatus(ctx, Actor{UserID: "u-1"}, "c-1", model.StatusCompleted, "u-2"))
	})

	t.Run("empty status", func(t *testing.T) {
		f := newListingService(t)
		err := f.svc.SetCargoStatus(ctx, Actor{UserID: "u-1"}, "c-1", "  ", "")
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("self as partner", func(t *testing.T) {
		f := newListingService(t)
		f.cargo.EXPECT().GetByID(ctx, "c-1").Return(owned, nil)
		err := f.svc.SetCargoStatus(ctx, Actor{UserID: "u-1"}, "c-1", model.StatusCompleted, "u-1")
		assert.Equal(t, "partner_id", apperrors.GetField(err))
	})

	t.Run("admin may change any listing", func(t *testing.T) {
		f := newListingService(t)
		f.cargo.EXPECT().GetByID(ctx, "c-1").Return(owned, nil)
		f.cargo.EXPECT().UpdateStatus(ctx, gomock.Any()).Return(nil)

		require.NoError(t, f.svc.SetCargoStatus(ctx, Actor{UserID: "admin", IsAdmin: true}, "c-1", model.StatusCancelled, ""))
	})
}

func TestListingService_Trucks(t *testing.T) {
	ctx := context.Background()
	in := model.TruckInput{Title: "4t空車", CurrentArea: "愛知県", VehicleType: "4tウイング", AvailableDate: "2026-11-05"}

	t.Run("create", func(t *testing.T) {
		f := newListingService(t)
		f.trucks.EXPECT().Create(ctx, "u-1", in).Return(&model.TruckListing{ID: "t-1"}, nil)

		tr, err := f.svc.CreateTruck(ctx, Actor{UserID: "u-1"}, in)
		require.NoError(t, err)
		assert.Equal(t, "t-1", tr.ID)
	})

	t.Run("create invalid", func(t *testing.T) {
		f := newListingService(t)
		_, err := f.svc.CreateTruck(ctx, Actor{UserID: "u-1"}, model.TruckInput{})
		var fe model.FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe, "vehicle_type")
	})

	t.Run("update forbidden", func(t *testing.T) {
		f := newListingService(t)
		f.trucks.EXPECT().GetByID(ctx, "t-1").Return(&model.TruckListing{ID: "t-1", UserID: "u-1"}, nil)

		_, err := f.svc.UpdateTruck(ctx, Actor{UserID: "u-2"}, "t-1", in)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("status", func(t *testing.T) {
		f := newListingService(t)
		f.trucks.EXPECT().GetByID(ctx, "t-1").Return(&model.TruckListing{ID: "t-1", UserID: "u-1"}, nil)
		f.trucks.EXPECT().UpdateStatus(ctx, core.UpdateStatusParams{ID: "t-1", Status: "成約済み"}).Return(nil)

		require.NoError(t, f.svc.SetTruckStatus(ctx, Actor{UserID: "u-1"}, "t-1", "成約済み"))
	})

	t.Run("list", func(t *testing.T) {
		f := newListingService(t)
		filter := model.ListingFilter{UserID: "u-1"}
		f.trucks.EXPECT().List(ctx, filter).Return([]*model.TruckListing{{ID: "t-1"}}, nil)
		f.trucks.EXPECT().Count(ctx, filter).Return(1, nil)

		page, err := f.svc.ListTrucks(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
	})
}
