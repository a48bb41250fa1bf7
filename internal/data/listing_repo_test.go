package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tramatch/tramatch-web/internal/core"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
	"github.com/tramatch/tramatch-web/internal/testutil"
)

func TestCargoRepo_CreateUpdateGet(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		owner := testutil.InsertUser(t, db, "nittsu", false)
		repo := NewCargoRepo(db)

		c, err := repo.Create(ctx, owner, testutil.NewCargoInput().Build())
		require.NoError(t, err)
		assert.Equal(t, model.StatusActive, c.Status)
		assert.Equal(t, "nittsu", c.CompanyName)
		require.NotNil(t, c.DepartureDate)
		assert.Equal(t, "2025-04-01", c.DepartureDate.Format("2006-01-02"))
		require.NotNil(t, c.WeightKg)
		assert.Equal(t, 8000, *c.WeightKg)

		in := testutil.NewCargoInput().WithTitle("冷凍食品").WithDates("", "").Build()
		in.PriceYen = nil
		updated, err := repo.Update(ctx, c.ID, in)
		require.NoError(t, err)
		assert.Equal(t, "冷凍食品", updated.Title)
		assert.Nil(t, updated.DepartureDate)
		assert.Nil(t, updated.PriceYen)

		_, err = repo.Update(ctx, uuid.NewString(), in)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestCargoRepo_ListFilters(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		a := testutil.InsertUser(t, db, "kanto_unso", false)
		b := testutil.InsertUser(t, db, "kyushu_unso", false)
		repo := NewCargoRepo(db)

		_, err := repo.Create(ctx, a, testutil.NewCargoInput().WithRoute("東京都", "大阪府").Build())
		require.NoError(t, err)
		_, err = repo.Create(ctx, a, testutil.NewCargoInput().WithTitle("100%_混載").WithRoute("神奈川県", "福岡県").Build())
		require.NoError(t, err)
		other, err := repo.Create(ctx, b, testutil.NewCargoInput().WithRoute("福岡県", "東京都").Build())
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(ctx, core.UpdateStatusParams{ID: other.ID, Status: "商談中"}))

		tests := []struct {
			name   string
			filter model.ListingFilter
			want   int
		}{
			{"all", model.ListingFilter{}, 3},
			{"from area", model.ListingFilter{FromArea: "東京"}, 1},
			{"to area", model.ListingFilter{ToArea: "福岡"}, 1},
			{"owner", model.ListingFilter{UserID: a}, 2},
			{"free text status", model.ListingFilter{Status: "商談中"}, 1},
			{"keyword escapes like", model.ListingFilter{Keyword: "100%_"}, 1},
			{"keyword matches company", model.ListingFilter{Keyword: "KYUSHU"}, 1},
			{"no match", model.ListingFilter{Keyword: "存在しない"}, 0},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.List(ctx, tt.filter)
				require.NoError(t, err)
				assert.Len(t, got, tt.want)

				n, err := repo.Count(ctx, tt.filter)
				require.NoError(t, err)
				assert.Equal(t, tt.want, n)
			})
		}

		page, err := repo.List(ctx, model.ListingFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, page, 1)
	})
}

func TestCargoRepo_CompletedBetween(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		owner := testutil.InsertUser(t, db, "fukuyama", false)
		clock := NewManualClock(time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC))
		repo := NewCargoRepoWithClock(db, clock)

		march, err := repo.Create(ctx, owner, testutil.NewCargoInput().Build())
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(ctx, core.UpdateStatusParams{ID: march.ID, Status: model.StatusCompleted}))

		clock.Advance(31 * 24 * time.Hour)
		april, err := repo.Create(ctx, owner, testutil.NewCargoInput().Build())
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(ctx, core.UpdateStatusParams{ID: april.ID, Status: model.StatusCompleted}))

		from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		got, err := repo.CompletedBetween(ctx, owner, from, from.AddDate(0, 1, 0))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, march.ID, got[0].ID)
	})
}

func TestTruckRepo_Lifecycle(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		owner := testutil.InsertUser(t, db, "tonami", false)
		repo := NewTruckRepo(db)

		tr, err := repo.Create(ctx, owner, testutil.NewTruckInput().Build())
		require.NoError(t, err)
		assert.Equal(t, "tonami", tr.CompanyName)
		require.NotNil(t, tr.AvailableDate)

		updated, err := repo.Update(ctx, tr.ID, testutil.NewTruckInput().WithAreas("静岡県", "").Build())
		require.NoError(t, err)
		assert.Equal(t, "静岡県", updated.CurrentArea)
		assert.Empty(t, updated.DestinationArea)

		require.NoError(t, repo.UpdateStatus(ctx, core.UpdateStatusParams{ID: tr.ID, Status: model.StatusCancelled}))

		active, err := repo.Count(ctx, model.ListingFilter{Status: model.StatusActive})
		require.NoError(t, err)
		assert.Zero(t, active)

		list, err := repo.List(ctx, model.ListingFilter{FromArea: "静岡"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, model.StatusCancelled, list[0].Status)

		err = repo.UpdateStatus(ctx, core.UpdateStatusParams{ID: "bogus", Status: "x"})
		assert.True(t, apperrors.IsNotFound(err))
	})
}
