package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
	"github.com/tramatch/tramatch-web/internal/mocks"
)

func TestAnnouncementService(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAnnouncementRepository(ctrl)
	svc := NewAnnouncementService(AnnouncementServiceOptions{Repo: repo})
	ctx := context.Background()

	in := model.AnnouncementInput{Title: "年末年始の営業について", Content: "12/29〜1/3は休業します。", IsPublished: true}
	repo.EXPECT().Create(ctx, in).Return(&model.Announcement{ID: "a-1", Title: in.Title}, nil)
	a, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "a-1", a.ID)

	_, err = svc.Create(ctx, model.AnnouncementInput{Title: "only title"})
	assert.True(t, apperrors.IsValidation(err))

	repo.EXPECT().List(ctx, true, landingAnnouncements).Return([]*model.Announcement{{ID: "a-1"}}, nil)
	published, err := svc.Published(ctx)
	require.NoError(t, err)
	assert.Len(t, published, 1)

	repo.EXPECT().List(ctx, false, 0).Return(nil, nil)
	_, err = svc.All(ctx)
	require.NoError(t, err)

	repo.EXPECT().SetPublished(ctx, "a-1", false).Return(nil)
	require.NoError(t, svc.SetPublished(ctx, "a-1", false))

	repo.EXPECT().Delete(ctx, "a-1").Return(apperrors.NotFound("announcement not found"))
	assert.True(t, apperrors.IsNotFound(svc.Delete(ctx, "a-1")))
}
