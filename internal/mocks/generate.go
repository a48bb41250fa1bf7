// Package mocks provides gomock implementations of the core repository interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	users := mocks.NewMockUserRepository(ctrl)
//	users.EXPECT().GetByID(gomock.Any(), "u1").Return(user, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/tramatch/tramatch-web/internal/core UserRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cargo_repository_mock.go github.com/tramatch/tramatch-web/internal/core CargoRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=truck_repository_mock.go github.com/tramatch/tramatch-web/internal/core TruckRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=notification_repository_mock.go github.com/tramatch/tramatch-web/internal/core NotificationRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=announcement_repository_mock.go github.com/tramatch/tramatch-web/internal/core AnnouncementRepository

// Stats is only consumed by the admin service.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=stats_repository_mock.go github.com/tramatch/tramatch-web/internal/core StatsRepository
