package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"eregister/internal/auth/models"
	"eregister/internal/auth/store"
)

type RoleResolutionSuite struct {
	suite.Suite
	users *store.InMemoryUserStore
	svc   *Service
}

func (s *RoleResolutionSuite) SetupTest() {
	s.users = store.NewInMemory()
	s.svc = New(s.users)
}

func TestRoleResolutionSuite(t *testing.T) {
	suite.Run(t, new(RoleResolutionSuite))
}

func (s *RoleResolutionSuite) TestResolveRole() {
	ctx := context.Background()

	s.Run("returns superuser for recorded admins", func() {
		s.Require().NoError(s.users.Save(ctx, models.User{
			UID:   "admin-1",
			Email: "admin@example.com",
			Role:  models.RoleSuperuser,
		}))

		role, err := s.svc.ResolveRole(ctx, "admin-1")
		s.Require().NoError(err)
		s.Equal("superuser", role)
	})

	s.Run("defaults unknown uids to citizen", func() {
		role, err := s.svc.ResolveRole(ctx, "never-seen")
		s.Require().NoError(err)
		s.Equal("citizen", role)
	})

	s.Run("defaults records without role to citizen", func() {
		s.Require().NoError(s.users.Save(ctx, models.User{UID: "u-2", Email: "u2@example.com"}))

		role, err := s.svc.ResolveRole(ctx, "u-2")
		s.Require().NoError(err)
		s.Equal("citizen", role)
	})
}

func (s *RoleResolutionSuite) TestWhoAmI() {
	ctx := context.Background()

	s.Run("carries token identity plus resolved role", func() {
		me, err := s.svc.WhoAmI(ctx, "u-3", "u3@example.com")
		s.Require().NoError(err)
		s.Equal(models.User{UID: "u-3", Email: "u3@example.com", Role: models.RoleCitizen}, me)
	})
}
