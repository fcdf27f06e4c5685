package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/coophost-go/internal/model"
	"github.com/mcoot/coophost-go/internal/storage/memory"
	"github.com/mcoot/coophost-go/internal/testutil"
)

const owner = model.PlayerID(100)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

// Load tests

func (s *ServiceSuite) TestLoadSeedsOwnerAsAdmin() {
	s.Require().NoError(s.service.Load(s.ctx, owner))

	s.True(s.service.IsAdmin(owner))
	s.True(s.service.IsOwner(owner))
}

func (s *ServiceSuite) TestLoadPersistsSeededRecord() {
	s.Require().NoError(s.service.Load(s.ctx, owner))

	rec, err := s.storage.GetAuthorization(s.ctx)
	s.Require().NoError(err)
	s.Equal(owner, rec.OwnerID)
	s.Equal(model.RoleAdmin, rec.Roles[owner])
}

func (s *ServiceSuite) TestLoadAdoptsExistingRecordVerbatim() {
	existing := model.NewAuthorizationRecord(owner)
	existing.Roles[5] = model.RoleAdmin
	s.Require().NoError(s.storage.SaveAuthorization(s.ctx, existing))

	// A different owner argument must not displace the stored owner
	s.Require().NoError(s.service.Load(s.ctx, 999))

	s.True(s.service.IsOwner(owner))
	s.False(s.service.IsOwner(999))
	s.True(s.service.IsAdmin(5))
}

// Mutation tests

func (s *ServiceSuite) TestAssignAdmin() {
	s.Require().NoError(s.service.Load(s.ctx, owner))

	s.Require().NoError(s.service.AssignAdmin(s.ctx, 7))
	s.True(s.service.IsAdmin(7))
}

func (s *ServiceSuite) TestAssignAdminPersistsSynchronously() {
	s.Require().NoError(s.service.Load(s.ctx, owner))
	s.Require().NoError(s.service.AssignAdmin(s.ctx, 7))

	rec, err := s.storage.GetAuthorization(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, rec.Roles[7])
}

func (s *ServiceSuite) TestUnassignAdmin() {
	s.Require().NoError(s.service.Load(s.ctx, owner))
	s.Require().NoError(s.service.AssignAdmin(s.ctx, 7))

	s.Require().NoError(s.service.UnassignAdmin(s.ctx, 7))
	s.False(s.service.IsAdmin(7))
}

func (s *ServiceSuite) TestUnassignOwnerIsNoOp() {
	s.Require().NoError(s.service.Load(s.ctx, owner))

	s.Require().NoError(s.service.UnassignAdmin(s.ctx, owner))
	s.True(s.service.IsAdmin(owner))

	rec, err := s.storage.GetAuthorization(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, rec.Roles[owner])
}

func (s *ServiceSuite) TestListAdminsAfterAssignUnassignSequence() {
	s.Require().NoError(s.service.Load(s.ctx, owner))

	s.Require().NoError(s.service.AssignAdmin(s.ctx, 1))
	s.Require().NoError(s.service.AssignAdmin(s.ctx, 2))
	s.Require().NoError(s.service.UnassignAdmin(s.ctx, 1))

	s.ElementsMatch([]model.PlayerID{owner, 2}, s.service.ListAdmins())
}

func (s *ServiceSuite) TestIsAdminFalseWithoutEntry() {
	s.Require().NoError(s.service.Load(s.ctx, owner))
	s.False(s.service.IsAdmin(42))
}

// Not-loaded guards

func (s *ServiceSuite) TestMutationsBeforeLoadFail() {
	s.ErrorIs(s.service.AssignAdmin(s.ctx, 7), model.ErrAuthorizationNotLoaded)
	s.ErrorIs(s.service.UnassignAdmin(s.ctx, 7), model.ErrAuthorizationNotLoaded)
}

func (s *ServiceSuite) TestQueriesBeforeLoadAreClean() {
	s.False(s.service.IsAdmin(owner))
	s.False(s.service.IsOwner(owner))
	s.Nil(s.service.ListAdmins())
}
