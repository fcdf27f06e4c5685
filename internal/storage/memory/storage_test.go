package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/coophost-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestGetAuthorizationNotFound() {
	_, err := s.storage.GetAuthorization(s.ctx)
	s.ErrorIs(err, model.ErrAuthorizationNotFound)
}

func (s *StorageSuite) TestSaveAndGetAuthorization() {
	rec := model.NewAuthorizationRecord(7)
	rec.Roles[12] = model.RoleAdmin

	s.Require().NoError(s.storage.SaveAuthorization(s.ctx, rec))

	got, err := s.storage.GetAuthorization(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.PlayerID(7), got.OwnerID)
	s.Equal(model.RoleAdmin, got.Roles[12])
}

func (s *StorageSuite) TestGetStatusNotFound() {
	_, err := s.storage.GetStatus(s.ctx)
	s.ErrorIs(err, model.ErrStatusNotFound)
}

func (s *StorageSuite) TestSaveStatusOverwrites() {
	first := &model.SessionStatus{PlayerCount: 1, IsOnline: true}
	second := &model.SessionStatus{PlayerCount: 3, IsOnline: true}

	s.Require().NoError(s.storage.SaveStatus(s.ctx, first))
	s.Require().NoError(s.storage.SaveStatus(s.ctx, second))

	got, err := s.storage.GetStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, got.PlayerCount)
}
