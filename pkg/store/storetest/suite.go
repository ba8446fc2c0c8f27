//nolint:all
package storetest

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/backit-onchain/oracle/pkg/logger"
	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/settlement"
	"github.com/backit-onchain/oracle/pkg/store"
)

// SettlementStoreSuite runs the same behaviour checks against every SettlementStore.
type SettlementStoreSuite struct {
	suite.Suite
	SetupHandler func() store.SettlementStore
	store        store.SettlementStore
	ctx          context.Context
}

func (s *SettlementStoreSuite) SetupTest() {
	logger.ConfigureTestLogging(s.T())
	s.ctx = context.Background()
	s.store = s.SetupHandler()
}

func (s *SettlementStoreSuite) TearDownTest() {
	s.NoError(s.store.Close(s.ctx))
}

func newSettlement(id string, callID uint64, deployHash string) store.Settlement {
	return store.Settlement{
		ID:         id,
		CallID:     callID,
		Outcome:    true,
		FinalPrice: "250000000",
		PriceUSD:   "2.5",
		PriceFresh: true,
		Timestamp:  1700000000000,
		Signature:  "ab",
		DeployHash: deployHash,
	}
}

func (s *SettlementStoreSuite) TestRoundtrip() {
	expected := newSettlement("s1", 7, "aa01")
	s.Require().NoError(s.store.AddSettlement(s.ctx, expected))

	loaded, err := s.store.GetSettlement(s.ctx, "s1")
	s.Require().NoError(err)
	s.Equal(expected.CallID, loaded.CallID)
	s.Equal(expected.Outcome, loaded.Outcome)
	s.Equal(expected.FinalPrice, loaded.FinalPrice)
	s.Equal(expected.PriceUSD, loaded.PriceUSD)
	s.True(loaded.PriceFresh)
	s.Equal(expected.Timestamp, loaded.Timestamp)
	s.Equal(expected.Signature, loaded.Signature)
	s.Equal(expected.DeployHash, loaded.DeployHash)
	s.Equal(settlement.StatusPending, loaded.Status)
	s.False(loaded.CreatedAt.IsZero())

	byDeploy, err := s.store.GetSettlementByDeploy(s.ctx, "aa01")
	s.Require().NoError(err)
	s.Equal("s1", byDeploy.ID)
}

func (s *SettlementStoreSuite) TestGeneratesID() {
	s.Require().NoError(s.store.AddSettlement(s.ctx, newSettlement("", 1, "aa02")))
	loaded, err := s.store.GetSettlementByDeploy(s.ctx, "aa02")
	s.Require().NoError(err)
	s.Len(loaded.ID, 36)
}

func (s *SettlementStoreSuite) TestNotFound() {
	_, err := s.store.GetSettlement(s.ctx, "missing")
	s.Equal(oracleerrors.NotFound, oracleerrors.CodeOf(err))
	_, err = s.store.GetSettlementByCall(s.ctx, 99)
	s.Equal(oracleerrors.NotFound, oracleerrors.CodeOf(err))
	_, err = s.store.GetSettlementByDeploy(s.ctx, "ff")
	s.Equal(oracleerrors.NotFound, oracleerrors.CodeOf(err))
	err = s.store.UpdateSettlementStatus(s.ctx, "ff", settlement.StatusSuccess, "")
	s.Equal(oracleerrors.NotFound, oracleerrors.CodeOf(err))
}

func (s *SettlementStoreSuite) TestDuplicateDeployRejected() {
	s.Require().NoError(s.store.AddSettlement(s.ctx, newSettlement("s1", 1, "aa03")))
	s.Error(s.store.AddSettlement(s.ctx, newSettlement("s2", 2, "aa03")))
}

func (s *SettlementStoreSuite) TestLatestByCall() {
	s.Require().NoError(s.store.AddSettlement(s.ctx, newSettlement("s1", 7, "aa04")))
	s.Require().NoError(s.store.AddSettlement(s.ctx, newSettlement("s2", 7, "aa05")))
	s.Require().NoError(s.store.AddSettlement(s.ctx, newSettlement("s3", 8, "aa06")))

	latest, err := s.store.GetSettlementByCall(s.ctx, 7)
	s.Require().NoError(err)
	s.Equal("s2", latest.ID)
}

func (s *SettlementStoreSuite) TestUpdateStatusAndList() {
	s.Require().NoError(s.store.AddSettlement(s.ctx, newSettlement("s1", 1, "aa07")))
	s.Require().NoError(s.store.AddSettlement(s.ctx, newSettlement("s2", 2, "aa08")))
	s.Require().NoError(s.store.AddSettlement(s.ctx, newSettlement("s3", 3, "aa09")))

	s.Require().NoError(s.store.UpdateSettlementStatus(s.ctx, "aa08", settlement.StatusFailed, "User error: 2"))
	failed, err := s.store.GetSettlement(s.ctx, "s2")
	s.Require().NoError(err)
	s.Equal(settlement.StatusFailed, failed.Status)
	s.Equal("User error: 2", failed.ErrorMessage)

	all, err := s.store.ListSettlements(s.ctx, store.SettlementQuery{})
	s.Require().NoError(err)
	s.Equal([]string{"s1", "s2", "s3"}, ids(all))

	reversed, err := s.store.ListSettlements(s.ctx, store.SettlementQuery{SortReverse: true, Limit: 2})
	s.Require().NoError(err)
	s.Equal([]string{"s3", "s2"}, ids(reversed))

	offset, err := s.store.ListSettlements(s.ctx, store.SettlementQuery{Offset: 1})
	s.Require().NoError(err)
	s.Equal([]string{"s2", "s3"}, ids(offset))

	pending, err := s.store.ListSettlements(s.ctx, store.SettlementQuery{Status: settlement.StatusPending})
	s.Require().NoError(err)
	s.Equal([]string{"s1", "s3"}, ids(pending))

	none, err := s.store.ListSettlements(s.ctx, store.SettlementQuery{Offset: 10})
	s.Require().NoError(err)
	s.Empty(none)
}

func ids(settlements []store.Settlement) []string {
	result := make([]string, 0, len(settlements))
	for _, s := range settlements {
		result = append(result, s.ID)
	}
	return result
}
