//go:build unit || !integration

package eventhandler_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/make-software/casper-go-sdk/sse"
	"github.com/make-software/casper-go-sdk/types"
	"github.com/make-software/casper-go-sdk/types/key"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/blake2b"

	"github.com/backit-onchain/oracle/pkg/eventhandler"
	"github.com/backit-onchain/oracle/pkg/eventhandler/mock_eventhandler"
	"github.com/backit-onchain/oracle/pkg/logger"
)

type ctxKey string

// In order for 'go test' to run this suite, we need to create
// a normal test function and pass our suite to suite.Run
func TestChainedHandlers(t *testing.T) {
	suite.Run(t, new(deployEventHandlerSuite))
}

type deployEventHandlerSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	chainedHandler  *eventhandler.ChainedDeployEventHandler
	handler1        *mock_eventhandler.MockDeployEventHandler
	handler2        *mock_eventhandler.MockDeployEventHandler
	contextProvider *mock_eventhandler.MockContextProvider
	context         context.Context
	event           eventhandler.DeployEvent
}

// Before each test
func (suite *deployEventHandlerSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.handler1 = mock_eventhandler.NewMockDeployEventHandler(suite.ctrl)
	suite.handler2 = mock_eventhandler.NewMockDeployEventHandler(suite.ctrl)
	suite.contextProvider = mock_eventhandler.NewMockContextProvider(suite.ctrl)
	suite.chainedHandler = eventhandler.NewChainedDeployEventHandler(suite.contextProvider)
	suite.context = context.WithValue(context.Background(), ctxKey("test"), "test")
	suite.event = eventhandler.DeployEvent{
		DeployProcessedPayload: sse.DeployProcessedPayload{
			DeployHash: blake2b.Sum256([]byte("deploy")),
			BlockHash:  blake2b.Sum256([]byte("block")),
			Account:    "01aa",
			ExecutionResult: types.ExecutionResultStatus{
				Success: &types.ExecutionResultStatusData{Cost: 100},
			},
		},
	}
	logger.ConfigureTestLogging(suite.T())
}

func (suite *deployEventHandlerSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *deployEventHandlerSuite) TestHandleDeployEvent() {
	suite.chainedHandler.AddHandlers(suite.handler1, suite.handler2)
	ctx := context.Background()

	suite.contextProvider.EXPECT().GetContext(ctx, suite.event.DeployHash.String()).Return(suite.context)

	// assert both handlers are called with the context provider's context and event
	gomock.InOrder(
		suite.handler1.EXPECT().HandleDeployEvent(suite.context, suite.event).Return(nil),
		suite.handler2.EXPECT().HandleDeployEvent(suite.context, suite.event).Return(nil),
	)

	require.NoError(suite.T(), suite.chainedHandler.HandleDeployEvent(ctx, suite.event))
}

func (suite *deployEventHandlerSuite) TestHandleDeployEventLazilyAdded() {
	suite.chainedHandler.AddHandlers(suite.handler1)
	suite.chainedHandler.AddHandlers(suite.handler2)
	ctx := context.Background()

	suite.contextProvider.EXPECT().GetContext(ctx, suite.event.DeployHash.String()).Return(suite.context)

	gomock.InOrder(
		suite.handler1.EXPECT().HandleDeployEvent(suite.context, suite.event).Return(nil),
		suite.handler2.EXPECT().HandleDeployEvent(suite.context, suite.event).Return(nil),
	)

	require.NoError(suite.T(), suite.chainedHandler.HandleDeployEvent(ctx, suite.event))
}

func (suite *deployEventHandlerSuite) TestHandleDeployEventError() {
	suite.chainedHandler.AddHandlers(suite.handler1)
	suite.chainedHandler.AddHandlers(suite.handler2)
	ctx := context.Background()
	mockError := fmt.Errorf("i am an error")

	suite.contextProvider.EXPECT().GetContext(ctx, suite.event.DeployHash.String()).Return(suite.context)

	// mock first handler to return an error, and don't expect the second handler to be called
	suite.handler1.EXPECT().HandleDeployEvent(suite.context, suite.event).Return(mockError)

	require.Equal(suite.T(), mockError, suite.chainedHandler.HandleDeployEvent(ctx, suite.event))
}

func (suite *deployEventHandlerSuite) TestHandleDeployEventEmptyHandlers() {
	require.Error(suite.T(), suite.chainedHandler.HandleDeployEvent(context.Background(), suite.event))
}

func (suite *deployEventHandlerSuite) TestHandlerFunc() {
	var seen key.Hash
	suite.chainedHandler.AddHandlers(eventhandler.DeployEventHandlerFunc(
		func(ctx context.Context, event eventhandler.DeployEvent) error {
			seen = event.DeployHash
			return nil
		}))
	suite.contextProvider.EXPECT().GetContext(gomock.Any(), gomock.Any()).Return(suite.context)

	require.NoError(suite.T(), suite.chainedHandler.HandleDeployEvent(context.Background(), suite.event))
	require.Equal(suite.T(), suite.event.DeployHash, seen)
}
