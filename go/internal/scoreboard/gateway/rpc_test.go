package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func newRPCServer(t *testing.T, provider StateProvider) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	require.NoError(t, NewRPCHandler(provider).RegisterRoutes(mux))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRPC_GetMatchState(t *testing.T) {
	srv := newRPCServer(t, &fakeProvider{snap: demoSnapshot(), now: testNow})
	client := connect.NewClient[emptypb.Empty, structpb.Struct](srv.Client(), srv.URL+GetMatchStateProcedure)

	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	require.NoError(t, err)
	assert.Equal(t, "7", resp.Header().Get("Scoreboard-Revision"))

	fields := resp.Msg.AsMap()
	assert.Equal(t, "demo", fields["origin"])
	assert.Equal(t, float64(7), fields["revision"])

	match, ok := fields["match"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "T20 International Match", match["matchTitle"])
	batting := match["battingTeam"].(map[string]interface{})
	assert.Equal(t, "India", batting["name"])
	assert.Equal(t, float64(178), batting["score"])
	assert.Equal(t, float64(166), match["target"])
}

func TestRPC_GetMatchStateNotLoaded(t *testing.T) {
	srv := newRPCServer(t, &fakeProvider{now: testNow})
	client := connect.NewClient[emptypb.Empty, structpb.Struct](srv.Client(), srv.URL+GetMatchStateProcedure)

	_, err := client.CallUnary(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(err))
}

func TestRPC_GetClock(t *testing.T) {
	srv := newRPCServer(t, &fakeProvider{now: testNow})
	client := connect.NewClient[emptypb.Empty, timestamppb.Timestamp](srv.Client(), srv.URL+GetClockProcedure)

	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.AsTime().Equal(testNow))
}

func TestScoreboardServiceDescriptor(t *testing.T) {
	svc, err := scoreboardService()
	require.NoError(t, err)
	assert.Equal(t, ScoreboardServiceName, string(svc.FullName()))

	method := svc.Methods().ByName("GetClock")
	require.NotNil(t, method)
	assert.Equal(t, "google.protobuf.Timestamp", string(method.Output().FullName()))

	// idempotent across calls
	again, err := scoreboardService()
	require.NoError(t, err)
	assert.Equal(t, svc, again)
}
