package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"connectrpc.com/connect"
	"connectrpc.com/grpcreflect"
	"github.com/rs/zerolog/log"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	// ScoreboardServiceName is the fully-qualified name of the scoreboard RPC service
	ScoreboardServiceName = "scorecast.scoreboard.v1.ScoreboardService"

	GetMatchStateProcedure = "/" + ScoreboardServiceName + "/GetMatchState"
	GetClockProcedure      = "/" + ScoreboardServiceName + "/GetClock"
)

var (
	serviceOnce sync.Once
	serviceDesc protoreflect.ServiceDescriptor
	serviceErr  error
)

// scoreboardService builds and registers the service descriptor. The service only uses
// well-known message types, so it is described without generated code.
func scoreboardService() (protoreflect.ServiceDescriptor, error) {
	serviceOnce.Do(func() {
		if existing, err := protoregistry.GlobalFiles.FindDescriptorByName(ScoreboardServiceName); err == nil {
			serviceDesc = existing.(protoreflect.ServiceDescriptor)
			return
		}

		fdp := &descriptorpb.FileDescriptorProto{
			Name:    proto.String("scorecast/scoreboard/v1/scoreboard.proto"),
			Package: proto.String("scorecast.scoreboard.v1"),
			Syntax:  proto.String("proto3"),
			Dependency: []string{
				"google/protobuf/empty.proto",
				"google/protobuf/struct.proto",
				"google/protobuf/timestamp.proto",
			},
			Service: []*descriptorpb.ServiceDescriptorProto{{
				Name: proto.String("ScoreboardService"),
				Method: []*descriptorpb.MethodDescriptorProto{
					{
						Name:       proto.String("GetMatchState"),
						InputType:  proto.String(".google.protobuf.Empty"),
						OutputType: proto.String(".google.protobuf.Struct"),
					},
					{
						Name:       proto.String("GetClock"),
						InputType:  proto.String(".google.protobuf.Empty"),
						OutputType: proto.String(".google.protobuf.Timestamp"),
					},
				},
			}},
		}

		fd, err := protodesc.NewFile(fdp, protoregistry.GlobalFiles)
		if err != nil {
			serviceErr = fmt.Errorf("failed to build service descriptor: %w", err)
			return
		}
		if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
			serviceErr = fmt.Errorf("failed to register service descriptor: %w", err)
			return
		}
		serviceDesc = fd.Services().ByName("ScoreboardService")
	})
	return serviceDesc, serviceErr
}

// RPCHandler serves the scoreboard state over Connect, gRPC and gRPC-Web
type RPCHandler struct {
	stateProvider StateProvider
}

// NewRPCHandler creates a new RPC handler
func NewRPCHandler(provider StateProvider) *RPCHandler {
	return &RPCHandler{
		stateProvider: provider,
	}
}

// GetMatchState returns the current snapshot as a Struct with origin, revision and match
func (h *RPCHandler) GetMatchState(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	snap := h.stateProvider.MatchSnapshot()
	if snap == nil {
		return nil, connect.NewError(connect.CodeUnavailable, errors.New("match state not loaded"))
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to marshal snapshot: %w", err))
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to decode snapshot: %w", err))
	}
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to convert snapshot: %w", err))
	}

	resp := connect.NewResponse(msg)
	resp.Header().Set("Scoreboard-Revision", strconv.FormatUint(snap.Revision, 10))
	return resp, nil
}

// GetClock returns the display clock
func (h *RPCHandler) GetClock(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[timestamppb.Timestamp], error) {
	return connect.NewResponse(timestamppb.New(h.stateProvider.ClockTime())), nil
}

// RegisterRoutes registers the RPC procedures and gRPC reflection
func (h *RPCHandler) RegisterRoutes(mux *http.ServeMux) error {
	svc, err := scoreboardService()
	if err != nil {
		return err
	}
	methods := svc.Methods()

	mux.Handle(GetMatchStateProcedure, connect.NewUnaryHandler(
		GetMatchStateProcedure,
		h.GetMatchState,
		connect.WithSchema(methods.ByName("GetMatchState")),
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
	))
	mux.Handle(GetClockProcedure, connect.NewUnaryHandler(
		GetClockProcedure,
		h.GetClock,
		connect.WithSchema(methods.ByName("GetClock")),
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
	))

	// Setup reflection for grpcui/grpcurl
	reflector := grpcreflect.NewStaticReflector(ScoreboardServiceName)
	mux.Handle(grpcreflect.NewHandlerV1(reflector))
	mux.Handle(grpcreflect.NewHandlerV1Alpha(reflector))

	log.Debug().Str("service", ScoreboardServiceName).Msg("rpc routes registered")
	return nil
}
