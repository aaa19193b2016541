package rpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/logging"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/metrics"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

// Server answers Decide calls. It holds no per-game state, so one Server
// serves any number of concurrent games.
type Server struct {
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewServer returns a Server. Both arguments may be nil.
func NewServer(m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{metrics: m, logger: logger}
}

// Decide implements DecisionServiceServer.
func (s *Server) Decide(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := DecodeRequest(in)
	if err != nil {
		s.metrics.ObserveInvalid()
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	d, err := policy.Decide(req.Mine, req.Theirs, req.Mood, req.TotalRounds, req.Round)
	if errors.Is(err, policy.ErrInvalidArgument) {
		s.metrics.ObserveInvalid()
		s.logger.Debug("rejected decide", "round", req.Round, "total_rounds", req.TotalRounds, "err", err)
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	s.metrics.ObserveDecision(req.Mood, d)
	s.logger.Debug("decide",
		"round", req.Round, "total_rounds", req.TotalRounds,
		"phase", d.Phase, "move", d.Move, "mood", d.Mood)

	out, err := EncodeDecision(d)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
