package grpc_control

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"stock-trend/src/analysis"
	"stock-trend/src/helpers"
	"stock-trend/src/logger"
	"stock-trend/src/models"
	"stock-trend/src/presentation"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "stocktrend.ChartService"

// ChartServer is the server API of stocktrend.ChartService.
// Messages are google.protobuf.Struct so no generated code is needed.
type ChartServer interface {
	GetChart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetFigure(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResolveRange(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ChartRequest is the body of GetChart and GetFigure
type ChartRequest struct {
	Symbol string `json:"symbol,omitempty"`
	Source string `json:"source,omitempty"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

// RangeRequest is the body of ResolveRange. Preset wins over Activations.
type RangeRequest struct {
	Preset      string           `json:"preset,omitempty"`
	Activations map[string]int64 `json:"activations,omitempty"`
}

// ChartReply is the body returned by GetChart
type ChartReply struct {
	Chart  *models.MChartData `json:"chart"`
	Notice models.MNotice     `json:"notice"`
}

// FigureReply is the body returned by GetFigure
type FigureReply struct {
	Figure models.MFigure `json:"figure"`
	Notice models.MNotice `json:"notice"`
}

// -----------------------------------------------------------------------------

// ChartService serves chart requests over gRPC
type ChartService struct {
	Facade *analysis.AnalysisFacade
	Height int
	Logger *logger.Logger
	Errors *helpers.ErrorHandler
}

func NewChartService(facade *analysis.AnalysisFacade, height int, log *logger.Logger) *ChartService {
	return &ChartService{
		Facade: facade,
		Height: height,
		Logger: log,
		Errors: helpers.NewErrorHandler(log),
	}
}

// -----------------------------------------------------------------------------

func (s *ChartService) GetChart(ctx context.Context, in *structpb.Struct) (out *structpb.Struct, err error) {
	defer s.Errors.Recover("GetChart", &err)

	chart, err := s.buildChart(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(ChartReply{Chart: chart, Notice: presentation.NoticeFor(chart)})
}

// -----------------------------------------------------------------------------

func (s *ChartService) GetFigure(ctx context.Context, in *structpb.Struct) (out *structpb.Struct, err error) {
	defer s.Errors.Recover("GetFigure", &err)

	chart, err := s.buildChart(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(FigureReply{
		Figure: presentation.BuildFigure(chart, s.Height),
		Notice: presentation.NoticeFor(chart),
	})
}

// -----------------------------------------------------------------------------

func (s *ChartService) ResolveRange(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req RangeRequest
	if err := decode(in, &req); err != nil {
		return nil, toStatus(err)
	}

	var (
		resp models.MRangeResponse
		err  error
	)
	if strings.TrimSpace(req.Preset) != "" {
		resp, err = s.Facade.RangeForPreset(req.Preset)
	} else {
		resp, err = s.Facade.RangeForActivations(req.Activations)
	}
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(resp)
}

// -----------------------------------------------------------------------------

func (s *ChartService) buildChart(ctx context.Context, in *structpb.Struct) (*models.MChartData, error) {
	var req ChartRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	chartReq, err := s.Facade.NewRequest(req.Symbol, req.Source, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	chart, err := s.Facade.BuildChart(ctx, chartReq)
	if err != nil {
		s.Logger.Info("gRPC chart %s failed: %v", req.Symbol, err)
		return nil, err
	}
	return chart, nil
}

// -----------------------------------------------------------------------------

// toStatus maps pipeline errors onto gRPC codes
func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case helpers.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Unavailable, err.Error())
	}
}

// -----------------------------------------------------------------------------

func encode(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// -----------------------------------------------------------------------------

func decode(in *structpb.Struct, v interface{}) error {
	if in == nil {
		return nil
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return helpers.NewValidationError("unreadable request", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return helpers.NewValidationError("malformed request", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Service descriptor
// -----------------------------------------------------------------------------

func RegisterChartServer(s grpc.ServiceRegistrar, srv ChartServer) {
	s.RegisterService(&ChartServiceDesc, srv)
}

func unaryHandler(method string, call func(ChartServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ChartServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ChartServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ChartServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChartServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetChart", Handler: unaryHandler("GetChart", ChartServer.GetChart)},
		{MethodName: "GetFigure", Handler: unaryHandler("GetFigure", ChartServer.GetFigure)},
		{MethodName: "ResolveRange", Handler: unaryHandler("ResolveRange", ChartServer.ResolveRange)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stocktrend/chart_service",
}
