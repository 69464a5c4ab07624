package grpc_control

import (
	"context"

	"stock-trend/src/models"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// ChartClient is a typed client of stocktrend.ChartService
type ChartClient struct {
	conn grpc.ClientConnInterface
}

// Dial connects to addr without transport security; the service is meant for localhost tooling.
func Dial(addr string, opts ...grpc.DialOption) (*ChartClient, *grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, nil, err
	}
	return NewChartClient(conn), conn, nil
}

func NewChartClient(conn grpc.ClientConnInterface) *ChartClient {
	return &ChartClient{conn: conn}
}

// -----------------------------------------------------------------------------

func (c *ChartClient) call(ctx context.Context, method string, req, reply interface{}) error {
	in, err := encode(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return err
	}
	return decode(out, reply)
}

// -----------------------------------------------------------------------------

func (c *ChartClient) GetChart(ctx context.Context, req ChartRequest) (*ChartReply, error) {
	var reply ChartReply
	if err := c.call(ctx, "GetChart", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// -----------------------------------------------------------------------------

func (c *ChartClient) GetFigure(ctx context.Context, req ChartRequest) (*FigureReply, error) {
	var reply FigureReply
	if err := c.call(ctx, "GetFigure", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// -----------------------------------------------------------------------------

func (c *ChartClient) ResolveRange(ctx context.Context, req RangeRequest) (models.MRangeResponse, error) {
	var reply models.MRangeResponse
	err := c.call(ctx, "ResolveRange", req, &reply)
	return reply, err
}
