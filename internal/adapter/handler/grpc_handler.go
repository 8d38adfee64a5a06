package handler

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/rl1809/food-delivery/internal/core/domain"
	"github.com/rl1809/food-delivery/internal/core/service"
)

const DispatchServiceName = "delivery.DispatchService"

type PlaceOrderRequest struct {
	UserEmail      string            `json:"user_email"`
	RestaurantName string            `json:"restaurant_name"`
	Items          domain.OrderLines `json:"items"`
}

type PlaceOrderResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	OrderID string  `json:"order_id,omitempty"`
	Total   float64 `json:"total,omitempty"`
}

type AssignNextRequest struct{}

type AssignNextResponse struct {
	Success     bool             `json:"success"`
	Message     string           `json:"message"`
	Assignments []AssignmentView `json:"assignments,omitempty"`
}

type CompleteOrderRequest struct {
	DriverEmail string `json:"driver_email"`
}

type CompleteOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"order_id,omitempty"`
	Status  string `json:"status,omitempty"`
}

type DispatchServiceServer interface {
	PlaceOrder(context.Context, *PlaceOrderRequest) (*PlaceOrderResponse, error)
	AssignNext(context.Context, *AssignNextRequest) (*AssignNextResponse, error)
	CompleteOrder(context.Context, *CompleteOrderRequest) (*CompleteOrderResponse, error)
}

type GRPCHandler struct {
	market *service.Marketplace
	logger zerolog.Logger
}

func NewGRPCHandler(market *service.Marketplace, logger zerolog.Logger) *GRPCHandler {
	return &GRPCHandler{
		market: market,
		logger: logger.With().Str("component", "grpc").Logger(),
	}
}

func (h *GRPCHandler) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	order, total, err := h.market.PlaceOrder(req.UserEmail, req.RestaurantName, req.Items)
	if err != nil {
		return &PlaceOrderResponse{Success: false, Message: h.message(err)}, nil
	}
	return &PlaceOrderResponse{
		Success: true,
		Message: "order placed successfully",
		OrderID: order.ID,
		Total:   total,
	}, nil
}

func (h *GRPCHandler) AssignNext(ctx context.Context, req *AssignNextRequest) (*AssignNextResponse, error) {
	assignments, err := h.market.AssignNext(ctx)
	if err != nil {
		return &AssignNextResponse{Success: false, Message: h.message(err)}, nil
	}
	resp := &AssignNextResponse{Success: true, Message: "orders assigned"}
	for _, a := range assignments {
		resp.Assignments = append(resp.Assignments, AssignmentView{OrderID: a.Order.ID, DriverEmail: a.Driver.Email})
	}
	return resp, nil
}

func (h *GRPCHandler) CompleteOrder(ctx context.Context, req *CompleteOrderRequest) (*CompleteOrderResponse, error) {
	order, err := h.market.CompleteOrder(ctx, req.DriverEmail)
	if err != nil {
		return &CompleteOrderResponse{Success: false, Message: h.message(err)}, nil
	}
	return &CompleteOrderResponse{
		Success: true,
		Message: "order delivered",
		OrderID: order.ID,
		Status:  string(order.Status),
	}, nil
}

// message turns a domain error into the reply text. Errors of an unknown
// kind are logged and reported as internal.
func (h *GRPCHandler) message(err error) string {
	for _, kind := range []error{
		service.ErrNotFound,
		service.ErrUnavailable,
		service.ErrInvalidInput,
		service.ErrNoCapacity,
	} {
		if errors.Is(err, kind) {
			return err.Error()
		}
	}
	h.logger.Error().Err(err).Msg("rpc failed")
	return "internal error"
}

func RegisterDispatchServiceServer(s grpc.ServiceRegistrar, srv DispatchServiceServer) {
	s.RegisterService(&dispatchServiceDesc, srv)
}

var dispatchServiceDesc = grpc.ServiceDesc{
	ServiceName: DispatchServiceName,
	HandlerType: (*DispatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "PlaceOrder", Handler: placeOrderHandler},
		{MethodName: "AssignNext", Handler: assignNextHandler},
		{MethodName: "CompleteOrder", Handler: completeOrderHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "delivery.proto",
}

func placeOrderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PlaceOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatchServiceServer).PlaceOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + DispatchServiceName + "/PlaceOrder"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DispatchServiceServer).PlaceOrder(ctx, req.(*PlaceOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func assignNextHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AssignNextRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatchServiceServer).AssignNext(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + DispatchServiceName + "/AssignNext"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DispatchServiceServer).AssignNext(ctx, req.(*AssignNextRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func completeOrderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CompleteOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatchServiceServer).CompleteOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + DispatchServiceName + "/CompleteOrder"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DispatchServiceServer).CompleteOrder(ctx, req.(*CompleteOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// DispatchClient calls DispatchService using the JSON codec.
type DispatchClient struct {
	cc grpc.ClientConnInterface
}

func NewDispatchClient(cc grpc.ClientConnInterface) *DispatchClient {
	return &DispatchClient{cc: cc}
}

func (c *DispatchClient) PlaceOrder(ctx context.Context, in *PlaceOrderRequest, opts ...grpc.CallOption) (*PlaceOrderResponse, error) {
	out := new(PlaceOrderResponse)
	if err := c.invoke(ctx, "PlaceOrder", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DispatchClient) AssignNext(ctx context.Context, in *AssignNextRequest, opts ...grpc.CallOption) (*AssignNextResponse, error) {
	out := new(AssignNextResponse)
	if err := c.invoke(ctx, "AssignNext", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DispatchClient) CompleteOrder(ctx context.Context, in *CompleteOrderRequest, opts ...grpc.CallOption) (*CompleteOrderResponse, error) {
	out := new(CompleteOrderResponse)
	if err := c.invoke(ctx, "CompleteOrder", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DispatchClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(JSONCodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+DispatchServiceName+"/"+method, in, out, opts...)
}
