package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "docextract.v1.ExtractionService"

const (
	methodExtract         = "/" + ServiceName + "/Extract"
	methodSubmit          = "/" + ServiceName + "/Submit"
	methodGetJob          = "/" + ServiceName + "/GetJob"
	methodExportJob       = "/" + ServiceName + "/ExportJob"
	methodIngestDirectory = "/" + ServiceName + "/IngestDirectory"
)

// ExtractionServer is the server API for ExtractionService. Requests and
// responses are free-form structs; see ExtractionService for their fields.
type ExtractionServer interface {
	Extract(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Submit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	IngestDirectory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterExtractionServer(s grpc.ServiceRegistrar, srv ExtractionServer) {
	s.RegisterService(&ExtractionServiceDesc, srv)
}

func unaryHandler(fullMethod string, call func(ExtractionServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ExtractionServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ExtractionServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ExtractionServiceDesc is the grpc.ServiceDesc for ExtractionService.
var ExtractionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExtractionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Extract", Handler: unaryHandler(methodExtract, ExtractionServer.Extract)},
		{MethodName: "Submit", Handler: unaryHandler(methodSubmit, ExtractionServer.Submit)},
		{MethodName: "GetJob", Handler: unaryHandler(methodGetJob, ExtractionServer.GetJob)},
		{MethodName: "ExportJob", Handler: unaryHandler(methodExportJob, ExtractionServer.ExportJob)},
		{MethodName: "IngestDirectory", Handler: unaryHandler(methodIngestDirectory, ExtractionServer.IngestDirectory)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "docextract/v1/extraction.proto",
}

// ExtractionClient is the client API for ExtractionService.
type ExtractionClient struct {
	cc grpc.ClientConnInterface
}

func NewExtractionClient(cc grpc.ClientConnInterface) *ExtractionClient {
	return &ExtractionClient{cc: cc}
}

func (c *ExtractionClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ExtractionClient) Extract(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodExtract, in, opts...)
}

func (c *ExtractionClient) Submit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodSubmit, in, opts...)
}

func (c *ExtractionClient) GetJob(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodGetJob, in, opts...)
}

func (c *ExtractionClient) ExportJob(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodExportJob, in, opts...)
}

func (c *ExtractionClient) IngestDirectory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodIngestDirectory, in, opts...)
}
