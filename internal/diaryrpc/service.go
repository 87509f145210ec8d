// Package diaryrpc describes the Diary gRPC service. Requests and responses
// travel as google.protobuf.Struct values carrying the JSON form of the
// message types in this package, so no generated stubs are needed.
package diaryrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "swapdiary.v1.Diary"

const (
	MethodPing         = "Ping"
	MethodRegister     = "Register"
	MethodLogin        = "Login"
	MethodRefreshToken = "RefreshToken"
	MethodLogout       = "Logout"
	MethodGetProfile   = "GetProfile"
	MethodLinkPartner  = "LinkPartner"
	MethodSetAvatar    = "SetAvatar"
	MethodListEntries  = "ListEntries"
	MethodCreateEntry  = "CreateEntry"
	MethodDeleteEntry  = "DeleteEntry"
	MethodGallery      = "Gallery"
)

// FullMethod returns the wire name of method, as seen by interceptors.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Public reports whether method may be called without an access token.
func Public(fullMethod string) bool {
	switch fullMethod {
	case FullMethod(MethodPing), FullMethod(MethodRegister), FullMethod(MethodLogin), FullMethod(MethodRefreshToken):
		return true
	}
	return false
}

// DiaryServer is implemented by the server transport.
type DiaryServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LinkPartner(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetAvatar(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEntries(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateEntry(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteEntry(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Gallery(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type call func(DiaryServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(method string, fn call) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(DiaryServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return fn(srv.(DiaryServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc is registered with grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DiaryServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, DiaryServer.Ping),
		unary(MethodRegister, DiaryServer.Register),
		unary(MethodLogin, DiaryServer.Login),
		unary(MethodRefreshToken, DiaryServer.RefreshToken),
		unary(MethodLogout, DiaryServer.Logout),
		unary(MethodGetProfile, DiaryServer.GetProfile),
		unary(MethodLinkPartner, DiaryServer.LinkPartner),
		unary(MethodSetAvatar, DiaryServer.SetAvatar),
		unary(MethodListEntries, DiaryServer.ListEntries),
		unary(MethodCreateEntry, DiaryServer.CreateEntry),
		unary(MethodDeleteEntry, DiaryServer.DeleteEntry),
		unary(MethodGallery, DiaryServer.Gallery),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "swapdiary/v1/diary.proto",
}

// RegisterDiaryServer attaches srv to s.
func RegisterDiaryServer(s grpc.ServiceRegistrar, srv DiaryServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Invoke performs one unary call, encoding in and decoding the reply into out.
// out may be nil when the reply carries nothing of interest.
func Invoke(ctx context.Context, cc grpc.ClientConnInterface, method string, in, out any, opts ...grpc.CallOption) error {
	req, err := Encode(in)
	if err != nil {
		return err
	}
	reply := new(structpb.Struct)
	if err := cc.Invoke(ctx, FullMethod(method), req, reply, opts...); err != nil {
		return FromStatus(err)
	}
	if out == nil {
		return nil
	}
	return Decode(reply, out)
}
