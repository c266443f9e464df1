// Package introspect exposes a generic function's method table to
// out-of-process tooling (an editor plugin, a debugger, a remote
// inspection client) over gRPC, using dynamic protobuf messages built
// from an embedded .proto schema rather than generated Go stubs: parse
// the schema with protoparse, build a generic grpc.ServiceDesc whose
// Handler decodes/encodes dynamic.Message values, and hand it to
// grpc.Server.RegisterService.
package introspect

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/multimethod/genfunc/internal/dispatch"
	"github.com/multimethod/genfunc/internal/types"
)

// Server answers MatchingMethods/MethodLookupByType over gRPC for one
// Dispatcher.
type Server struct {
	D  *dispatch.Dispatcher
	fd *desc.FileDescriptor
	sd *desc.ServiceDescriptor
}

// NewServer parses the embedded schema and returns a Server ready to be
// registered with RegisterWith.
func NewServer(d *dispatch.Dispatcher) (*Server, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{
			"introspect.proto": protoSource,
		}),
	}
	fds, err := parser.ParseFiles("introspect.proto")
	if err != nil {
		return nil, fmt.Errorf("parsing introspect schema: %w", err)
	}
	fd := fds[0]
	sd := fd.FindService("genfunc.introspect.Introspect")
	if sd == nil {
		return nil, fmt.Errorf("introspect schema missing Introspect service")
	}
	return &Server{D: d, fd: fd, sd: sd}, nil
}

// RegisterWith builds a grpc.ServiceDesc from the parsed schema — one
// grpc.MethodDesc per RPC, each with a Handler closure that decodes the
// request into a dynamic.Message, dispatches to the matching Server
// method, and encodes the dynamic.Message response — and registers it.
func (s *Server) RegisterWith(server *grpc.Server) {
	sd := &grpc.ServiceDesc{
		ServiceName: s.sd.GetFullyQualifiedName(),
		HandlerType: (*interface{})(nil),
		Metadata:    s.fd.GetName(),
	}
	for _, md := range s.sd.GetMethods() {
		method := md
		sd.Methods = append(sd.Methods, grpc.MethodDesc{
			MethodName: method.GetName(),
			Handler:    s.handlerFor(method),
		})
	}
	server.RegisterService(sd, s)
}

func (s *Server) handlerFor(md *desc.MethodDescriptor) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		req := dynamic.NewMessage(md.GetInputType())
		if err := dec(req); err != nil {
			return nil, err
		}
		handle := func(ctx context.Context, reqMsg interface{}) (interface{}, error) {
			return s.dispatchRPC(md.GetName(), reqMsg.(*dynamic.Message), md.GetOutputType())
		}
		if interceptor == nil {
			return handle(ctx, req)
		}
		info := &grpc.UnaryServerInfo{Server: s, FullMethod: "/" + s.sd.GetFullyQualifiedName() + "/" + md.GetName()}
		return interceptor(ctx, req, info, handle)
	}
}

func (s *Server) dispatchRPC(name string, req *dynamic.Message, outType *desc.MessageDescriptor) (*dynamic.Message, error) {
	switch name {
	case "MatchingMethods":
		return s.matchingMethods(req, outType)
	case "MethodLookupByType":
		return s.methodLookupByType(req, outType)
	default:
		return nil, status.Errorf(codes.Unimplemented, "unknown method %s", name)
	}
}

func (s *Server) matchingMethods(req *dynamic.Message, outType *desc.MessageDescriptor) (*dynamic.Message, error) {
	sig, err := decodeSignature(req, "signature")
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	limit, _ := req.TryGetFieldByName("limit")
	limitInt, _ := limit.(int32)

	methods := s.D.MatchingMethods(types.TTuple{Elements: sig}, int(limitInt))

	resp := dynamic.NewMessage(outType)
	infos := make([]interface{}, 0, len(methods))
	for _, m := range methods {
		infos = append(infos, methodInfoMessage(outType, m))
	}
	if err := resp.TrySetFieldByName("methods", infos); err != nil {
		return nil, status.Errorf(codes.Internal, "%v", err)
	}
	return resp, nil
}

func (s *Server) methodLookupByType(req *dynamic.Message, outType *desc.MessageDescriptor) (*dynamic.Message, error) {
	sig, err := decodeSignature(req, "signature")
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	m, ok := s.D.MethodLookupByType(types.TTuple{Elements: sig})
	resp := dynamic.NewMessage(outType)
	if !ok {
		resp.TrySetFieldByName("found", false)
		return resp, nil
	}
	resp.TrySetFieldByName("found", true)
	methodInfoField := outType.FindFieldByName("method")
	infoMsg := methodInfoMessage(methodInfoField.GetMessageType(), m)
	resp.TrySetFieldByName("method", infoMsg)
	return resp, nil
}

func methodInfoMessage(outType *desc.MessageDescriptor, m *dispatch.Method) *dynamic.Message {
	var infoType *desc.MessageDescriptor
	if f := outType.FindFieldByName("methods"); f != nil {
		infoType = f.GetMessageType()
	} else if f := outType.FindFieldByName("method"); f != nil {
		infoType = f.GetMessageType()
	} else {
		infoType = outType
	}
	info := dynamic.NewMessage(infoType)
	info.TrySetFieldByName("uid", m.UID)
	sigStrs := make([]interface{}, len(m.Sig.Elements))
	vararg := false
	for i, e := range m.Sig.Elements {
		if _, ok := e.(types.TSeq); ok {
			vararg = true
		}
		sigStrs[i] = e.String()
	}
	info.TrySetFieldByName("signature", sigStrs)
	info.TrySetFieldByName("vararg", vararg)
	return info
}

// decodeSignature reads a repeated TypeRef field back into a []types.Type
// of nominal TCon placeholders (the wire representation only carries type
// names; richer parametric lookups go through the CLI/library API
// directly rather than over the introspection RPC).
func decodeSignature(req *dynamic.Message, field string) ([]types.Type, error) {
	raw, err := req.TryGetFieldByName(field)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", field, err)
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, nil
	}
	out := make([]types.Type, 0, len(items))
	for _, item := range items {
		ref, ok := item.(*dynamic.Message)
		if !ok {
			continue
		}
		name, _ := ref.TryGetFieldByName("name")
		nameStr, _ := name.(string)
		out = append(out, types.TCon{Name: nameStr})
	}
	return out, nil
}
