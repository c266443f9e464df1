package introspect

import (
	"testing"

	"github.com/jhump/protoreflect/dynamic"
	"github.com/stretchr/testify/require"

	"github.com/multimethod/genfunc/internal/dispatch"
	"github.com/multimethod/genfunc/internal/types"
)

func newTestDispatcher(t *testing.T) *dispatch.Dispatcher {
	t.Helper()
	table := dispatch.NewMethodTable(0, dispatch.NoopWarner{})
	table.AddMethod(&dispatch.Method{
		Sig:  types.TTuple{Elements: []types.Type{types.TCon{Name: "Int"}}},
		Func: "intMethod",
	})
	return dispatch.NewDispatcher(table, nil)
}

func TestNewServerParsesSchema(t *testing.T) {
	s, err := NewServer(newTestDispatcher(t))
	require.NoError(t, err)
	require.NotNil(t, s.sd)
	require.Equal(t, "genfunc.introspect.Introspect", s.sd.GetFullyQualifiedName())
	require.Len(t, s.sd.GetMethods(), 2)
}

func TestMatchingMethodsRPC(t *testing.T) {
	s, err := NewServer(newTestDispatcher(t))
	require.NoError(t, err)

	md := s.sd.FindMethodByName("MatchingMethods")
	require.NotNil(t, md)

	req := dynamic.NewMessage(md.GetInputType())
	typeRefType := md.GetInputType().FindFieldByName("signature").GetMessageType()
	ref := dynamic.NewMessage(typeRefType)
	require.NoError(t, ref.TrySetFieldByName("name", "Int"))
	require.NoError(t, req.TrySetFieldByName("signature", []interface{}{ref}))
	require.NoError(t, req.TrySetFieldByName("limit", int32(10)))

	resp, err := s.matchingMethods(req, md.GetOutputType())
	require.NoError(t, err)

	methods, err := resp.TryGetFieldByName("methods")
	require.NoError(t, err)
	list, ok := methods.([]interface{})
	require.True(t, ok)
	require.Len(t, list, 1)
}

func TestMethodLookupByTypeRPCNotFound(t *testing.T) {
	s, err := NewServer(newTestDispatcher(t))
	require.NoError(t, err)

	md := s.sd.FindMethodByName("MethodLookupByType")
	require.NotNil(t, md)

	req := dynamic.NewMessage(md.GetInputType())
	typeRefType := md.GetInputType().FindFieldByName("signature").GetMessageType()
	ref := dynamic.NewMessage(typeRefType)
	require.NoError(t, ref.TrySetFieldByName("name", "String"))
	require.NoError(t, req.TrySetFieldByName("signature", []interface{}{ref}))

	resp, err := s.methodLookupByType(req, md.GetOutputType())
	require.NoError(t, err)

	found, err := resp.TryGetFieldByName("found")
	require.NoError(t, err)
	require.Equal(t, false, found)
}
