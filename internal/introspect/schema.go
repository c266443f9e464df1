package introspect

// protoSource is the introspection service's schema, parsed at init with
// protoparse. It's embedded rather than loaded from the filesystem since
// it describes a fixed, engine-owned service surface.
const protoSource = `
syntax = "proto3";

package genfunc.introspect;

message TypeRef {
  string name = 1;
}

message MethodInfo {
  uint64 uid = 1;
  repeated string signature = 2;
  bool vararg = 3;
}

message MatchingMethodsRequest {
  repeated TypeRef signature = 1;
  int32 limit = 2;
}

message MatchingMethodsResponse {
  repeated MethodInfo methods = 1;
}

message MethodLookupByTypeRequest {
  repeated TypeRef signature = 1;
}

message MethodLookupByTypeResponse {
  bool found = 1;
  MethodInfo method = 2;
}

service Introspect {
  rpc MatchingMethods(MatchingMethodsRequest) returns (MatchingMethodsResponse);
  rpc MethodLookupByType(MethodLookupByTypeRequest) returns (MethodLookupByTypeResponse);
}
`
