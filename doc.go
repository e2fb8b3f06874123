// Package dtoskema provides:
//
// - Declarative object schemas built with a fluent builder (Object/ObjectOf)
// - Bidirectional conversion between plain data (map[string]any, []any,
// primitives) and domain objects through Serializer sessions
// - A stable error model via Issues (field, list path, code, message) that
// aggregates every problem found in one pass
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place field kinds under fields/, validators under validators/, codecs under codec/
// and plain-data loaders under source/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := dtoskema.ObjectOf[User]().
//		Field("name", fields.String()).Attr("Name").Required().
//		Field("id", fields.UUID()).Attr("ID").
//		MustBuild()
//
//	u, err := dtoskema.ToObject[*User](ctx, s, data)
//	out, err := dtoskema.ToData(ctx, s, u)
package dtoskema
