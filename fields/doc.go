// Package fields provides the built-in field kinds used in dtoskema schemas:
// scalars (String, Bool, Integer, Float), temporal values (DateTime, Date,
// Time, InternetDateTime), UUID, nested objects (Object) and heterogeneous
// lists (List).
//
// Every kind implements dtoskema.Field and dtoskema.JSONSchemaer. Null handling,
// required checks and validators are applied by the owning descriptor, so a
// kind only ever sees non-null values.
package fields
