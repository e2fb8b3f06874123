package fields_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	dtoskema "github.com/reoring/dtoskema"
	"github.com/reoring/dtoskema/fields"
)

func desc(name string, kind dtoskema.Field) *dtoskema.Descriptor {
	return &dtoskema.Descriptor{Name: name, Attr: name, AllowNull: true, Kind: kind}
}

func clean(t *testing.T, kind dtoskema.Field, v any) (any, error) {
	t.Helper()
	return kind.Clean(context.Background(), desc("f", kind), v)
}

func toData(t *testing.T, kind dtoskema.Field, v any) (any, error) {
	t.Helper()
	return kind.ToData(context.Background(), desc("f", kind), v)
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	iss, ok := dtoskema.AsIssues(err)
	require.True(t, ok, "expected Issues, got %v", err)
	require.Equal(t, code, iss[0].Code)
}

type name string

func TestScalars(t *testing.T) {
	v, err := clean(t, fields.String(), name("bob"))
	require.NoError(t, err)
	require.Equal(t, "bob", v)

	_, err = clean(t, fields.String(), 1)
	requireCode(t, err, dtoskema.CodeInvalidType)

	v, err = clean(t, fields.Bool(), false)
	require.NoError(t, err)
	require.Equal(t, false, v)
	_, err = toData(t, fields.Bool(), "true")
	requireCode(t, err, dtoskema.CodeInvalidType)

	v, err = clean(t, fields.Integer(), json.Number("42"))
	require.NoError(t, err)
	require.Equal(t, int64(42), v)

	v, err = clean(t, fields.Integer(), json.Number("99999999999999999999"))
	require.NoError(t, err)
	want, _ := new(big.Int).SetString("99999999999999999999", 10)
	require.Zero(t, want.Cmp(v.(*big.Int)))

	_, err = clean(t, fields.Integer(), 1.5)
	iss, _ := dtoskema.AsIssues(err)
	require.Equal(t, "f must be a integer. Got float (float64).", iss[0].Message)
	_, err = clean(t, fields.Integer(), json.Number("1.5"))
	requireCode(t, err, dtoskema.CodeInvalidType)

	v, err = clean(t, fields.Float(), json.Number("1.5"))
	require.NoError(t, err)
	require.Equal(t, 1.5, v)
	_, err = clean(t, fields.Float(), 3)
	requireCode(t, err, dtoskema.CodeInvalidType)

	n := 7
	v, err = toData(t, fields.Integer(), &n)
	require.NoError(t, err)
	require.Equal(t, int64(7), v)
}

func TestDateTime_DefaultFormat(t *testing.T) {
	f := fields.DateTime()
	v, err := clean(t, f, "2013-05-04 02:01:00.132832")
	require.NoError(t, err)
	want := time.Date(2013, 5, 4, 2, 1, 0, 132832000, time.UTC)
	require.True(t, want.Equal(v.(time.Time)))

	out, err := toData(t, f, want)
	require.NoError(t, err)
	require.Equal(t, "2013-05-04 02:01:00.132832", out)

	_, err = clean(t, f, "yesterday")
	requireCode(t, err, dtoskema.CodeInvalidFormat)
	_, err = clean(t, f, 12)
	requireCode(t, err, dtoskema.CodeInvalidType)
	_, err = toData(t, f, "2013-05-04")
	requireCode(t, err, dtoskema.CodeInvalidType)
}

func TestDateTime_CustomOptions(t *testing.T) {
	f := fields.DateTime(fields.DateTimeOpt{Layout: time.RFC822})
	v, err := clean(t, f, "02 Jan 06 15:04 UTC")
	require.NoError(t, err)
	require.Equal(t, 2006, v.(time.Time).Year())

	called := false
	f = fields.DateTime(fields.DateTimeOpt{Parse: func(s string) (time.Time, error) {
		called = true
		return time.Unix(0, 0).UTC(), nil
	}})
	_, err = clean(t, f, "anything")
	require.NoError(t, err)
	require.True(t, called)
}

func TestDateTime_ZonedValuesKeepTheirInstant(t *testing.T) {
	f := fields.DateTime()
	tokyo := time.Date(2013, 5, 4, 11, 1, 0, 132832000, time.FixedZone("JST", 9*3600))
	out, err := toData(t, f, tokyo)
	require.NoError(t, err)
	require.Equal(t, "2013-05-04 02:01:00.132832", out)

	back, err := clean(t, f, out)
	require.NoError(t, err)
	require.True(t, tokyo.Equal(back.(time.Time)))

	est := time.FixedZone("EST", -5*3600)
	local := fields.DateTime(fields.DateTimeOpt{Location: est})
	out, err = toData(t, local, tokyo)
	require.NoError(t, err)
	require.Equal(t, "2013-05-03 21:01:00.132832", out)
	back, err = clean(t, local, out)
	require.NoError(t, err)
	require.True(t, tokyo.Equal(back.(time.Time)))
}

func TestTypedNilPointers(t *testing.T) {
	cases := map[string]struct {
		kind dtoskema.Field
		v    any
	}{
		"datetime":          {fields.DateTime(), (*time.Time)(nil)},
		"internet datetime": {fields.InternetDateTime(), (*time.Time)(nil)},
		"date":              {fields.Date(), (*civil.Date)(nil)},
		"time":              {fields.Time(), (*civil.Time)(nil)},
		"uuid":              {fields.UUID(), (*uuid.UUID)(nil)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := toData(t, tc.kind, tc.v)
			requireCode(t, err, dtoskema.CodeInvalidType)
		})
	}
}

func TestDateAndTime(t *testing.T) {
	d, err := clean(t, fields.Date(), "2014-03-01")
	require.NoError(t, err)
	require.Equal(t, civil.Date{Year: 2014, Month: time.March, Day: 1}, d)
	out, err := toData(t, fields.Date(), d)
	require.NoError(t, err)
	require.Equal(t, "2014-03-01", out)
	_, err = toData(t, fields.Date(), time.Now())
	requireCode(t, err, dtoskema.CodeInvalidType)

	tm, err := clean(t, fields.Time(), "12:30:23.341012")
	require.NoError(t, err)
	require.Equal(t, civil.Time{Hour: 12, Minute: 30, Second: 23, Nanosecond: 341012000}, tm)
	out, err = toData(t, fields.Time(), tm)
	require.NoError(t, err)
	require.Equal(t, "12:30:23.341012", out)

	dt, err := clean(t, fields.Date(fields.DateOpt{Parse: func(s string) (time.Time, error) {
		return time.Date(2020, 2, 29, 23, 59, 0, 0, time.UTC), nil
	}}), "ignored")
	require.NoError(t, err)
	require.Equal(t, civil.Date{Year: 2020, Month: time.February, Day: 29}, dt)
}

func TestInternetDateTime(t *testing.T) {
	f := fields.InternetDateTime()
	v, err := clean(t, f, "2013-04-30T12:54:23+0322")
	require.NoError(t, err)
	require.Equal(t, time.Date(2013, 4, 30, 9, 32, 23, 0, time.UTC), v)

	out, err := toData(t, f, time.Date(2014, 8, 2, 1, 23, 51, 123143000, time.UTC))
	require.NoError(t, err)
	require.Equal(t, "2014-08-02T01:23:51.123143Z", out)

	aware := time.Date(2013, 4, 30, 12, 54, 23, 0, time.FixedZone("", 3*3600+22*60))
	out, err = toData(t, f, aware)
	require.NoError(t, err)
	require.Equal(t, "2013-04-30T12:54:23+03:22", out)

	_, err = clean(t, f, "not a date")
	requireCode(t, err, dtoskema.CodeInvalidFormat)
}

func TestUUID(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	v, err := clean(t, fields.UUID(), "6BA7B810-9DAD-11D1-80B4-00C04FD430C8")
	require.NoError(t, err)
	require.Equal(t, id, v)

	out, err := toData(t, fields.UUID(), &id)
	require.NoError(t, err)
	require.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", out)

	_, err = clean(t, fields.UUID(), "not-a-uuid")
	requireCode(t, err, dtoskema.CodeInvalidFormat)
	require.False(t, dtoskema.IsTypeError(err))

	_, err = toData(t, fields.UUID(), "6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	require.True(t, dtoskema.IsTypeError(err))
}

func TestList(t *testing.T) {
	f := fields.List(fields.String(), fields.Integer())

	v, err := clean(t, f, []any{"a", json.Number("7")})
	require.NoError(t, err)
	require.Equal(t, []any{"a", int64(7)}, v)

	v, err = toData(t, f, []string{"x", "y"})
	require.NoError(t, err)
	require.Equal(t, []any{"x", "y"}, v)

	_, err = clean(t, f, "abc")
	requireCode(t, err, dtoskema.CodeInvalidType)

	_, err = clean(t, f, []any{true, "ok", nil})
	iss, _ := dtoskema.AsIssues(err)
	require.Len(t, iss, 4)
	require.Equal(t, "f[0]", iss[0].Path)
	require.Equal(t, "f[2]", iss[3].Path)
	require.Equal(t, "f[2]: f must be a integer. Got null.", iss[3].String())
	var inner dtoskema.Issues
	require.True(t, errors.As(iss[0].Cause, &inner))
}

type point struct {
	X int64 `dto:"x"`
	Y int64 `dto:"y"`
}

func TestObject(t *testing.T) {
	child := dtoskema.ObjectOf[point]().
		Field("x", fields.Integer()).Required().
		Field("y", fields.Integer()).Required().
		MustBuild()
	f := fields.Object(child)

	v, err := clean(t, f, map[string]any{"x": 1, "y": 2})
	require.NoError(t, err)
	require.Equal(t, &point{X: 1, Y: 2}, v)

	out, err := toData(t, f, point{X: 3, Y: 4})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"x": int64(3), "y": int64(4)}, out)

	_, err = clean(t, f, map[string]any{"x": 1})
	iss, _ := dtoskema.AsIssues(err)
	require.Equal(t, []string{"Field y is missing."}, iss.Messages())

	_, err = clean(t, f, []any{})
	requireCode(t, err, dtoskema.CodeInvalidType)
	_, err = toData(t, f, 5)
	requireCode(t, err, dtoskema.CodeInvalidType)
	_, err = toData(t, f, (*point)(nil))
	requireCode(t, err, dtoskema.CodeInvalidType)
}

func TestListOfObjects_NilElement(t *testing.T) {
	child := dtoskema.ObjectOf[point]().Field("x", fields.Integer()).MustBuild()
	f := fields.List(fields.Object(child))

	_, err := toData(t, f, []*point{{X: 1}, nil})
	require.NotErrorIs(t, err, dtoskema.ErrUsage)
	iss, ok := dtoskema.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	require.Equal(t, "f[1]", iss[0].Path)
	require.Equal(t, dtoskema.CodeInvalidType, iss[0].Code)
	require.Equal(t, "f[1]: f must be a object. Got null.", iss[0].String())
}
