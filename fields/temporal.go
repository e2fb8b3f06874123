package fields

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/creasty/defaults"

	dtoskema "github.com/reoring/dtoskema"
	"github.com/reoring/dtoskema/codec"
	js "github.com/reoring/dtoskema/jsonschema"
)

// DateTimeOpt configures DateTime. Layout is a Go reference layout used in
// both directions; Parse, when set, replaces layout parsing on Clean.
type DateTimeOpt struct {
	Layout   string `default:"2006-01-02 15:04:05.000000"`
	Location *time.Location
	Parse    func(string) (time.Time, error)
}

// DateOpt configures Date.
type DateOpt struct {
	Layout string `default:"2006-01-02"`
	Parse  func(string) (time.Time, error)
}

// TimeOpt configures Time.
type TimeOpt struct {
	Layout string `default:"15:04:05.000000"`
	Parse  func(string) (time.Time, error)
}

// InternetDateTimeOpt configures InternetDateTime. Layout formats UTC values;
// values in other locations always use offset notation.
type InternetDateTimeOpt struct {
	Layout string `default:"2006-01-02T15:04:05.000000Z"`
	Parse  func(string) (time.Time, error)
}

// lastOpt returns the last option (or the zero value) with defaults applied.
func lastOpt[O any](opts []O) O {
	var o O
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	defaults.MustSet(&o)
	return o
}

// DateTime returns a field converting text to time.Time.
func DateTime(opts ...DateTimeOpt) dtoskema.Field {
	o := lastOpt(opts)
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Parse == nil {
		layout, loc := o.Layout, o.Location
		o.Parse = func(s string) (time.Time, error) { return time.ParseInLocation(layout, s, loc) }
	}
	return dateTimeField{opt: o}
}

type dateTimeField struct{ opt DateTimeOpt }

func (f dateTimeField) Clean(_ context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	s, ok := dtoskema.Primitive(v).(string)
	if !ok {
		return nil, dtoskema.InvalidType(d.Name, "string", v)
	}
	t, err := f.opt.Parse(s)
	if err != nil {
		return nil, dtoskema.InvalidFormat(d.Name, "datetime", err)
	}
	return t, nil
}

func (f dateTimeField) ToData(_ context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t.In(f.opt.Location).Format(f.opt.Layout), nil
	case *time.Time:
		if t != nil {
			return t.In(f.opt.Location).Format(f.opt.Layout), nil
		}
	}
	return nil, dtoskema.InvalidType(d.Name, "datetime", v)
}

func (dateTimeField) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil }

// Date returns a field converting text to civil.Date. Parsed timestamps are
// truncated to their date component.
func Date(opts ...DateOpt) dtoskema.Field {
	o := lastOpt(opts)
	if o.Parse == nil {
		layout := o.Layout
		o.Parse = func(s string) (time.Time, error) { return time.Parse(layout, s) }
	}
	return dateField{opt: o}
}

type dateField struct{ opt DateOpt }

func (f dateField) Clean(_ context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	s, ok := dtoskema.Primitive(v).(string)
	if !ok {
		return nil, dtoskema.InvalidType(d.Name, "string", v)
	}
	t, err := f.opt.Parse(s)
	if err != nil {
		return nil, dtoskema.InvalidFormat(d.Name, "date", err)
	}
	return civil.DateOf(t), nil
}

func (f dateField) ToData(_ context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	switch t := v.(type) {
	case civil.Date:
		return t.In(time.UTC).Format(f.opt.Layout), nil
	case *civil.Date:
		if t != nil {
			return t.In(time.UTC).Format(f.opt.Layout), nil
		}
	}
	return nil, dtoskema.InvalidType(d.Name, "date", v)
}

func (dateField) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "date"}, nil
}

// Time returns a field converting text to civil.Time. Parsed timestamps are
// truncated to their time-of-day component.
func Time(opts ...TimeOpt) dtoskema.Field {
	o := lastOpt(opts)
	if o.Parse == nil {
		layout := o.Layout
		o.Parse = func(s string) (time.Time, error) { return time.Parse(layout, s) }
	}
	return timeField{opt: o}
}

type timeField struct{ opt TimeOpt }

func (f timeField) Clean(_ context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	s, ok := dtoskema.Primitive(v).(string)
	if !ok {
		return nil, dtoskema.InvalidType(d.Name, "string", v)
	}
	t, err := f.opt.Parse(s)
	if err != nil {
		return nil, dtoskema.InvalidFormat(d.Name, "time", err)
	}
	return civil.TimeOf(t), nil
}

func (f timeField) ToData(_ context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	var ct civil.Time
	switch t := v.(type) {
	case civil.Time:
		ct = t
	case *civil.Time:
		if t == nil {
			return nil, dtoskema.InvalidType(d.Name, "time", v)
		}
		ct = *t
	default:
		return nil, dtoskema.InvalidType(d.Name, "time", v)
	}
	return time.Date(0, 1, 1, ct.Hour, ct.Minute, ct.Second, ct.Nanosecond, time.UTC).Format(f.opt.Layout), nil
}

func (timeField) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil }

// InternetDateTime returns a field converting RFC 3339-like text to a UTC
// time.Time (see codec.ParseInternetDateTime).
func InternetDateTime(opts ...InternetDateTimeOpt) dtoskema.Field {
	o := lastOpt(opts)
	if o.Parse == nil {
		o.Parse = codec.ParseInternetDateTime
	}
	return internetDateTimeField{opt: o}
}

type internetDateTimeField struct{ opt InternetDateTimeOpt }

func (f internetDateTimeField) Clean(_ context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	s, ok := dtoskema.Primitive(v).(string)
	if !ok {
		return nil, dtoskema.InvalidType(d.Name, "string", v)
	}
	t, err := f.opt.Parse(s)
	if err != nil {
		return nil, dtoskema.InvalidFormat(d.Name, "internet datetime", err)
	}
	return t, nil
}

func (f internetDateTimeField) ToData(_ context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	var t time.Time
	switch tv := v.(type) {
	case time.Time:
		t = tv
	case *time.Time:
		if tv == nil {
			return nil, dtoskema.InvalidType(d.Name, "datetime", v)
		}
		t = *tv
	default:
		return nil, dtoskema.InvalidType(d.Name, "datetime", v)
	}
	if t.Location() == time.UTC {
		return t.Format(f.opt.Layout), nil
	}
	return codec.FormatInternetDateTime(t), nil
}

func (internetDateTimeField) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "date-time"}, nil
}
