package source

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Kind is the normalized type of a captured value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindBytes
	KindTime
)

var kindNames = [...]string{"null", "int", "float", "bool", "string", "bytes", "time"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

func parseKind(s string) (Kind, bool) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Value is a captured cell. Only the field matching Kind is meaningful.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Bool  bool
	Str   string
	Bytes []byte
	Time  time.Time
}

// Null is the captured SQL NULL.
var Null = Value{}

func IntValue(v int64) Value     { return Value{Kind: KindInt, Int: v} }
func FloatValue(v float64) Value { return Value{Kind: KindFloat, Float: v} }
func BoolValue(v bool) Value     { return Value{Kind: KindBool, Bool: v} }
func StringValue(v string) Value { return Value{Kind: KindString, Str: v} }
func TimeValue(v time.Time) Value {
	return Value{Kind: KindTime, Time: v}
}

func BytesValue(v []byte) Value {
	return Value{Kind: KindBytes, Bytes: append([]byte{}, v...)}
}

func (v Value) IsNull() bool { return v.Kind == KindNull }

// Equal reports exact equality: same kind and same payload.
// NaN equals NaN so that a snapshot always equals itself.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindInt:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float || (math.IsNaN(v.Float) && math.IsNaN(o.Float))
	case KindBool:
		return v.Bool == o.Bool
	case KindString:
		return v.Str == o.Str
	case KindBytes:
		return bytes.Equal(v.Bytes, o.Bytes)
	case KindTime:
		return v.Time.Equal(o.Time)
	}
	return false
}

// String renders the value for display.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindBytes:
		return "0x" + hex.EncodeToString(v.Bytes)
	case KindString:
		return v.Str
	}
	return v.text()
}

// text is the lossless textual payload used on disk and in row keys.
func (v Value) text() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindString:
		return v.Str
	case KindBytes:
		return base64.StdEncoding.EncodeToString(v.Bytes)
	case KindTime:
		return v.Time.Format(time.RFC3339Nano)
	}
	return ""
}

// Key returns a string that is equal for two values exactly when Equal holds.
func (v Value) Key() string {
	if v.Kind == KindTime {
		return "time:" + v.Time.UTC().Format(time.RFC3339Nano)
	}
	if v.Kind == KindFloat {
		switch {
		case math.IsNaN(v.Float):
			return "float:NaN"
		case v.Float == 0:
			return "float:0"
		}
	}
	return v.Kind.String() + ":" + v.text()
}

// MarshalJSON encodes the value as a [kind, text] pair; null is ["null"].
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == KindNull {
		return []byte(`["null"]`), nil
	}
	return json.Marshal([2]string{v.Kind.String(), v.text()})
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	if len(parts) == 0 {
		return fmt.Errorf("decode value: empty pair")
	}
	kind, ok := parseKind(parts[0])
	if !ok {
		return fmt.Errorf("decode value: unknown kind %q", parts[0])
	}
	if kind == KindNull {
		*v = Null
		return nil
	}
	if len(parts) != 2 {
		return fmt.Errorf("decode value: %s without payload", kind)
	}
	text := parts[1]
	out := Value{Kind: kind}
	var err error
	switch kind {
	case KindInt:
		out.Int, err = strconv.ParseInt(text, 10, 64)
	case KindFloat:
		out.Float, err = strconv.ParseFloat(text, 64)
	case KindBool:
		out.Bool, err = strconv.ParseBool(text)
	case KindString:
		out.Str = text
	case KindBytes:
		out.Bytes, err = base64.StdEncoding.DecodeString(text)
	case KindTime:
		out.Time, err = time.Parse(time.RFC3339Nano, text)
	}
	if err != nil {
		return fmt.Errorf("decode %s value: %w", kind, err)
	}
	*v = out
	return nil
}

// Normalize converts a value scanned from database/sql into a Value.
// dbType is the driver's column type name; it decides whether raw bytes are text.
func Normalize(raw interface{}, dbType string) Value {
	switch x := raw.(type) {
	case nil:
		return Null
	case int64:
		return IntValue(x)
	case int32:
		return IntValue(int64(x))
	case int:
		return IntValue(int64(x))
	case uint64:
		if x > math.MaxInt64 {
			return StringValue(strconv.FormatUint(x, 10))
		}
		return IntValue(int64(x))
	case float64:
		return FloatValue(x)
	case float32:
		return FloatValue(float64(x))
	case bool:
		return BoolValue(x)
	case string:
		return StringValue(x)
	case time.Time:
		return TimeValue(x)
	case []byte:
		if isBinaryType(dbType) || !utf8.Valid(x) {
			return BytesValue(x)
		}
		return StringValue(string(x))
	}
	return StringValue(fmt.Sprint(raw))
}

func isBinaryType(dbType string) bool {
	t := strings.ToUpper(dbType)
	return strings.Contains(t, "BLOB") || strings.Contains(t, "BINARY") ||
		t == "IMAGE" || t == "BYTEA"
}
