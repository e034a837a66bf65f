package codec

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"google.golang.org/protobuf/types/known/wrapperspb"
)

type session struct {
	ID      string    `json:"id" msgpack:"id" cbor:"id"`
	Scopes  []string  `json:"scopes" msgpack:"scopes" cbor:"scopes"`
	Expires time.Time `json:"expires" msgpack:"expires" cbor:"expires"`
}

func roundTrip[V any](t *testing.T, c Codec[V], in V) V {
	t.Helper()
	b, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return out
}

func TestStructCodecsRoundTrip(t *testing.T) {
	in := session{ID: "s1", Scopes: []string{"read", "write"}, Expires: time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)}
	codecs := map[string]Codec[session]{
		"json":        JSON[session]{},
		"cbor":        MustCBOR[session](false),
		"cbor-det":    MustCBOR[session](true),
		"msgpack":     Msgpack[session]{},
		"limit(json)": Limit[session]{Inner: JSON[session]{}, MaxDecode: 1 << 10},
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			out := roundTrip(t, c, in)
			if out.ID != in.ID || !reflect.DeepEqual(out.Scopes, in.Scopes) || !out.Expires.Equal(in.Expires) {
				t.Fatalf("got %+v want %+v", out, in)
			}
		})
	}
}

func TestCBORDecodesMapsAsStringKeyed(t *testing.T) {
	c := MustCBOR[any](true)
	out := roundTrip[any](t, c, map[string]any{"a": "b"})
	if _, ok := out.(map[string]any); !ok {
		t.Fatalf("expected map[string]any, got %T", out)
	}
}

func TestCBORDeterministicIsStable(t *testing.T) {
	c := MustCBOR[map[string]int](true)
	m := map[string]int{"z": 1, "a": 2, "m": 3, "b": 4}
	first, err := c.Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		b, _ := c.Encode(m)
		if string(b) != string(first) {
			t.Fatalf("deterministic encoding changed between runs")
		}
	}
}

func TestJSONDecodeFailure(t *testing.T) {
	if _, err := (JSON[int]{}).Decode([]byte("{not json")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLimitRejectsOversizedPayload(t *testing.T) {
	c := Limit[string]{Inner: JSON[string]{}, MaxDecode: 8}
	b, err := c.Encode(strings.Repeat("x", 32))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Decode(b); err == nil {
		t.Fatalf("expected size error")
	}

	unlimited := Limit[string]{Inner: JSON[string]{}}
	if v := roundTrip[string](t, unlimited, strings.Repeat("x", 32)); len(v) != 32 {
		t.Fatalf("unexpected value %q", v)
	}
}

func TestRawCodecs(t *testing.T) {
	if got := roundTrip[[]byte](t, Bytes{}, []byte{0, 1, 2}); !reflect.DeepEqual(got, []byte{0, 1, 2}) {
		t.Fatalf("bytes: %v", got)
	}
	if got := roundTrip[string](t, String{}, "héllo"); got != "héllo" {
		t.Fatalf("string: %q", got)
	}
}

func TestProtobufRoundTrip(t *testing.T) {
	c := NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	out := roundTrip[*wrapperspb.StringValue](t, c, wrapperspb.String("token"))
	if out.GetValue() != "token" {
		t.Fatalf("got %q", out.GetValue())
	}
	if _, err := c.Decode([]byte{0xff, 0xff, 0xff}); err == nil {
		t.Fatalf("expected error on garbage")
	}
}
