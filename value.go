package jcat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Kind identifies the JSON type held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a decoded JSON document. Objects keep their members in input
// order; numbers keep their literal text.
type Value struct {
	Kind    Kind
	Bool    bool
	Num     json.Number
	Str     string
	Items   []*Value
	Members []Member
}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value *Value
}

// Get returns the value stored under key in an Object.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != Object {
		return nil, false
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Decode reads exactly one JSON document from r. Empty input, malformed
// input and trailing data after the document are reported as *ParseError.
func Decode(r io.Reader) (*Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber() // avoid float64 surprises
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Offset: dec.InputOffset(), Err: errEmptyInput}
		}
		return nil, newParseError(dec, err)
	}
	v, err := decodeValue(dec, tok)
	if err != nil {
		return nil, newParseError(dec, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errExtraData
		}
		return nil, newParseError(dec, err)
	}
	return v, nil
}

// DecodeBytes is Decode for in-memory documents.
func DecodeBytes(b []byte) (*Value, error) {
	return Decode(bytes.NewReader(b))
}

var (
	errEmptyInput = errors.New("unexpected end of input, expecting a JSON value")
	errExtraData  = errors.New("extra data after JSON value")
)

func decodeValue(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return &Value{Kind: Null}, nil
	case bool:
		return &Value{Kind: Bool, Bool: t}, nil
	case json.Number:
		return &Value{Kind: Number, Num: t}, nil
	case string:
		return &Value{Kind: String, Str: t}, nil
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(dec)
		case '{':
			return decodeObject(dec)
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeArray(dec *json.Decoder) (*Value, error) {
	v := &Value{Kind: Array, Items: []*Value{}}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, eofToUnexpected(err)
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return v, nil
		}
		item, err := decodeValue(dec, tok)
		if err != nil {
			return nil, err
		}
		v.Items = append(v.Items, item)
	}
}

// decodeObject keeps the first position of a duplicated key and the last
// value assigned to it.
func decodeObject(dec *json.Decoder) (*Value, error) {
	v := &Value{Kind: Object, Members: []Member{}}
	var seen map[string]int
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, eofToUnexpected(err)
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return v, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		tok, err = dec.Token()
		if err != nil {
			return nil, eofToUnexpected(err)
		}
		val, err := decodeValue(dec, tok)
		if err != nil {
			return nil, err
		}
		if seen == nil {
			seen = make(map[string]int)
		}
		if i, dup := seen[key]; dup {
			v.Members[i].Value = val
			continue
		}
		seen[key] = len(v.Members)
		v.Members = append(v.Members, Member{Key: key, Value: val})
	}
}

func eofToUnexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// MarshalJSON encodes v as compact JSON, keeping member order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.appendJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) appendJSON(buf *bytes.Buffer) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.Kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case Number:
		buf.WriteString(v.Num.String())
	case String:
		if err := appendJSONString(buf, v.Str); err != nil {
			return err
		}
	case Array:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.appendJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSONString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.appendJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode value of kind %s", v.Kind)
	}
	return nil
}

func appendJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode terminates with a newline
	return nil
}
