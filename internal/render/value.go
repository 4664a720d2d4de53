package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ValueKind enumerates JSON value shapes.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueNumber
	ValueString
	ValueArray
	ValueObject
)

// Member is one key/value pair of an object, in document order.
type Member struct {
	Key   string
	Value Value
}

// Value is a parsed JSON value. Unlike a map-based decode it preserves
// object member order, which the section layout depends on.
type Value struct {
	Kind    ValueKind
	Bool    bool
	Num     float64
	Literal string
	Str     string
	Arr     []Value
	Obj     []Member
}

// ErrTrailingData indicates bytes after the first JSON value.
var ErrTrailingData = errors.New("render: trailing data after JSON value")

// Parse decodes raw JSON into a Value tree.
func Parse(raw []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	value, err := parseValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, ErrTrailingData
	}
	return value, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Value{Kind: ValueNull}, nil
	case bool:
		return Value{Kind: ValueBool, Bool: t}, nil
	case string:
		return Value{Kind: ValueString, Str: t}, nil
	case json.Number:
		num, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueNumber, Num: num, Literal: t.String()}, nil
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
	}
	return Value{}, fmt.Errorf("render: unexpected token %v", tok)
}

func parseObject(dec *json.Decoder) (Value, error) {
	value := Value{Kind: ValueObject}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("render: object key is %T, want string", keyTok)
		}
		member, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		value.Obj = append(value.Obj, Member{Key: key, Value: member})
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return value, nil
}

func parseArray(dec *json.Decoder) (Value, error) {
	value := Value{Kind: ValueArray}
	for dec.More() {
		element, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		value.Arr = append(value.Arr, element)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return value, nil
}

// isPrimitive reports whether the value renders inline (string, number,
// boolean).
func (v Value) isPrimitive() bool {
	switch v.Kind {
	case ValueBool, ValueNumber, ValueString:
		return true
	}
	return false
}
