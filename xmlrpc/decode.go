package xmlrpc

import (
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const iso8601 = "20060102T15:04:05"

// Accepted dateTime.iso8601 layouts. The canonical form has no dashes, but
// several clients send RFC3339-style timestamps.
var dateTimeLayouts = []string{
	iso8601,
	"20060102T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

var ErrNotMethodCall = errors.New("xmlrpc: document is not a methodCall")

// MethodCall is a decoded XML-RPC request: a method name plus positional
// parameters.
type MethodCall struct {
	Name   string
	Params []Value
}

// Param returns the i-th positional parameter, or the zero Value when the
// call carries fewer parameters.
func (c *MethodCall) Param(i int) Value {
	if i < 0 || i >= len(c.Params) {
		return Value{}
	}
	return c.Params[i]
}

// ParseMethodCall decodes an XML-RPC methodCall document.
func ParseMethodCall(r io.Reader) (*MethodCall, error) {
	dec := xml.NewDecoder(r)
	call := &MethodCall{}
	sawRoot := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmlrpc: malformed request: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "methodCall":
			sawRoot = true
		case "methodName":
			var name string
			if err := dec.DecodeElement(&name, &start); err != nil {
				return nil, fmt.Errorf("xmlrpc: malformed methodName: %w", err)
			}
			call.Name = strings.TrimSpace(name)
		case "value":
			// decodeValue consumes through the matching end element, so
			// only parameter-level values surface here.
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			call.Params = append(call.Params, v)
		case "params", "param":
			// containers, descend
		default:
			if !sawRoot {
				return nil, ErrNotMethodCall
			}
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("xmlrpc: malformed request: %w", err)
			}
		}
	}

	if !sawRoot {
		return nil, ErrNotMethodCall
	}
	if call.Name == "" {
		return nil, errors.New("xmlrpc: methodCall without methodName")
	}
	return call, nil
}

// decodeValue reads the contents of a <value> element, positioned just
// after its start tag, and consumes its end tag.
func decodeValue(dec *xml.Decoder) (Value, error) {
	var v Value
	var text strings.Builder
	typed := false

	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("xmlrpc: malformed value: %w", err)
		}

		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			typed = true
			inner, err := decodeTypedValue(dec, t)
			if err != nil {
				return Value{}, err
			}
			v = inner
		case xml.EndElement:
			if !typed {
				// An untyped value is a string per the XML-RPC spec.
				v = NewString(text.String())
			}
			return v, nil
		}
	}
}

func decodeTypedValue(dec *xml.Decoder, start xml.StartElement) (Value, error) {
	switch start.Name.Local {
	case "string":
		var s string
		if err := dec.DecodeElement(&s, &start); err != nil {
			return Value{}, fmt.Errorf("xmlrpc: malformed string: %w", err)
		}
		return NewString(s), nil
	case "int", "i4", "i8":
		var s string
		if err := dec.DecodeElement(&s, &start); err != nil {
			return Value{}, fmt.Errorf("xmlrpc: malformed int: %w", err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return Value{}, fmt.Errorf("xmlrpc: malformed int %q", s)
		}
		return NewInt(n), nil
	case "boolean":
		var s string
		if err := dec.DecodeElement(&s, &start); err != nil {
			return Value{}, fmt.Errorf("xmlrpc: malformed boolean: %w", err)
		}
		switch strings.TrimSpace(s) {
		case "1", "true":
			return NewBool(true), nil
		case "0", "false":
			return NewBool(false), nil
		}
		return Value{}, fmt.Errorf("xmlrpc: malformed boolean %q", s)
	case "double":
		var s string
		if err := dec.DecodeElement(&s, &start); err != nil {
			return Value{}, fmt.Errorf("xmlrpc: malformed double: %w", err)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Value{}, fmt.Errorf("xmlrpc: malformed double %q", s)
		}
		return NewDouble(f), nil
	case "base64":
		var s string
		if err := dec.DecodeElement(&s, &start); err != nil {
			return Value{}, fmt.Errorf("xmlrpc: malformed base64: %w", err)
		}
		// Clients wrap base64 payloads at arbitrary column widths.
		s = strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\t', '\n', '\r':
				return -1
			}
			return r
		}, s)
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return Value{}, fmt.Errorf("xmlrpc: malformed base64 payload: %w", err)
		}
		return NewBase64(b), nil
	case "dateTime.iso8601":
		var s string
		if err := dec.DecodeElement(&s, &start); err != nil {
			return Value{}, fmt.Errorf("xmlrpc: malformed dateTime: %w", err)
		}
		s = strings.TrimSpace(s)
		for _, layout := range dateTimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return NewTime(t), nil
			}
		}
		return Value{}, fmt.Errorf("xmlrpc: malformed dateTime %q", s)
	case "array":
		return decodeArray(dec)
	case "struct":
		return decodeStruct(dec)
	case "nil":
		if err := dec.Skip(); err != nil {
			return Value{}, fmt.Errorf("xmlrpc: malformed nil: %w", err)
		}
		return Value{}, nil
	default:
		return Value{}, fmt.Errorf("xmlrpc: unsupported value type %q", start.Name.Local)
	}
}

// decodeArray reads array contents positioned after the <array> start tag.
func decodeArray(dec *xml.Decoder) (Value, error) {
	items := []Value{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("xmlrpc: malformed array: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "data":
				// container, descend
			case "value":
				v, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, v)
			default:
				return Value{}, fmt.Errorf("xmlrpc: unexpected element %q in array", t.Name.Local)
			}
		case xml.EndElement:
			if t.Name.Local == "array" {
				return NewArray(items), nil
			}
		}
	}
}

// decodeStruct reads struct members positioned after the <struct> start tag.
func decodeStruct(dec *xml.Decoder) (Value, error) {
	fields := map[string]Value{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("xmlrpc: malformed struct: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "member" {
				return Value{}, fmt.Errorf("xmlrpc: unexpected element %q in struct", t.Name.Local)
			}
			name, val, err := decodeMember(dec)
			if err != nil {
				return Value{}, err
			}
			fields[name] = val
		case xml.EndElement:
			if t.Name.Local == "struct" {
				return NewStruct(fields), nil
			}
		}
	}
}

func decodeMember(dec *xml.Decoder) (string, Value, error) {
	var name string
	var val Value
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", Value{}, fmt.Errorf("xmlrpc: malformed struct member: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				if err := dec.DecodeElement(&name, &t); err != nil {
					return "", Value{}, fmt.Errorf("xmlrpc: malformed member name: %w", err)
				}
			case "value":
				v, err := decodeValue(dec)
				if err != nil {
					return "", Value{}, err
				}
				val = v
			default:
				return "", Value{}, fmt.Errorf("xmlrpc: unexpected element %q in member", t.Name.Local)
			}
		case xml.EndElement:
			if t.Name.Local == "member" {
				return name, val, nil
			}
		}
	}
}
