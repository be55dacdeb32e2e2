package xmlrpc

import (
	"encoding/base64"
	"encoding/xml"
	"io"
	"sort"
	"strconv"
	"strings"
)

const header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// WriteResponse encodes a successful methodResponse carrying one result
// value.
func WriteResponse(w io.Writer, v Value) error {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("<methodResponse><params><param>")
	encodeValue(&b, v)
	b.WriteString("</param></params></methodResponse>")
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFault encodes a methodResponse fault.
func WriteFault(w io.Writer, f *Fault) error {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("<methodResponse><fault>")
	encodeValue(&b, NewStruct(map[string]Value{
		"faultCode":   NewInt(f.Code),
		"faultString": NewString(f.String),
	}))
	b.WriteString("</fault></methodResponse>")
	_, err := io.WriteString(w, b.String())
	return err
}

func encodeValue(b *strings.Builder, v Value) {
	b.WriteString("<value>")
	switch v.kind {
	case String, Invalid:
		b.WriteString("<string>")
		writeEscaped(b, v.str)
		b.WriteString("</string>")
	case Int:
		b.WriteString("<int>")
		b.WriteString(strconv.Itoa(v.num))
		b.WriteString("</int>")
	case Bool:
		b.WriteString("<boolean>")
		if v.boolv {
			b.WriteString("1")
		} else {
			b.WriteString("0")
		}
		b.WriteString("</boolean>")
	case Double:
		b.WriteString("<double>")
		b.WriteString(strconv.FormatFloat(v.dbl, 'f', -1, 64))
		b.WriteString("</double>")
	case Base64:
		b.WriteString("<base64>")
		b.WriteString(base64.StdEncoding.EncodeToString(v.bytes))
		b.WriteString("</base64>")
	case DateTime:
		b.WriteString("<dateTime.iso8601>")
		b.WriteString(v.t.Format(iso8601))
		b.WriteString("</dateTime.iso8601>")
	case Array:
		b.WriteString("<array><data>")
		for _, e := range v.list {
			encodeValue(b, e)
		}
		b.WriteString("</data></array>")
	case Struct:
		b.WriteString("<struct>")
		names := make([]string, 0, len(v.fields))
		for name := range v.fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString("<member><name>")
			writeEscaped(b, name)
			b.WriteString("</name>")
			encodeValue(b, v.fields[name])
			b.WriteString("</member>")
		}
		b.WriteString("</struct>")
	}
	b.WriteString("</value>")
}

func writeEscaped(b *strings.Builder, s string) {
	// xml.EscapeText cannot fail on a strings.Builder.
	_ = xml.EscapeText(b, []byte(s))
}
