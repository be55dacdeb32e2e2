package dto

import "typograph/xmlrpc"

// MediaDTO is the wire shape of a newMediaObject payload.
type MediaDTO struct {
	Name string
	Bits []byte
	Type string
}

// MediaDTOFromValue reads the wire struct of a media upload.
func MediaDTOFromValue(v xmlrpc.Value) MediaDTO {
	var d MediaDTO
	if f, ok := v.Field("name"); ok {
		d.Name = f.AsString()
	}
	if f, ok := v.Field("bits"); ok {
		d.Bits = f.AsBytes()
	}
	if f, ok := v.Field("type"); ok {
		d.Type = f.AsString()
	}
	return d
}

// URLDTO is the result shape of newMediaObject.
type URLDTO struct {
	URL string
}

func (d URLDTO) ToValue() xmlrpc.Value {
	return xmlrpc.NewStruct(map[string]xmlrpc.Value{
		"url": xmlrpc.NewString(d.URL),
	})
}
