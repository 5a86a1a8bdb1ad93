package model

import "encoding/base64"

// Avatar is a generated preview image for one handle.
type Avatar struct {
	Handle   string
	MIMEType string
	Data     []byte
}

// DataURI embeds the image as a data URI.
func (x *Avatar) DataURI() string {
	return "data:" + x.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(x.Data)
}
