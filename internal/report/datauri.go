package report

import "encoding/base64"

// DataURI embeds data in a data: URL so the result page can offer it as a
// download without storing it server side.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
