package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// MultipartBody is a multipart/form-data request body.
type MultipartBody struct {
	Fields map[string]string
	Files  []FileField
}

// FileField is one file part.
type FileField struct {
	FieldName string
	FileName  string
	// ContentType defaults to application/octet-stream.
	ContentType string
	// Data is used when Reader is nil.
	Data   []byte
	Reader io.Reader
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.Files {
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+quoteEscaper.Replace(f.FieldName)+
			`"; filename="`+quoteEscaper.Replace(f.FileName)+`"`)
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		src := f.Reader
		if src == nil {
			src = bytes.NewReader(f.Data)
		}
		if _, err := io.Copy(part, src); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
