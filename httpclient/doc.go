// Package httpclient is the outbound HTTP client used for audio uploads and
// sidecar calls. It resolves paths against a base URL, encodes JSON and
// multipart bodies, reads the full response and classifies failures into
// *Error values.
//
//	client, _ := httpclient.New(httpclient.Config{BaseURL: "http://localhost:8000"})
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/speak",
//	    Body: &httpclient.MultipartBody{Files: []httpclient.FileField{{
//	        FieldName: "audio_file", FileName: "audio.wav",
//	        ContentType: "audio/wav", Reader: f,
//	    }}},
//	})
//
// There is no retry: one request is sent per Do.
package httpclient
