package handlerwrapper

import "context"

type HTTPRequestInfo struct {
	URI        string `json:"uri"`
	Method     string `json:"method"` // GET etc.
	Route      string `json:"route"`
	StatusCode int    `json:"status_code"` // response code, like 200, 404
	Size       int64  `json:"size"`        // number of bytes of the response sent
	Duration   int64  `json:"duration"`    // how long did it take to serve, in milliseconds

	Subject   string `json:"subject,omitempty"` // authenticated JWT subject
	Referer   string `json:"referer,omitempty"`
	Ipaddr    string `json:"ipaddr"`
	UserAgent string `json:"user_agent"`
}

type RequestInfoHandler interface {
	Handle(ctx context.Context, ri *HTTPRequestInfo)
}
