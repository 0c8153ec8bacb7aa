package signing

import "net/http"

// Transport is an http.RoundTripper that signs every outbound request with
// the client secret. OPTIONS preflight requests pass through untouched
// because the server never requires signing headers on them.
type Transport struct {
	// Secret is the shared client secret used to key signatures.
	Secret string

	// Base performs the actual round trip. nil means http.DefaultTransport.
	Base http.RoundTripper
}

// RoundTrip attaches the three signing headers and forwards the request
// otherwise unchanged. The incoming request is cloned, per the
// http.RoundTripper contract.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method == http.MethodOptions {
		return t.base().RoundTrip(req)
	}

	h, err := NewHeaders(t.Secret)
	if err != nil {
		return nil, err
	}

	signed := req.Clone(req.Context())
	signed.Header.Set(HeaderNonce, h.Nonce)
	signed.Header.Set(HeaderTimestamp, h.Timestamp)
	signed.Header.Set(HeaderSignature, h.Signature)

	return t.base().RoundTrip(signed)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
