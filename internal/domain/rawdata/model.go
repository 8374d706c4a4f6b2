package rawdata

import "time"

// Payload keeps the undecoded response body next to its normalized form for diagnostics.
type Payload struct {
	Endpoint   string    `json:"endpoint"`
	RequestKey string    `json:"request_key"`
	Body       string    `json:"-"`
	FetchedAt  time.Time `json:"fetched_at"`
}

func New(endpoint, requestKey string, body []byte) Payload {
	return Payload{
		Endpoint:   endpoint,
		RequestKey: requestKey,
		Body:       string(body),
		FetchedAt:  time.Now().UTC(),
	}
}

// JSON returns the raw body exactly as received.
func (p Payload) JSON() []byte {
	return []byte(p.Body)
}
