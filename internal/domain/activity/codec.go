package activity

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/listquery/internal/domain"
	"github.com/kailas-cloud/listquery/internal/validator"
)

// Envelope is the wire form of an activity: its kind plus the variant payload.
type Envelope struct {
	Kind Kind            `json:"kind" yaml:"kind"`
	Data json.RawMessage `json:"data" yaml:"-"`
}

// Decode builds the variant named by kind from its JSON payload and validates it.
func Decode(kind Kind, raw json.RawMessage) (Activity, error) {
	switch kind {
	case KindOrder:
		return decodeAs[Order](raw)
	case KindTicket:
		return decodeAs[Ticket](raw)
	case KindProfileUpdate:
		return decodeAs[ProfileUpdate](raw)
	case KindCampaignTouch:
		return decodeAs[CampaignTouch](raw)
	case KindPayment:
		return decodeAs[Payment](raw)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownActivity, kind)
	}
}

func decodeAs[T Activity](raw json.RawMessage) (Activity, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrInvalidActivity, v.Kind(), err)
	}
	if err := validator.Struct(v); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidActivity, v.Kind(), err)
	}
	return v, nil
}

// Encode wraps a in its wire envelope.
func Encode(a Activity) (Envelope, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s: %w", a.Kind(), err)
	}
	return Envelope{Kind: a.Kind(), Data: data}, nil
}
