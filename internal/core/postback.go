package core

import (
	"fmt"
	"net/url"
)

// Postback actions carried in button data.
const (
	PostbackStartChange   = "startChange"
	PostbackSetReminder   = "setReminder"
	PostbackClearReminder = "clearReminder"
)

// Postback is decoded button data of the form action=…&key=value.
type Postback struct {
	Action string
	Values url.Values
}

func (p Postback) Get(key string) string {
	return p.Values.Get(key)
}

func ParsePostback(data string) (Postback, error) {
	values, err := url.ParseQuery(data)
	if err != nil {
		return Postback{}, fmt.Errorf("failed to parse postback: %w", err)
	}
	action := values.Get("action")
	if action == "" {
		return Postback{}, fmt.Errorf("postback %q has no action", data)
	}
	values.Del("action")
	return Postback{Action: action, Values: values}, nil
}

func EncodePostback(action string, kv ...string) string {
	values := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		values.Set(kv[i], kv[i+1])
	}
	q := values.Encode()
	if q == "" {
		return "action=" + action
	}
	return "action=" + action + "&" + q
}
