package vnres

import (
	"bytes"
	"math"
	"strconv"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

type matchListEnvelope struct {
	Code int                      `json:"code"`
	Data []sonic.NoCopyRawMessage `json:"data"`
}

type matchItem struct {
	HostName    flexString  `json:"hostName"`
	HostIcon    flexString  `json:"hostIcon"`
	GuestName   flexString  `json:"guestName"`
	GuestIcon   flexString  `json:"guestIcon"`
	MatchTime   flexNumber  `json:"matchTime"`
	HomeScore   flexString  `json:"homeScore"`
	AwayScore   flexString  `json:"awayScore"`
	SubCateName flexString  `json:"subCateName"`
	CategoryID  flexString  `json:"categoryId"`
	Anchors     []anchorRef `json:"anchors"`
}

type anchorRef struct {
	Anchor struct {
		RoomNum flexString `json:"roomNum"`
	} `json:"anchor"`
}

type roomDetailEnvelope struct {
	Code int `json:"code"`
	Data struct {
		Stream *struct {
			M3U8   string `json:"m3u8"`
			HDM3U8 string `json:"hdM3u8"`
		} `json:"stream"`
	} `json:"data"`
}

// flexString holds a value the provider sends either as a string or as a
// bare number. null and absent leave it unset.
type flexString struct {
	value string
	set   bool
}

func (f *flexString) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		*f = flexString{}
	case raw[0] == '"':
		var s string
		if err := sonic.Unmarshal(raw, &s); err != nil {
			return crerr.Wrap(err, "decode string field")
		}
		*f = flexString{value: s, set: true}
	case bytes.Equal(raw, []byte("true")) || bytes.Equal(raw, []byte("false")):
		*f = flexString{value: string(raw), set: true}
	default:
		n, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return crerr.Wrapf(err, "decode field %.32q", raw)
		}
		*f = flexString{value: strconv.FormatFloat(n, 'f', -1, 64), set: true}
	}
	return nil
}

func (f flexString) Ptr() *string {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}

// flexNumber accepts a JSON number or a numeric string. null and absent
// leave it unset.
type flexNumber struct {
	value float64
	set   bool
}

func (f *flexNumber) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*f = flexNumber{}
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := sonic.Unmarshal(raw, &s); err != nil {
			return crerr.Wrap(err, "decode numeric string")
		}
		raw = []byte(s)
	}

	n, err := strconv.ParseFloat(string(bytes.TrimSpace(raw)), 64)
	if err != nil {
		return crerr.Wrapf(err, "decode number %.32q", raw)
	}
	*f = flexNumber{value: n, set: true}
	return nil
}

func (f flexNumber) Floor() int64 {
	return int64(math.Floor(f.value))
}
