// Package payload turns structured QR form input into the text that gets
// embedded in the symbol: URI schemes, Wi-Fi config strings, vCard 3.0 and
// iCalendar blocks.
package payload

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	icsTimeLayout = "20060102T150405Z"
	icsProdID     = "-//QR Code Generator//EN"
	icsUIDDomain  = "qrcodegenerator"
)

// Encoder is safe for concurrent use as long as its providers are.
type Encoder struct {
	now     func() time.Time
	newUUID func() string
}

type Option func(*Encoder)

func WithClock(now func() time.Time) Option {
	return func(e *Encoder) {
		if now != nil {
			e.now = now
		}
	}
}

func WithUUID(fn func() string) Option {
	return func(e *Encoder) {
		if fn != nil {
			e.newUUID = fn
		}
	}
}

func New(opts ...Option) *Encoder {
	e := &Encoder{now: time.Now, newUUID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEncoder = New()

// Encode uses the wall clock and random UUIDs.
func Encode(in Input) string {
	return defaultEncoder.Encode(in)
}

// Encode never fails: empty fields give a well-formed but empty payload and
// a nil or unknown input gives "". Pointer variants encode like their values.
func (e *Encoder) Encode(in Input) string {
	switch v := deref(in).(type) {
	case URL:
		return v.Content
	case Text:
		return v.Content
	case Phone:
		return "tel:" + v.Number
	case SMS:
		return "SMSTO:" + v.Number + ":" + v.Message
	case Email:
		return "mailto:" + v.Address + "?body=" + PercentEncode(v.Body)
	case WiFi:
		return "WIFI:S:" + v.SSID + ";T:" + v.Encryption.Token() + ";P:" + v.Password + ";;"
	case VCard:
		return buildVCard(v)
	case Geo:
		if v.Mode == GeoAddress {
			return "maps:?q=" + PercentEncode(v.Address)
		}
		return "geo:" + v.Latitude + "," + v.Longitude
	case Event:
		return e.buildICS(v)
	default:
		return ""
	}
}

// deref unwraps pointer variants; a nil pointer becomes a nil Input.
func deref(in Input) Input {
	switch v := in.(type) {
	case *URL:
		if v != nil {
			return *v
		}
	case *Text:
		if v != nil {
			return *v
		}
	case *Phone:
		if v != nil {
			return *v
		}
	case *SMS:
		if v != nil {
			return *v
		}
	case *Email:
		if v != nil {
			return *v
		}
	case *WiFi:
		if v != nil {
			return *v
		}
	case *VCard:
		if v != nil {
			return *v
		}
	case *Geo:
		if v != nil {
			return *v
		}
	case *Event:
		if v != nil {
			return *v
		}
	default:
		return in
	}
	return nil
}

func buildVCard(v VCard) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\n")
	b.WriteString("VERSION:3.0\n")
	b.WriteString("FN:" + v.Name + "\n")
	b.WriteString("TEL:" + v.Phone + "\n")
	b.WriteString("EMAIL:" + v.Email + "\n")
	b.WriteString("END:VCARD\n")
	return b.String()
}

func (e *Encoder) buildICS(v Event) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:" + icsProdID + "\r\n")
	b.WriteString("BEGIN:VEVENT\r\n")
	b.WriteString("UID:" + e.newUUID() + "@" + icsUIDDomain + "\r\n")
	b.WriteString("DTSTAMP:" + FormatICSTime(e.now()) + "\r\n")
	b.WriteString("DTSTART:" + FormatICSTime(v.Start) + "\r\n")
	b.WriteString("DTEND:" + FormatICSTime(v.End) + "\r\n")
	b.WriteString("SUMMARY:" + v.Summary + "\r\n")
	b.WriteString("LOCATION:" + v.Location + "\r\n")
	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

// FormatICSTime renders t in UTC basic format, e.g. 20260220T090000Z.
func FormatICSTime(t time.Time) string {
	return t.UTC().Format(icsTimeLayout)
}

// ParseICSTime is the inverse of FormatICSTime.
func ParseICSTime(s string) (time.Time, error) {
	return time.Parse(icsTimeLayout, strings.TrimSpace(s))
}
