package payload

import (
	"time"

	"github.com/tdavis6/myqrkit/internal/contract"
)

// DataType selects which Input variant is read and which template is used.
type DataType string

const (
	TypeURL   DataType = "url"
	TypeText  DataType = "text"
	TypePhone DataType = "phone"
	TypeSMS   DataType = "sms"
	TypeEmail DataType = "email"
	TypeWiFi  DataType = "wifi"
	TypeVCard DataType = "vcard"
	TypeGeo   DataType = "geo"
	TypeEvent DataType = "event"
)

var allTypes = []DataType{TypeURL, TypeText, TypePhone, TypeSMS, TypeEmail, TypeWiFi, TypeVCard, TypeGeo, TypeEvent}

// Types returns every supported data type in display order.
func Types() []DataType {
	out := make([]DataType, len(allTypes))
	copy(out, allTypes)
	return out
}

var descriptions = map[DataType][2]string{
	TypeURL:   {"verbatim", "Web address, passed through unchanged"},
	TypeText:  {"verbatim", "Free text, passed through unchanged"},
	TypePhone: {"tel: URI", "Phone number to dial"},
	TypeSMS:   {"SMSTO:", "Text message with recipient and body"},
	TypeEmail: {"mailto: URI", "Email address with percent-encoded body"},
	TypeWiFi:  {"WIFI:", "Network SSID, encryption and password"},
	TypeVCard: {"vCard 3.0", "Contact card with name, phone and email"},
	TypeGeo:   {"geo: / maps: URI", "Coordinates or an address search"},
	TypeEvent: {"iCalendar", "Calendar event with summary, location and times"},
}

// Describe returns the output format name and a one-line summary of t.
func Describe(t DataType) (format, summary string) {
	d := descriptions[t]
	return d[0], d[1]
}

// TypeInfos lists every data type with its format, for `qrkit types` and
// the HTTP types route.
func TypeInfos() []contract.DataTypeInfo {
	out := make([]contract.DataTypeInfo, 0, len(allTypes))
	for _, t := range allTypes {
		format, summary := Describe(t)
		out = append(out, contract.DataTypeInfo{Type: string(t), Format: format, Description: summary})
	}
	return out
}

func (t DataType) Valid() bool {
	for _, v := range allTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Input is one populated variant of the encoder's discriminated record.
type Input interface {
	Type() DataType
}

type URL struct {
	Content string
}

type Text struct {
	Content string
}

type Phone struct {
	Number string
}

type SMS struct {
	Number  string
	Message string
}

type Email struct {
	Address string
	Body    string
}

type Encryption int

const (
	EncryptionOpen Encryption = iota
	EncryptionWEP
	EncryptionWPA
)

// Token is the T: value of a Wi-Fi config string.
func (e Encryption) Token() string {
	switch e {
	case EncryptionWEP:
		return "WEP"
	case EncryptionWPA:
		return "WPA"
	default:
		return "nopass"
	}
}

func (e Encryption) String() string {
	switch e {
	case EncryptionWEP:
		return "wep"
	case EncryptionWPA:
		return "wpa"
	default:
		return "open"
	}
}

type WiFi struct {
	SSID       string
	Encryption Encryption
	Password   string
}

type VCard struct {
	Name  string
	Phone string
	Email string
}

type GeoMode int

const (
	GeoCoordinates GeoMode = iota
	GeoAddress
)

func (m GeoMode) String() string {
	if m == GeoAddress {
		return "address"
	}
	return "coordinates"
}

// Geo reads Latitude/Longitude or Address depending on Mode; the other
// fields are ignored.
type Geo struct {
	Mode      GeoMode
	Address   string
	Latitude  string
	Longitude string
}

type Event struct {
	Summary  string
	Location string
	Start    time.Time
	End      time.Time
}

func (URL) Type() DataType   { return TypeURL }
func (Text) Type() DataType  { return TypeText }
func (Phone) Type() DataType { return TypePhone }
func (SMS) Type() DataType   { return TypeSMS }
func (Email) Type() DataType { return TypeEmail }
func (WiFi) Type() DataType  { return TypeWiFi }
func (VCard) Type() DataType { return TypeVCard }
func (Geo) Type() DataType   { return TypeGeo }
func (Event) Type() DataType { return TypeEvent }

// Zero returns the empty record for t, or nil when t is unknown.
func Zero(t DataType) Input {
	switch t {
	case TypeURL:
		return URL{}
	case TypeText:
		return Text{}
	case TypePhone:
		return Phone{}
	case TypeSMS:
		return SMS{}
	case TypeEmail:
		return Email{}
	case TypeWiFi:
		return WiFi{}
	case TypeVCard:
		return VCard{}
	case TypeGeo:
		return Geo{}
	case TypeEvent:
		return Event{}
	default:
		return nil
	}
}
