package payload

import (
	"fmt"
	"strings"
	"time"
)

// Form is the flat wire shape of an Input, as read from TOML files and HTTP
// request bodies. Type selects which fields matter.
type Form struct {
	Type       DataType  `json:"type" toml:"type"`
	Content    string    `json:"content,omitempty" toml:"content"`
	Number     string    `json:"number,omitempty" toml:"number"`
	Message    string    `json:"message,omitempty" toml:"message"`
	Address    string    `json:"address,omitempty" toml:"address"`
	Body       string    `json:"body,omitempty" toml:"body"`
	SSID       string    `json:"ssid,omitempty" toml:"ssid"`
	Encryption string    `json:"encryption,omitempty" toml:"encryption"`
	Password   string    `json:"password,omitempty" toml:"password"`
	Name       string    `json:"name,omitempty" toml:"name"`
	Phone      string    `json:"phone,omitempty" toml:"phone"`
	Email      string    `json:"email,omitempty" toml:"email"`
	Mode       string    `json:"mode,omitempty" toml:"mode"`
	Latitude   string    `json:"latitude,omitempty" toml:"latitude"`
	Longitude  string    `json:"longitude,omitempty" toml:"longitude"`
	Summary    string    `json:"summary,omitempty" toml:"summary"`
	Location   string    `json:"location,omitempty" toml:"location"`
	Start      time.Time `json:"start" toml:"start"`
	End        time.Time `json:"end" toml:"end"`
}

// Input converts f to its typed variant. It does not apply ClampEventEnd.
func (f Form) Input() (Input, error) {
	t := DataType(strings.ToLower(strings.TrimSpace(string(f.Type))))
	if t == "" {
		return nil, fmt.Errorf("missing data type")
	}
	if !t.Valid() {
		return nil, fmt.Errorf("unknown data type: %s", f.Type)
	}
	switch t {
	case TypeURL:
		return URL{Content: f.Content}, nil
	case TypeText:
		return Text{Content: f.Content}, nil
	case TypePhone:
		return Phone{Number: f.Number}, nil
	case TypeSMS:
		return SMS{Number: f.Number, Message: f.Message}, nil
	case TypeEmail:
		return Email{Address: f.Address, Body: f.Body}, nil
	case TypeWiFi:
		enc, err := ParseEncryption(f.Encryption)
		if err != nil {
			return nil, err
		}
		return WiFi{SSID: f.SSID, Encryption: enc, Password: f.Password}, nil
	case TypeVCard:
		return VCard{Name: f.Name, Phone: f.Phone, Email: f.Email}, nil
	case TypeGeo:
		mode, err := resolveGeoMode(f.Mode, f.Latitude, f.Longitude)
		if err != nil {
			return nil, err
		}
		return Geo{Mode: mode, Address: f.Address, Latitude: f.Latitude, Longitude: f.Longitude}, nil
	}
	return Event{Summary: f.Summary, Location: f.Location, Start: f.Start, End: f.End}, nil
}

func ParseEncryption(v string) (Encryption, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "open", "none", "nopass":
		return EncryptionOpen, nil
	case "wep":
		return EncryptionWEP, nil
	case "wpa", "wpa2", "wpa3":
		return EncryptionWPA, nil
	default:
		return EncryptionOpen, fmt.Errorf("invalid encryption: %s", v)
	}
}

func ParseGeoMode(v string) (GeoMode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "coordinates", "coords", "latlon":
		return GeoCoordinates, nil
	case "address", "query":
		return GeoAddress, nil
	default:
		return GeoCoordinates, fmt.Errorf("invalid geo mode: %s", v)
	}
}

func resolveGeoMode(mode, lat, lon string) (GeoMode, error) {
	if strings.TrimSpace(mode) != "" {
		return ParseGeoMode(mode)
	}
	if strings.TrimSpace(lat) != "" || strings.TrimSpace(lon) != "" {
		return GeoCoordinates, nil
	}
	return GeoAddress, nil
}
