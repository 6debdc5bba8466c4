package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/tdavis6/myqrkit/internal/contract"
	"github.com/tdavis6/myqrkit/internal/output"
	"github.com/tdavis6/myqrkit/internal/payload"
	"github.com/tdavis6/myqrkit/internal/timeparse"
)

func newEncodeCmd(opts *globalOptions) *cobra.Command {
	encode := &cobra.Command{Use: "encode", Short: "Encode input into QR payload text"}
	encode.AddCommand(
		newContentCmd(opts, payload.TypeURL, "url <content|->", "Encode a URL verbatim"),
		newContentCmd(opts, payload.TypeText, "text <content|->", "Encode free text verbatim"),
		newPhoneCmd(opts),
		newSMSCmd(opts),
		newEmailCmd(opts),
		newWiFiCmd(opts),
		newVCardCmd(opts),
		newGeoCmd(opts),
		newEventCmd(opts),
		newEncodeFileCmd(opts),
	)
	return encode
}

func newContentCmd(opts *globalOptions, t payload.DataType, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ro, err := buildContext(cmd, opts, "encode."+string(t))
			if err != nil {
				return err
			}
			content := args[0]
			if content == "-" {
				content, err = readTextInput(cmd.InOrStdin(), "-")
				if err != nil {
					return failWithHint(p, contract.ErrInvalidUsage, err, "Pipe content on stdin or pass it as an argument", exitInvalidUsage)
				}
			}
			var in payload.Input = payload.Text{Content: content}
			if t == payload.TypeURL {
				in = payload.URL{Content: content}
			}
			return emitPayload(cmd, p, ro, in, nil)
		},
	}
}

func newPhoneCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "phone <number>",
		Short: "Encode a tel: URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ro, err := buildContext(cmd, opts, "encode.phone")
			if err != nil {
				return err
			}
			return emitPayload(cmd, p, ro, payload.Phone{Number: args[0]}, nil)
		},
	}
}

func newSMSCmd(opts *globalOptions) *cobra.Command {
	var number, message string
	cmd := &cobra.Command{
		Use:   "sms",
		Short: "Encode an SMSTO: message",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ro, err := buildContext(cmd, opts, "encode.sms")
			if err != nil {
				return err
			}
			return emitPayload(cmd, p, ro, payload.SMS{Number: number, Message: message}, nil)
		},
	}
	cmd.Flags().StringVar(&number, "number", "", "Recipient phone number")
	cmd.Flags().StringVar(&message, "message", "", "Message body")
	return cmd
}

func newEmailCmd(opts *globalOptions) *cobra.Command {
	var address, body string
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Encode a mailto: URI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ro, err := buildContext(cmd, opts, "encode.email")
			if err != nil {
				return err
			}
			return emitPayload(cmd, p, ro, payload.Email{Address: address, Body: body}, nil)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "Recipient address")
	cmd.Flags().StringVar(&body, "body", "", "Message body")
	return cmd
}

func newWiFiCmd(opts *globalOptions) *cobra.Command {
	var ssid, encryption, password string
	cmd := &cobra.Command{
		Use:   "wifi",
		Short: "Encode a Wi-Fi network config string",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ro, err := buildContext(cmd, opts, "encode.wifi")
			if err != nil {
				return err
			}
			enc, err := payload.ParseEncryption(encryption)
			if err != nil {
				return failWithHint(p, contract.ErrInvalidUsage, err, "Use --encryption open, wep or wpa", exitInvalidUsage)
			}
			if enc == payload.EncryptionOpen && password != "" {
				return failWithHint(p, contract.ErrInvalidUsage, errors.New("--password is not used with an open network"), "Drop --password or pick --encryption wep|wpa", exitInvalidUsage)
			}
			return emitPayload(cmd, p, ro, payload.WiFi{SSID: ssid, Encryption: enc, Password: password}, nil)
		},
	}
	cmd.Flags().StringVar(&ssid, "ssid", "", "Network name")
	cmd.Flags().StringVar(&encryption, "encryption", "wpa", "Encryption: open|wep|wpa")
	cmd.Flags().StringVar(&password, "password", "", "Network password")
	return cmd
}

func newVCardCmd(opts *globalOptions) *cobra.Command {
	var name, phone, email string
	cmd := &cobra.Command{
		Use:   "vcard",
		Short: "Encode a vCard 3.0 contact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ro, err := buildContext(cmd, opts, "encode.vcard")
			if err != nil {
				return err
			}
			return emitPayload(cmd, p, ro, payload.VCard{Name: name, Phone: phone, Email: email}, nil)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	return cmd
}

func newGeoCmd(opts *globalOptions) *cobra.Command {
	var mode, address, lat, lon string
	cmd := &cobra.Command{
		Use:   "geo",
		Short: "Encode coordinates (geo:) or an address search (maps:)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ro, err := buildContext(cmd, opts, "encode.geo")
			if err != nil {
				return err
			}
			in, err := payload.Form{Type: payload.TypeGeo, Mode: mode, Address: address, Latitude: lat, Longitude: lon}.Input()
			if err != nil {
				return failWithHint(p, contract.ErrInvalidUsage, err, "Use --mode coordinates|address", exitInvalidUsage)
			}
			return emitPayload(cmd, p, ro, in, nil)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "coordinates|address (default: coordinates when --lat/--lon are set)")
	cmd.Flags().StringVar(&address, "address", "", "Address or place query")
	cmd.Flags().StringVar(&lat, "lat", "", "Latitude, inserted as given")
	cmd.Flags().StringVar(&lon, "lon", "", "Longitude, inserted as given")
	return cmd
}

func newEventCmd(opts *globalOptions) *cobra.Command {
	var summary, location, startS, endS, durationS string
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Encode an iCalendar event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ro, err := buildContext(cmd, opts, "encode.event")
			if err != nil {
				return err
			}
			loc, err := loadLocation(ro.TZ)
			if err != nil {
				return failWithHint(p, contract.ErrInvalidUsage, err, "Use an IANA zone name such as Europe/Athens", exitInvalidUsage)
			}
			now := time.Now()
			start, err := timeparse.ParseDateTime(startS, now, loc)
			if err != nil {
				return failWithHint(p, contract.ErrInvalidUsage, fmt.Errorf("invalid --start: %w", err), "Use RFC3339, YYYY-MM-DD HH:MM, or relative values like +2h", exitInvalidUsage)
			}
			end, err := resolveEnd(endS, durationS, start, now, loc)
			if err != nil {
				return failWithHint(p, contract.ErrInvalidUsage, err, "Use either --end or --duration", exitInvalidUsage)
			}
			ev, warnings := clampEvent(payload.Event{Summary: summary, Location: location, Start: start, End: end})
			return emitPayload(cmd, p, ro, ev, warnings)
		},
	}
	cmd.Flags().StringVar(&summary, "summary", "", "Event title")
	cmd.Flags().StringVar(&location, "location", "", "Event location")
	cmd.Flags().StringVar(&startS, "start", "now", "Start time")
	cmd.Flags().StringVar(&endS, "end", "", "End time (default start+1h)")
	cmd.Flags().StringVar(&durationS, "duration", "", "Duration, e.g. 90m")
	return cmd
}

func newEncodeFileCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "file <path|->",
		Short: "Encode a form record from a TOML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ro, err := buildContext(cmd, opts, "encode.file")
			if err != nil {
				return err
			}
			raw, err := readTextInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return failWithHint(p, contract.ErrInvalidUsage, err, "Check the file path or stdin data", exitInvalidUsage)
			}
			loc, err := loadLocation(ro.TZ)
			if err != nil {
				return failWithHint(p, contract.ErrInvalidUsage, err, "Use an IANA zone name such as Europe/Athens", exitInvalidUsage)
			}
			form, err := decodeForm(args[0], raw, loc)
			if err != nil {
				return failWithHint(p, contract.ErrInvalidUsage, err, "Files ending in .json are read as JSON, everything else as TOML", exitInvalidUsage)
			}
			in, err := form.Input()
			if err != nil {
				return failWithHint(p, contract.ErrInvalidUsage, err, "Run `qrkit types` for the supported types", exitInvalidUsage)
			}
			var warnings []string
			if ev, ok := in.(payload.Event); ok {
				in, warnings = clampEvent(ev)
			}
			p.Command = "encode." + string(in.Type())
			return emitPayload(cmd, p, ro, in, warnings)
		},
	}
}

// decodeForm reads JSON when path ends in .json and TOML otherwise. TOML
// local dates and datetimes carry no zone; they are read in loc.
func decodeForm(path, raw string, loc *time.Location) (payload.Form, error) {
	var form payload.Form
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal([]byte(raw), &form); err != nil {
			return payload.Form{}, fmt.Errorf("invalid JSON form: %w", err)
		}
		return form, nil
	}
	if err := toml.Unmarshal([]byte(raw), &form); err != nil {
		return payload.Form{}, fmt.Errorf("invalid TOML form: %w", err)
	}
	var times struct {
		Start any `toml:"start"`
		End   any `toml:"end"`
	}
	if err := toml.Unmarshal([]byte(raw), &times); err != nil {
		return payload.Form{}, fmt.Errorf("invalid TOML form: %w", err)
	}
	form.Start = anchorLocal(times.Start, form.Start, loc)
	form.End = anchorLocal(times.End, form.End, loc)
	return form, nil
}

func anchorLocal(raw any, decoded time.Time, loc *time.Location) time.Time {
	switch v := raw.(type) {
	case toml.LocalDateTime:
		return v.AsTime(loc)
	case toml.LocalDate:
		return v.AsTime(loc)
	default:
		return decoded
	}
}

func clampEvent(ev payload.Event) (payload.Event, []string) {
	end := payload.ClampEventEnd(ev.Start, ev.End)
	if end.Equal(ev.End) {
		return ev, nil
	}
	var warnings []string
	if !ev.End.IsZero() {
		warnings = append(warnings, fmt.Sprintf("end moved to %s (events last at least %s)", end.Format(time.RFC3339), payload.MinEventDuration))
	}
	ev.End = end
	return ev, warnings
}

func resolveEnd(endS, durationS string, start, now time.Time, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(endS) != "" && strings.TrimSpace(durationS) != "" {
		return time.Time{}, fmt.Errorf("use either --end or --duration, not both")
	}
	if strings.TrimSpace(endS) != "" {
		end, err := timeparse.ParseDateTime(endS, now, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --end: %w", err)
		}
		return end, nil
	}
	if strings.TrimSpace(durationS) != "" {
		d, err := time.ParseDuration(durationS)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --duration: %w", err)
		}
		if d <= 0 {
			return time.Time{}, fmt.Errorf("--duration must be positive")
		}
		return start.Add(d), nil
	}
	return start.Add(payload.MinEventDuration), nil
}

func loadLocation(tz string) (*time.Location, error) {
	if strings.TrimSpace(tz) == "" {
		return time.Local, nil
	}
	return time.LoadLocation(strings.TrimSpace(tz))
}

func emitPayload(cmd *cobra.Command, p output.Printer, ro *globalOptions, in payload.Input, warnings []string) error {
	level, err := payload.ParseECLevel(ro.ECLevel)
	if err != nil {
		return failWithHint(p, contract.ErrInvalidUsage, err, "Use --ec-level L, M, Q or H", exitInvalidUsage)
	}
	out := newEncoder().Encode(in)
	if err := payload.CheckCapacity(out, level); err != nil {
		return failWithHint(p, contract.ErrPayloadTooLarge, err, "Shorten the input or lower --ec-level", exitPayloadTooLarge)
	}
	if !ro.NoHistory {
		if herr := recordHistory(cmd.Context(), ro, in.Type(), out); herr != nil {
			warnings = append(warnings, "history not recorded: "+herr.Error())
		}
	}
	if ro.Verbose {
		_, _ = fmt.Fprintf(p.Err, "qrkit: type=%s bytes=%d capacity=%d ec_level=%s\n", in.Type(), len(out), payload.Capacity(level), level)
	}
	if p.EffectiveSuccessMode() == output.ModeJSON {
		res := contract.Payload{
			Type:    string(in.Type()),
			Payload: out,
			Bytes:   len(out),
			Size:    humanize.Bytes(uint64(len(out))),
		}
		meta := map[string]any{"ec_level": string(level), "capacity": payload.Capacity(level)}
		return p.Success(res, meta, warnings)
	}
	if !p.Quiet {
		for _, w := range warnings {
			_, _ = fmt.Fprintf(p.Err, "warning: %s\n", w)
		}
	}
	return p.Raw(out)
}

func recordHistory(ctx context.Context, ro *globalOptions, t payload.DataType, out string) error {
	store, err := openHistory(ro)
	if err != nil || store == nil {
		return err
	}
	defer store.Close()
	if ctx == nil {
		ctx = context.Background()
	}
	_, err = store.Record(ctx, string(t), out)
	return err
}
