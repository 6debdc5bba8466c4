package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/tdavis6/myqrkit/internal/contract"
)

func TestSchemaVersionDefault(t *testing.T) {
	p := Printer{}
	if p.schemaVersion() != contract.SchemaVersion {
		t.Fatalf("expected default schema version %q", contract.SchemaVersion)
	}
}

func TestFlattenWithFields(t *testing.T) {
	e := contract.HistoryEntry{
		ID:   "abc",
		Type: "wifi",
		At:   time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC),
	}
	got := flatten(e, []string{"id", "type"})
	if got != "abc\twifi" {
		t.Fatalf("unexpected flatten result: %q", got)
	}
}

func TestRawIsByteExactOffTerminal(t *testing.T) {
	var out bytes.Buffer
	p := Printer{Out: &out}
	if err := p.Raw("tel:123"); err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	if out.String() != "tel:123" {
		t.Fatalf("unexpected raw output: %q", out.String())
	}
}

func TestSuccessJSONEnvelope(t *testing.T) {
	var out bytes.Buffer
	p := Printer{Mode: ModeJSON, Command: "encode.phone", Out: &out}
	if err := p.Success(contract.Payload{Type: "phone", Payload: "tel:1", Bytes: 5}, map[string]any{"count": 1}, nil); err != nil {
		t.Fatalf("Success failed: %v", err)
	}
	var env struct {
		Command string           `json:"command"`
		Data    contract.Payload `json:"data"`
	}
	if err := json.Unmarshal(out.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Command != "encode.phone" || env.Data.Payload != "tel:1" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestErrorPlainWithHint(t *testing.T) {
	var errOut bytes.Buffer
	p := Printer{Err: &errOut}
	_ = p.Error(contract.ErrInvalidUsage, "bad", "try again")
	if got := errOut.String(); !strings.Contains(got, "error: bad\nhint: try again") {
		t.Fatalf("unexpected error output: %q", got)
	}
}
