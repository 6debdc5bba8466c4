package payload

import "testing"

func TestTypeInfos(t *testing.T) {
	infos := TypeInfos()
	if len(infos) != len(Types()) {
		t.Fatalf("TypeInfos() has %d entries, want %d", len(infos), len(Types()))
	}
	for i, dt := range Types() {
		if infos[i].Type != string(dt) {
			t.Fatalf("entry %d = %s, want %s", i, infos[i].Type, dt)
		}
		if infos[i].Format == "" || infos[i].Description == "" {
			t.Fatalf("entry %s missing format or description: %+v", dt, infos[i])
		}
	}
}
