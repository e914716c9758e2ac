package jsonutil

import (
	"strings"
	"testing"
)

func TestUnmarshalWithContext(t *testing.T) {
	type TestStruct struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{
			name:    "valid JSON",
			data:    []byte(`{"name":"test"}`),
			wantErr: false,
		},
		{
			name:    "invalid JSON",
			data:    []byte(`not json`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v TestStruct
			err := UnmarshalWithContext(tt.data, &v, "test context")
			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalWithContext() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && v.Name != "test" {
				t.Errorf("UnmarshalWithContext() v.Name = %q, want %q", v.Name, "test")
			}
		})
	}
}

func TestUnmarshalWithContext_ErrorCarriesContext(t *testing.T) {
	var v map[string]any
	err := UnmarshalWithContext([]byte(`{`), &v, "camera_frame payload")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "camera_frame payload: ") {
		t.Errorf("error %q does not start with context", err)
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		data string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"null", true},
		{" null\n", true},
		{"{}", false},
		{"0", false},
		{`""`, false},
	}
	for _, tt := range tests {
		if got := IsEmpty([]byte(tt.data)); got != tt.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", tt.data, got, tt.want)
		}
	}
}

func TestUnmarshalOptional(t *testing.T) {
	v := struct {
		Connected bool `json:"connected"`
	}{Connected: true}

	if err := UnmarshalOptional(nil, &v, "ctx"); err != nil {
		t.Fatalf("nil data: %v", err)
	}
	if !v.Connected {
		t.Error("nil data should leave v untouched")
	}
	if err := UnmarshalOptional([]byte(`{"connected":false}`), &v, "ctx"); err != nil {
		t.Fatalf("valid data: %v", err)
	}
	if v.Connected {
		t.Error("expected Connected=false after decode")
	}
	if err := UnmarshalOptional([]byte(`[`), &v, "ctx"); err == nil {
		t.Error("expected error for malformed data")
	}
}

func TestMarshalRaw(t *testing.T) {
	raw, err := MarshalRaw(nil)
	if err != nil || raw != nil {
		t.Errorf("MarshalRaw(nil) = %q, %v; want nil, nil", raw, err)
	}
	raw, err = MarshalRaw(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("MarshalRaw: %v", err)
	}
	if string(raw) != `{"a":1}` {
		t.Errorf("MarshalRaw = %s", raw)
	}
	if _, err := MarshalRaw(make(chan int)); err == nil {
		t.Error("expected error for unencodable value")
	}
}
