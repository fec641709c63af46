// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Server: {
	host: string & !=""
	port: int & >0 & <65536
	tags: *[] | [...string]
}
`

type server struct {
	Host string   `json:"host"`
	Port int      `json:"port"`
	Tags []string `json:"tags"`
}

func TestDecode(t *testing.T) {
	doc := `
host: "localhost"
port: 8080
tags: ["a", "b"]
`
	got, err := Decode[server](testSchema, []byte(doc), "#Server", "server.cue")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if got.Host != "localhost" || got.Port != 8080 {
		t.Errorf("Decode() = %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "a" {
		t.Errorf("Tags = %v, want [a b]", got.Tags)
	}
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax error", `host: "x`},
		{"missing required field", `host: "x"`},
		{"constraint violation", `host: "x", port: 0`},
		{"wrong type", `host: 1, port: 8080`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode[server](testSchema, []byte(tt.doc), "#Server", "server.cue")
			if err == nil {
				t.Fatalf("Decode(%q) succeeded, want error", tt.doc)
			}
			if !strings.Contains(err.Error(), "server.cue") {
				t.Errorf("error %q does not carry the filename", err)
			}
		})
	}
}

func TestDecode_BadSchema(t *testing.T) {
	if _, err := Decode[server](`#Server: {`, []byte(`host: "x"`), "#Server", "f.cue"); err == nil {
		t.Error("Decode() with broken schema succeeded")
	}
	if _, err := Decode[server](testSchema, []byte(`host: "x", port: 1`), "#Missing", "f.cue"); err == nil {
		t.Error("Decode() with missing definition path succeeded")
	}
}

func TestFormatError(t *testing.T) {
	if got := FormatError(nil, "f.cue"); got != nil {
		t.Errorf("FormatError(nil) = %v, want nil", got)
	}

	plain := errors.New("boom")
	got := FormatError(plain, "f.cue")
	if got == nil || !strings.Contains(got.Error(), "f.cue") {
		t.Errorf("FormatError() = %v, want the filename prefixed", got)
	}
	if !strings.Contains(got.Error(), "boom") {
		t.Errorf("FormatError() = %v, want the original message kept", got)
	}
}
