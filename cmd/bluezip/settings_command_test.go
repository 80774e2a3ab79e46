package main

import (
	"testing"
)

func TestParseAssignment(t *testing.T) {
	cases := []struct {
		arg        string
		key, value string
		appendMode bool
		wantErr    bool
	}{
		{arg: "archive_extensions=zip,7z", key: "archive_extensions", value: "zip,7z"},
		{arg: "obsolete_exclude+=,*.bak", key: "obsolete_exclude", value: ",*.bak", appendMode: true},
		{arg: "obsolete_threshold=5", key: "obsolete_threshold", value: "5"},
		{arg: "empty_value=", key: "empty_value", value: ""},
		{arg: "novalue", wantErr: true},
		{arg: "=value", wantErr: true},
		{arg: "+=x", wantErr: true},
	}
	for _, tc := range cases {
		key, value, appendMode, err := parseAssignment(tc.arg)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tc.arg)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tc.arg, err)
			continue
		}
		if key != tc.key || value != tc.value || appendMode != tc.appendMode {
			t.Errorf("%q: got (%q, %q, %v)", tc.arg, key, value, appendMode)
		}
	}
}

func TestSettingsListShowsDefaults(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := runCLI(t, "--config", cfgPath, "settings")
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	requireContains(t, out, "archive_extensions")
	requireContains(t, out, "zip,7z")
}
