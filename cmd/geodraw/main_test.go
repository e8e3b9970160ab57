package main

import "testing"

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantLoad string
		wantConf string
		wantCode int
		wantDone bool
	}{
		{name: "empty", args: nil},
		{name: "long", args: []string{"--config", "g.yaml", "--load", "a.geojson"}, wantLoad: "a.geojson", wantConf: "g.yaml"},
		{name: "shorthand", args: []string{"-c", "g.toml", "-l", "b.geojson"}, wantLoad: "b.geojson", wantConf: "g.toml"},
		{name: "positional", args: []string{"c.geojson"}, wantLoad: "c.geojson"},
		{name: "flag wins over positional", args: []string{"-l", "d.geojson", "e.geojson"}, wantLoad: "d.geojson"},
		{name: "bad level", args: []string{"--log-level", "loud"}, wantCode: 1, wantDone: true},
		{name: "unknown flag", args: []string{"--nope"}, wantCode: 2, wantDone: true},
		{name: "help", args: []string{"-h"}, wantDone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, code, done := parseFlags(tt.args)
			if done != tt.wantDone || code != tt.wantCode {
				t.Fatalf("parseFlags() code, done = %d, %v; want %d, %v", code, done, tt.wantCode, tt.wantDone)
			}
			if done {
				return
			}
			if opts.LoadPath != tt.wantLoad {
				t.Errorf("LoadPath = %q, want %q", opts.LoadPath, tt.wantLoad)
			}
			if opts.ConfigPath != tt.wantConf {
				t.Errorf("ConfigPath = %q, want %q", opts.ConfigPath, tt.wantConf)
			}
		})
	}
}
