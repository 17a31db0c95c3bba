package main

import "testing"

func TestGetVersion(t *testing.T) {
	v := getVersion()
	if v == "" {
		t.Fatal("getVersion() returned empty string")
	}
}
