package bwtgen_test

import (
	"testing"

	"github.com/bebop/fmidx/alphabet"
	"github.com/bebop/fmidx/bwtgen"
	"github.com/bebop/fmidx/suffixarray"
)

func TestBuild(t *testing.T) {
	testTable := []struct {
		text string
		want string
	}{
		{"banana", "annb$aa"},
		{"ALALA", "ALL$AA"},
		{"mississippi", "ipssm$pissii"},
		{"abracadabra", "ard$rcaaaabb"},
	}

	for _, v := range testTable {
		textWithSentinel := append([]byte(v.text), alphabet.Sentinel)
		sa := suffixarray.Build(textWithSentinel)
		got := bwtgen.Build(textWithSentinel, sa)
		if string(got) != v.want {
			t.Errorf("Build(%s$) = %q, want %q", v.text, got, v.want)
		}
	}
}
