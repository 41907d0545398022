package telnet

import (
	"bytes"
	"testing"

	"pgregory.net/rapid"
)

func TestFilterIAC(t *testing.T) {
	cases := []struct {
		name  string
		input []byte
		want  []byte
	}{
		{"plain text", []byte("hello"), []byte("hello")},
		{"will command", []byte{'a', IAC, WILL, OptEcho, 'b'}, []byte("ab")},
		{"wont command", []byte{'a', IAC, WONT, OptEcho, 'b'}, []byte("ab")},
		{"do command", []byte{'a', IAC, DO, OptLinemode, 'b'}, []byte("ab")},
		{"dont command", []byte{'a', IAC, DONT, OptLinemode, 'b'}, []byte("ab")},
		{"sub-negotiation", []byte{'a', IAC, SB, OptLinemode, 1, 2, 3, IAC, SE, 'b'}, []byte("ab")},
		{"escaped IAC", []byte{'a', IAC, IAC, 'b'}, []byte{'a', IAC, 'b'}},
		{"nop", []byte{'a', IAC, NOP, 'b'}, []byte("ab")},
		{"go ahead", []byte{'a', IAC, GA, 'b'}, []byte("ab")},
		{
			"back-to-back commands",
			[]byte{IAC, WILL, OptEcho, IAC, DO, OptSuppressGoAhead, 'h', 'i'},
			[]byte("hi"),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterIAC(tc.input)
			if !bytes.Equal(got, tc.want) {
				t.Errorf("FilterIAC(%v) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestPropertyFilterIAC_CleanInputPassesThrough(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.SliceOf(rapid.ByteRange(0, 239)).Draw(t, "input")
		got := FilterIAC(input)
		if !bytes.Equal(got, input) {
			t.Fatalf("input without IAC was altered: in=%v out=%v", input, got)
		}
	})
}

func TestPropertyFilterIAC_NeverGrows(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.SliceOf(rapid.Byte()).Draw(t, "input")
		got := FilterIAC(input)
		if len(got) > len(input) {
			t.Fatalf("output longer than input: %d > %d", len(got), len(input))
		}
	})
}

func TestPropertyFilterIAC_StripsNegotiation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// Text interleaved with well-formed two-byte option commands.
		text := rapid.SliceOfN(rapid.ByteRange('a', 'z'), 1, 8).Draw(t, "text")
		cmd := rapid.SampledFrom([]byte{WILL, WONT, DO, DONT}).Draw(t, "cmd")
		opt := rapid.SampledFrom([]byte{OptEcho, OptSuppressGoAhead, OptLinemode}).Draw(t, "opt")

		input := append([]byte{IAC, cmd, opt}, text...)
		got := FilterIAC(input)
		if !bytes.Equal(got, text) {
			t.Fatalf("negotiation not stripped: in=%v out=%v want=%v", input, got, text)
		}
	})
}
