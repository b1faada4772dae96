package core

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestAndrAddrClassify(t *testing.T) {
	concrete, err := ParseAddress("0x0102030405060708090a0b0c0d0e0f1011121314")
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}

	cases := []struct {
		addr AndrAddr
		want PathKind
	}{
		{AndrAddr(concrete.Hex()), KindConcrete},
		{"./sibling", KindLocalApp},
		{"/home/alice/app/comp", KindVFSAbsolute},
		{"/lib/oracle", KindVFSAbsolute},
		{"ibc://osmosis/home/alice/app/comp", KindCrossChain},
	}
	for _, c := range cases {
		if got := c.addr.Classify(); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.addr, got, c.want)
		}
	}
}

func TestAndrAddrSplitCrossChain(t *testing.T) {
	chain, path, ok := AndrAddr("ibc://osmosis/home/alice/app").SplitCrossChain()
	if !ok {
		t.Fatalf("expected ok")
	}
	if chain != "osmosis" || path != "home/alice/app" {
		t.Fatalf("got chain=%q path=%q", chain, path)
	}

	if _, _, ok := AndrAddr("/home/alice").SplitCrossChain(); ok {
		t.Fatalf("expected SplitCrossChain to fail for a non-ibc path")
	}
}

func TestComponentAndUsernameRegexes(t *testing.T) {
	if !ComponentNameRe().MatchString("my-component_1.2") {
		t.Fatalf("expected component name to match")
	}
	if ComponentNameRe().MatchString("") {
		t.Fatalf("empty component name must not match")
	}
	if !UsernameRe().MatchString("alice123") {
		t.Fatalf("expected username to match")
	}
	if UsernameRe().MatchString("Alice") {
		t.Fatalf("uppercase username must not match")
	}
}

func TestParseAddressRoundTrip(t *testing.T) {
	var a Address
	for i := range a {
		a[i] = byte(i)
	}
	parsed, err := ParseAddress(a.Hex())
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if parsed != a {
		t.Fatalf("round trip mismatch: got %v want %v", parsed, a)
	}
	if _, err := ParseAddress("not-hex"); err == nil {
		t.Fatalf("expected error for malformed address")
	}
}

func TestAddressCommonRoundTrip(t *testing.T) {
	var a Address
	for i := range a {
		a[i] = byte(i + 1)
	}
	ca := a.Common()
	if FromCommon(ca) != a {
		t.Fatalf("FromCommon(a.Common()) = %v, want %v", FromCommon(ca), a)
	}

	evmAddr := common.HexToAddress("0x000102030405060708090a0b0c0d0e0f10111213")
	got := FromCommon(evmAddr)
	if got.Common() != evmAddr {
		t.Fatalf("round trip mismatch: got %v want %v", got.Common(), evmAddr)
	}
}
