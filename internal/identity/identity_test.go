package identity

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestHashCode(t *testing.T) {
	cases := []struct {
		in   string
		want int32
	}{
		{"", 0},
		{"a", 97},
		{"ab", 3105},
		{"abc", 96354},
		{"é", 233},
	}
	for _, c := range cases {
		if got := HashCode(c.in); got != c.want {
			t.Errorf("HashCode(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestMintPeerID(t *testing.T) {
	a, b := MintPeerID(), MintPeerID()
	if a == b {
		t.Fatal("minted ids collide")
	}
	if len(a) != 36 {
		t.Fatalf("unexpected id shape: %q", a)
	}
}

func TestDeriveDisplayNameDeterministic(t *testing.T) {
	id := MintPeerID()
	first := DeriveDisplayName(id)
	for i := 0; i < 10; i++ {
		if got := DeriveDisplayName(id); got != first {
			t.Fatalf("name changed between derivations: %q vs %q", first, got)
		}
	}
}

func TestDisplayNameShape(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.StringMatching(`[a-zA-Z0-9-]{1,64}`).Draw(t, "id")
		name := DeriveDisplayName(id)

		parts := strings.Split(name, " ")
		if len(parts) != 2 {
			t.Fatalf("expected two words, got %q", name)
		}
		if !contains(colors, strings.ToLower(parts[0])) {
			t.Fatalf("first word %q not in colors", parts[0])
		}
		if !contains(animals, strings.ToLower(parts[1])) {
			t.Fatalf("second word %q not in animals", parts[1])
		}
		for _, w := range parts {
			if w[0] < 'A' || w[0] > 'Z' {
				t.Fatalf("word %q not capitalized", w)
			}
		}

		if again := DeriveDisplayName(id); again != name {
			t.Fatalf("derivation not deterministic: %q vs %q", name, again)
		}
	})
}

func contains(list []string, w string) bool {
	for _, v := range list {
		if v == w {
			return true
		}
	}
	return false
}

const (
	uaChromeWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaChromeMac     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaSafariIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
)

func TestParseUserAgent(t *testing.T) {
	t.Run("windows chrome", func(t *testing.T) {
		dev := parseUserAgent(uaChromeWindows)
		if dev.OS != "Windows" {
			t.Errorf("os = %q, want Windows", dev.OS)
		}
		if dev.Browser != "Chrome" {
			t.Errorf("browser = %q, want Chrome", dev.Browser)
		}
		if dev.Type != "desktop" {
			t.Errorf("type = %q, want desktop", dev.Type)
		}
	})

	t.Run("mac shortened", func(t *testing.T) {
		dev := parseUserAgent(uaChromeMac)
		if dev.OS != "Mac" {
			t.Errorf("os = %q, want Mac", dev.OS)
		}
	})

	t.Run("iphone is mobile", func(t *testing.T) {
		dev := parseUserAgent(uaSafariIPhone)
		if dev.Type != "mobile" {
			t.Errorf("type = %q, want mobile", dev.Type)
		}
	})

	t.Run("empty defaults to desktop", func(t *testing.T) {
		dev := parseUserAgent("")
		if dev.Type != "desktop" {
			t.Errorf("type = %q, want desktop", dev.Type)
		}
	})
}

func TestFromUserAgent(t *testing.T) {
	id := MintPeerID()

	di := FromUserAgent(id, uaChromeWindows)
	if di.DisplayName != DeriveDisplayName(id) {
		t.Errorf("displayName = %q, want %q", di.DisplayName, DeriveDisplayName(id))
	}
	if di.DeviceName != "Windows Chrome" {
		t.Errorf("deviceName = %q, want %q", di.DeviceName, "Windows Chrome")
	}

	if got := FromUserAgent(id, uaChromeMac).DeviceName; !strings.HasPrefix(got, "Mac ") {
		t.Errorf("deviceName = %q, want Mac prefix", got)
	}

	if got := FromUserAgent(id, "").DeviceName; got != "Unknown Device" {
		t.Errorf("deviceName = %q, want Unknown Device", got)
	}
}
