package i18n

import (
	"sync"
	"testing"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	data := map[string]string{"name": "age"}
	if msg := T("missing", data); msg != "Field age is missing." {
		t.Fatalf("expected rendered english message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("missing", data); msg == "Field age is missing." {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// unknown languages fall back to en
	SetLanguage("xx")
	if msg := T("missing", data); msg != "Field age is missing." {
		t.Fatalf("expected english fallback, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodeReturnsCode(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected code echo, got %q", msg)
	}
}

func TestRender_LeavesUnknownPlaceholders(t *testing.T) {
	got := Render("{name} must be a {expected}. Got {got}.", map[string]string{"name": "x", "expected": "string"})
	if got != "x must be a string. Got {got}." {
		t.Fatalf("unexpected render: %q", got)
	}
}

type fixedTranslator struct{}

func (fixedTranslator) Message(code string, _ map[string]string) string { return "fixed:" + code }

func TestSetTranslator_CustomAndReset(t *testing.T) {
	SetTranslator(fixedTranslator{})
	if msg := T("null", nil); msg != "fixed:null" {
		t.Fatalf("expected custom translator, got %q", msg)
	}
	SetTranslator(nil)
	if msg := T("null", map[string]string{"name": "a", "attr": "A"}); msg != "a/A cannot be null." {
		t.Fatalf("expected default translator after reset, got %q", msg)
	}
}

func TestTranslator_ConcurrentSwitch(t *testing.T) {
	defer SetLanguage("en")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetLanguage("ja")
			SetTranslator(fixedTranslator{})
			SetLanguage("en")
		}()
		go func() {
			defer wg.Done()
			if msg := T("missing", map[string]string{"name": "a"}); msg == "" {
				t.Errorf("empty message")
			}
		}()
	}
	wg.Wait()
}
