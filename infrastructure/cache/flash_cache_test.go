package cache

import "testing"

func TestFlashCacheDrainIsOneShot(t *testing.T) {
	c := NewFlashCache()
	c.Push("tok", Notice{Severity: "success", Title: "¡Parte creado!", Body: "guardado"})
	c.Push("tok", Notice{Severity: "error", Title: "Error", Body: "fallo"})

	got := c.Drain("tok")
	if len(got) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(got))
	}
	if got[0].Severity != "success" || got[1].Severity != "error" {
		t.Fatalf("expected FIFO order, got %+v", got)
	}

	if again := c.Drain("tok"); len(again) != 0 {
		t.Fatalf("drain must clear the queue, got %d notices", len(again))
	}
}

func TestFlashCacheIgnoresEmptyToken(t *testing.T) {
	c := NewFlashCache()
	c.Push("", Notice{Severity: "info"})
	if got := c.Drain(""); got != nil {
		t.Fatalf("empty token must not queue, got %+v", got)
	}
}

func TestFlashCacheTokensAreIsolated(t *testing.T) {
	c := NewFlashCache()
	c.Push("a", Notice{Title: "for a"})
	c.Push("b", Notice{Title: "for b"})
	if got := c.Drain("a"); len(got) != 1 || got[0].Title != "for a" {
		t.Fatalf("token a saw wrong notices: %+v", got)
	}
	if got := c.Drain("b"); len(got) != 1 || got[0].Title != "for b" {
		t.Fatalf("token b saw wrong notices: %+v", got)
	}
}
