package services

import (
	"errors"
	"strings"
	"testing"

	"codegaming/models"
)

func TestCreateGuestSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db, testLogger(), nil)

	session, err := svc.Create(&CreateGuestRequest{
		Nickname:  "  speedy  ",
		IPAddress: "192.168.1.10",
		UserAgent: "test-agent",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if session.ID == "" {
		t.Fatal("expected a generated session ID")
	}
	if session.Nickname != "speedy" {
		t.Errorf("Nickname = %q, want trimmed %q", session.Nickname, "speedy")
	}
	if session.IPAddress != "192.168.1.10" {
		t.Errorf("IPAddress = %q", session.IPAddress)
	}

	// The nickname must now read as taken.
	available, err := svc.CheckNickname("speedy")
	if err != nil {
		t.Fatalf("CheckNickname failed: %v", err)
	}
	if available {
		t.Error("nickname should not be available after creation")
	}
}

func TestCreateGuestSessionNicknameCollision(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db, testLogger(), nil)

	if _, err := svc.Create(&CreateGuestRequest{Nickname: "taken", IPAddress: "1.2.3.4"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := svc.Create(&CreateGuestRequest{Nickname: "taken", IPAddress: "1.2.3.4"})
	if !errors.Is(err, ErrNicknameTaken) {
		t.Fatalf("err = %v, want ErrNicknameTaken", err)
	}

	// The collision must not leave a second record behind.
	var count int64
	db.Model(&models.GuestSession{}).Where("nickname = ?", "taken").Count(&count)
	if count != 1 {
		t.Errorf("guest records = %d, want 1", count)
	}
}

func TestCreateGuestSessionNicknameBounds(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db, testLogger(), nil)

	cases := []string{"a", " x ", strings.Repeat("z", 51)}
	for _, nickname := range cases {
		if _, err := svc.Create(&CreateGuestRequest{Nickname: nickname, IPAddress: "1.2.3.4"}); !errors.Is(err, ErrInvalidNickname) {
			t.Errorf("Create(%q) err = %v, want ErrInvalidNickname", nickname, err)
		}
	}

	// 2 and 50 characters are both in bounds.
	if _, err := svc.Create(&CreateGuestRequest{Nickname: "ab", IPAddress: "1.2.3.4"}); err != nil {
		t.Errorf("Create(2 chars) failed: %v", err)
	}
	if _, err := svc.Create(&CreateGuestRequest{Nickname: strings.Repeat("y", 50), IPAddress: "1.2.3.4"}); err != nil {
		t.Errorf("Create(50 chars) failed: %v", err)
	}
}

func TestCreateGuestSessionIPFallback(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db, testLogger(), nil)

	session, err := svc.Create(&CreateGuestRequest{Nickname: "noip", IPAddress: "not-an-ip"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if session.IPAddress != "unknown" {
		t.Errorf("IPAddress = %q, want sentinel %q", session.IPAddress, "unknown")
	}
}

func TestGuestLookup(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db, testLogger(), nil)

	created, err := svc.Create(&CreateGuestRequest{Nickname: "finder", IPAddress: "1.2.3.4"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := svc.Lookup(created.ID, "finder")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("Lookup returned wrong session")
	}

	if _, err := svc.Lookup(created.ID, "someone-else"); !errors.Is(err, ErrGuestNotFound) {
		t.Errorf("mismatched nickname err = %v, want ErrGuestNotFound", err)
	}
	if _, err := svc.Lookup("missing-id", "finder"); !errors.Is(err, ErrGuestNotFound) {
		t.Errorf("missing id err = %v, want ErrGuestNotFound", err)
	}
}
